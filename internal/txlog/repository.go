package txlog

import (
	"context"
	"errors"
	"sync"

	"topup/kit/db"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	records []Record
	ids     map[string]struct{}
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{ids: make(map[string]struct{})}
}

func (r *InMemoryRepository) Append(ctx context.Context, rec Record) error {
	if err := ValidateRecord(rec); err != nil {
		return errors.Join(db.ErrInvalid, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[rec.ID]; ok {
		return db.ErrConflict
	}
	rec.OrderIDs = append([]string(nil), rec.OrderIDs...)
	r.ids[rec.ID] = struct{}{}
	r.records = append(r.records, rec)
	return nil
}

func (r *InMemoryRepository) ListByCustomer(ctx context.Context, customerID string) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Record{}
	for _, rec := range r.records {
		if rec.CustomerID == customerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Record{}, r.records...), nil
}
