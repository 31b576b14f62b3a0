package txlog

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"

	"topup/kit/db"
	"topup/kit/observability"
)

var (
	ordersBucket = []byte("orders")
	// record id -> sequence key in ordersBucket
	idsBucket = []byte("order_ids")
)

// BoltRepository stores records under a monotonically increasing sequence
// key, so a cursor walk returns them in append order.
type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(path string) (*BoltRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Join(db.ErrInternal, err)
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		observability.L().Error("open order log failed", "layer", "repo", "component", "txlog", "repo", "BoltRepository", "path", path, "err", err)
		return nil, errors.Join(db.ErrUnavailable, err)
	}
	err = bdb.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(ordersBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(idsBucket)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Join(db.ErrInternal, err)
	}
	return &BoltRepository{db: bdb}, nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func (r *BoltRepository) Append(ctx context.Context, rec Record) error {
	if err := ValidateRecord(rec); err != nil {
		return errors.Join(db.ErrInvalid, err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(db.ErrInvalid, err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(idsBucket)
		if ids.Get([]byte(rec.ID)) != nil {
			return db.ErrConflict
		}
		orders := tx.Bucket(ordersBucket)
		seq, err := orders.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err := orders.Put(key, data); err != nil {
			return err
		}
		return ids.Put([]byte(rec.ID), key)
	})
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			return err
		}
		observability.L().Error("append order failed", "layer", "repo", "component", "txlog", "repo", "BoltRepository", "method", "Append", "record_id", rec.ID, "err", err)
		return errors.Join(db.ErrInternal, err)
	}
	return nil
}

func (r *BoltRepository) ListByCustomer(ctx context.Context, customerID string) ([]Record, error) {
	return r.list(func(rec Record) bool { return rec.CustomerID == customerID })
}

func (r *BoltRepository) ListAll(ctx context.Context) ([]Record, error) {
	return r.list(func(Record) bool { return true })
}

func (r *BoltRepository) list(keep func(Record) bool) ([]Record, error) {
	out := []Record{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(ordersBucket).ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if keep(rec) {
				out = append(out, rec)
			}
			return nil
		})
	})
	if err != nil {
		observability.L().Error("list orders failed", "layer", "repo", "component", "txlog", "repo", "BoltRepository", "err", err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	return out, nil
}
