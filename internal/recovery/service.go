package recovery

import (
	"context"
	"sync"
	"time"

	"topup/internal/txlog"
	"topup/kit/observability"
)

type Kind string

const (
	KindCompensationFailed Kind = "compensation_failed"
	KindRecordLost         Kind = "record_lost"
)

// Alert is a state the saga could not resolve on its own. Each one needs an
// operator: a manual credit for a failed compensation, a manual log entry for
// a lost record.
type Alert struct {
	Kind        Kind      `json:"kind"`
	BatchID     string    `json:"batch_id"`
	Item        int       `json:"item"`
	CustomerID  string    `json:"customer_id"`
	Bucket      string    `json:"bucket,omitempty"`
	ProductCode string    `json:"product_code"`
	Amount      int64     `json:"amount"`
	Reason      string    `json:"reason,omitempty"`
	Cause       string    `json:"cause"`
	OrderIDs    []string  `json:"order_ids,omitempty"`
	At          time.Time `json:"at"`
}

type Service struct {
	logger *observability.Logger

	mu     sync.Mutex
	alerts []Alert
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) CompensationFailed(ctx context.Context, a Alert) {
	a.Kind = KindCompensationFailed
	s.raise(a)
	s.logger.Error("compensation failed, manual credit required",
		"layer", "service", "component", "recovery", "method", "CompensationFailed",
		"batch_id", a.BatchID, "item", a.Item, "customer_id", a.CustomerID, "bucket", a.Bucket,
		"product_code", a.ProductCode, "amount", a.Amount, "reason", a.Reason, "cause", a.Cause)
}

func (s *Service) RecordLost(ctx context.Context, rec txlog.Record, cause error) {
	a := Alert{
		Kind:        KindRecordLost,
		BatchID:     rec.BatchID,
		CustomerID:  rec.CustomerID,
		Bucket:      rec.Bucket,
		ProductCode: rec.ProductCode,
		Amount:      rec.Price,
		OrderIDs:    append([]string(nil), rec.OrderIDs...),
		At:          time.Now().UTC(),
	}
	if cause != nil {
		a.Cause = cause.Error()
	}
	s.raise(a)
	s.logger.Error("committed order not logged",
		"layer", "service", "component", "recovery", "method", "RecordLost",
		"record", rec, "cause", a.Cause)
}

func (s *Service) SendToDLQ(ctx context.Context, topic string, reason string, payload any) {
	s.logger.Error("dlq", "layer", "service", "component", "recovery", "topic", topic, "reason", reason, "payload", payload)
}

// Alerts returns every alert raised since start, oldest first.
func (s *Service) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert(nil), s.alerts...)
}

func (s *Service) raise(a Alert) {
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}
	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	s.mu.Unlock()
}
