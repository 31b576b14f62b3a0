package notification

import (
	"context"
	"sync"
	"time"

	"topup/kit/observability"
)

// perCustomer bounds the outbox kept for each customer.
const perCustomer = 50

type Message struct {
	CustomerID string    `json:"customer_id"`
	Text       string    `json:"text"`
	At         time.Time `json:"at"`
}

// Service is the hand-off to the messaging front end: per-item reports are
// logged and kept in a bounded outbox the front end drains.
type Service struct {
	logger *observability.Logger

	mu     sync.Mutex
	outbox map[string][]Message
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger, outbox: make(map[string][]Message)}
}

func (s *Service) Notify(ctx context.Context, customerID string, msg string) {
	s.logger.Info("notify", "layer", "service", "component", "notification", "customer_id", customerID, "msg", msg)

	s.mu.Lock()
	defer s.mu.Unlock()
	box := append(s.outbox[customerID], Message{CustomerID: customerID, Text: msg, At: time.Now().UTC()})
	if len(box) > perCustomer {
		box = box[len(box)-perCustomer:]
	}
	s.outbox[customerID] = box
}

// Drain returns and clears the customer's pending messages, oldest first.
func (s *Service) Drain(customerID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outbox[customerID]
	delete(s.outbox, customerID)
	if out == nil {
		return []Message{}
	}
	return out
}
