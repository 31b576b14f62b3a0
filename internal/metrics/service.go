package metrics

import (
	"topup/internal/events"
	"topup/kit/observability"
)

// Service turns saga events into counters. Counters owned by the producing
// service (ledger, provider calls, batches) are not touched here.
type Service struct {
	m *observability.Metrics
}

func NewService(m *observability.Metrics) *Service {
	return &Service{m: m}
}

func (s *Service) Count(eventName string) {
	if s.m == nil {
		return
	}
	switch eventName {
	case (events.OrderCommitted{}).Name():
		s.m.ItemsCommitted.Add(1)
	case (events.ItemFailed{}).Name():
		s.m.ItemsFailed.Add(1)
	case (events.ItemCompensated{}).Name():
		s.m.Compensations.Add(1)
	case (events.ItemForfeited{}).Name():
		s.m.Forfeitures.Add(1)
	case (events.CompensationFailed{}).Name():
		s.m.CompensationFailures.Add(1)
	}
}

func (s *Service) Snapshot() map[string]int64 {
	return s.m.Snapshot()
}
