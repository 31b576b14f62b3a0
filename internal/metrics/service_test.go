package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"topup/kit/observability"
)

func TestService_Count(t *testing.T) {
	var tests = []struct {
		name     string
		svc      func() *Service
		events   []string
		expected map[string]int64
	}{
		{
			name:     "nil metrics",
			svc:      func() *Service { return NewService(nil) },
			events:   []string{"order.committed"},
			expected: map[string]int64{},
		},
		{
			name:   "counts saga events and ignores the rest",
			svc:    func() *Service { return NewService(observability.NewMetrics()) },
			events: []string{"order.committed", "order.committed", "item.failed", "item.compensated", "item.forfeited", "compensation.failed", "item.debited", "batch.submitted"},
			expected: map[string]int64{
				"batches_submitted":     0,
				"batches_rejected":      0,
				"items_committed":       2,
				"items_failed":          1,
				"ledger_debits":         0,
				"ledger_credits":        0,
				"compensations":         1,
				"forfeitures":           1,
				"compensation_failures": 1,
				"provider_calls":        0,
				"provider_failures":     0,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.svc()
			for _, e := range tt.events {
				svc.Count(e)
			}
			require.Equal(t, tt.expected, svc.Snapshot())
		})
	}
}
