package observability

import "sync/atomic"

type Metrics struct {
	BatchesSubmitted     atomic.Int64
	BatchesRejected      atomic.Int64
	ItemsCommitted       atomic.Int64
	ItemsFailed          atomic.Int64
	LedgerDebits         atomic.Int64
	LedgerCredits        atomic.Int64
	Compensations        atomic.Int64
	Forfeitures          atomic.Int64
	CompensationFailures atomic.Int64
	ProviderCalls        atomic.Int64
	ProviderFailures     atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Snapshot copies every counter; keys are stable and used by /metrics.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return map[string]int64{
		"batches_submitted":     m.BatchesSubmitted.Load(),
		"batches_rejected":      m.BatchesRejected.Load(),
		"items_committed":       m.ItemsCommitted.Load(),
		"items_failed":          m.ItemsFailed.Load(),
		"ledger_debits":         m.LedgerDebits.Load(),
		"ledger_credits":        m.LedgerCredits.Load(),
		"compensations":         m.Compensations.Load(),
		"forfeitures":           m.Forfeitures.Load(),
		"compensation_failures": m.CompensationFailures.Load(),
		"provider_calls":        m.ProviderCalls.Load(),
		"provider_failures":     m.ProviderFailures.Load(),
	}
}
