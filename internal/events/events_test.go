package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventNames(t *testing.T) {
	now := time.Now().UTC()

	var tests = []struct {
		name     string
		evt      interface{ Name() string; PartitionKey() string }
		expected string
		key      string
	}{
		{name: "batch.submitted", evt: BatchSubmitted{BatchID: "b1", At: now}, expected: "batch.submitted", key: "b1"},
		{name: "batch.rejected", evt: BatchRejected{BatchID: "b1", At: now}, expected: "batch.rejected", key: "b1"},
		{name: "item.debited", evt: ItemDebited{BatchID: "b1", At: now}, expected: "item.debited", key: "b1"},
		{name: "item.compensated", evt: ItemCompensated{BatchID: "b1", At: now}, expected: "item.compensated", key: "b1"},
		{name: "item.forfeited", evt: ItemForfeited{BatchID: "b1", At: now}, expected: "item.forfeited", key: "b1"},
		{name: "item.failed", evt: ItemFailed{BatchID: "b1", At: now}, expected: "item.failed", key: "b1"},
		{name: "compensation.failed", evt: CompensationFailed{BatchID: "b1", At: now}, expected: "compensation.failed", key: "b1"},
		{name: "order.committed", evt: OrderCommitted{BatchID: "b1", At: now}, expected: "order.committed", key: "b1"},
		{name: "customer.registered", evt: CustomerRegistered{CustomerID: "c1", At: now}, expected: "customer.registered", key: "c1"},
		{name: "balance.adjusted", evt: BalanceAdjusted{CustomerID: "c1", At: now}, expected: "balance.adjusted", key: "c1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, tt.evt.Name())
			require.Equal(t, tt.key, tt.evt.PartitionKey())
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	require.Len(t, names, 10)
	seen := map[string]bool{}
	for _, n := range names {
		require.False(t, seen[n], n)
		seen[n] = true
	}
	require.True(t, seen["order.committed"])
}
