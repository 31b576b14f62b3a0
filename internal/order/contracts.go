package order

import (
	"context"

	"topup/internal/recovery"
	"topup/internal/txlog"
	"topup/kit/broker"
	"topup/kit/provider"
)

// ServiceContract define order orchestration responsibility.
type ServiceContract interface {
	Submit(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

// LedgerContract is the part of the balance ledger the saga drives.
type LedgerContract interface {
	Balances(ctx context.Context, customerID string) (map[string]int64, error)
	Balance(ctx context.Context, customerID, bucket string) (int64, error)
	Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error)
	Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error)
}

// ProviderContract define top-up provider responsibility.
type ProviderContract interface {
	CreateOrder(ctx context.Context, recipientID, zone, skuID string) (string, error)
	LookupRole(ctx context.Context, recipientID, zone string) (provider.Role, error)
}

// TxlogContract define committed order persistence.
type TxlogContract interface {
	Append(ctx context.Context, rec txlog.Record) error
}

// RecoveryContract define alerting for states that need an operator.
type RecoveryContract interface {
	CompensationFailed(ctx context.Context, alert recovery.Alert)
	RecordLost(ctx context.Context, rec txlog.Record, cause error)
	SendToDLQ(ctx context.Context, topic string, reason string, payload any)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}

// StoreContract define append responsibility (event journal).
type StoreContract interface {
	Append(ctx context.Context, streamID string, evt broker.Event) error
}
