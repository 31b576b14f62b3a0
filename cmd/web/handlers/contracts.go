package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"topup/internal/health"
	"topup/internal/notification"
	"topup/internal/order"
	"topup/internal/readmodels"
	"topup/internal/recovery"
	"topup/internal/txlog"
	"topup/kit/provider"
)

type OperatorContract interface {
	IsOperator(id string) bool
}

type OrderServiceContract interface {
	Submit(ctx context.Context, req order.BatchRequest) (*order.BatchResult, error)
}

type HistoryContract interface {
	ListByCustomer(ctx context.Context, customerID string) ([]txlog.Record, error)
	ListAll(ctx context.Context) ([]txlog.Record, error)
}

type BalanceReaderContract interface {
	Balances(ctx context.Context, customerID string) (map[string]int64, error)
}

// AccountsContract covers registration and operator balance adjustments.
type AccountsContract interface {
	RegisterCustomer(ctx context.Context, customerID string) error
	CreditBalance(ctx context.Context, operatorID, customerID, bucket string, amount int64) (int64, error)
	DebitBalance(ctx context.Context, operatorID, customerID, bucket string, amount int64) (int64, error)
}

type ProviderContract interface {
	QueryPoints(ctx context.Context) (decimal.Decimal, error)
	LookupRole(ctx context.Context, recipientID, zone string) (provider.Role, error)
}

type NotifierContract interface {
	Drain(customerID string) []notification.Message
}

type AlertsContract interface {
	Alerts() []recovery.Alert
}

type HealthContract interface {
	Check(ctx context.Context) health.Result
}

type MetricsContract interface {
	Snapshot() map[string]int64
}

// ViewsContract reads the projections built from the event journal.
type ViewsContract interface {
	GetBatch(batchID string) (readmodels.BatchView, bool)
	GetCustomer(customerID string) (readmodels.CustomerView, bool)
}
