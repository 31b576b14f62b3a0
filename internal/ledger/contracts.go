package ledger

import "context"

// RepositoryContract define ledger storage responsibility. Debit and Credit
// must each be one atomic conditional operation in the backing store.
type RepositoryContract interface {
	Register(ctx context.Context, customerID string) error
	Balances(ctx context.Context, customerID string) (map[string]int64, error)
	Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error)
	Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error)
}

// ServiceContract define ledger service responsibility.
type ServiceContract interface {
	Register(ctx context.Context, customerID string) error
	Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error)
	Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error)
	Balances(ctx context.Context, customerID string) (map[string]int64, error)
	Balance(ctx context.Context, customerID, bucket string) (int64, error)
}
