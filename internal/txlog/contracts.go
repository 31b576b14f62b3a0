package txlog

import "context"

// RepositoryContract define transaction log responsibility. Append refuses a
// record id that is already stored; listings are oldest first.
type RepositoryContract interface {
	Append(ctx context.Context, r Record) error
	ListByCustomer(ctx context.Context, customerID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
}
