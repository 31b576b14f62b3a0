package ledger

import (
	"context"
	"errors"

	"topup/kit/db"
	"topup/kit/observability"
)

type Service struct {
	repo    RepositoryContract
	metrics *observability.Metrics
}

func NewService(metrics *observability.Metrics) *Service {
	return NewServiceWithRepo(NewInMemoryRepository(), metrics)
}

func NewServiceWithRepo(repo RepositoryContract, metrics *observability.Metrics) *Service {
	return &Service{repo: repo, metrics: metrics}
}

// Register creates the customer with no balances; registering twice is a no-op.
func (s *Service) Register(ctx context.Context, customerID string) error {
	if err := ValidateCustomerID(customerID); err != nil {
		observability.L().Warn("invalid register request", "layer", "service", "component", "ledger", "method", "Register", "customer_id", customerID, "err", err)
		return errors.Join(db.ErrInvalid, err)
	}
	if err := s.repo.Register(ctx, customerID); err != nil {
		observability.L().Error("register failed", "layer", "service", "component", "ledger", "method", "Register", "customer_id", customerID, "err", err)
		return err
	}
	return nil
}

// Debit subtracts amount from the bucket only when the bucket holds at least
// amount. ErrInsufficientFunds covers a missing customer or bucket as well.
func (s *Service) Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	if err := ValidateMutationRequest(MutationRequest{CustomerID: customerID, Bucket: bucket, Amount: amount}); err != nil {
		observability.L().Warn("invalid debit request", "layer", "service", "component", "ledger", "method", "Debit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, errors.Join(db.ErrInvalid, err)
	}
	bal, err := s.repo.Debit(ctx, customerID, bucket, amount)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			observability.L().Info("debit not applied", "layer", "service", "component", "ledger", "method", "Debit", "customer_id", customerID, "bucket", bucket, "amount", amount)
		} else {
			observability.L().Error("debit failed", "layer", "service", "component", "ledger", "method", "Debit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		}
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.LedgerDebits.Add(1)
	}
	return bal, nil
}

func (s *Service) Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	if err := ValidateMutationRequest(MutationRequest{CustomerID: customerID, Bucket: bucket, Amount: amount}); err != nil {
		observability.L().Warn("invalid credit request", "layer", "service", "component", "ledger", "method", "Credit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, errors.Join(db.ErrInvalid, err)
	}
	bal, err := s.repo.Credit(ctx, customerID, bucket, amount)
	if err != nil {
		observability.L().Error("credit failed", "layer", "service", "component", "ledger", "method", "Credit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.LedgerCredits.Add(1)
	}
	return bal, nil
}

func (s *Service) Balances(ctx context.Context, customerID string) (map[string]int64, error) {
	if err := ValidateCustomerID(customerID); err != nil {
		return nil, errors.Join(db.ErrInvalid, err)
	}
	bals, err := s.repo.Balances(ctx, customerID)
	if err != nil {
		if !errors.Is(err, ErrCustomerNotFound) {
			observability.L().Error("balances failed", "layer", "service", "component", "ledger", "method", "Balances", "customer_id", customerID, "err", err)
		}
		return nil, err
	}
	return bals, nil
}

// Balance returns one bucket; a bucket never credited reads as zero.
func (s *Service) Balance(ctx context.Context, customerID, bucket string) (int64, error) {
	if err := ValidateBucket(bucket); err != nil {
		return 0, errors.Join(db.ErrInvalid, err)
	}
	bals, err := s.Balances(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return bals[bucket], nil
}
