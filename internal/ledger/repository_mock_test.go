package ledger

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type RepositoryMock struct {
	mock.Mock
	RepositoryContract
}

func (m *RepositoryMock) Register(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *RepositoryMock) Balances(ctx context.Context, customerID string) (map[string]int64, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *RepositoryMock) Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	args := m.Called(ctx, customerID, bucket, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepositoryMock) Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	args := m.Called(ctx, customerID, bucket, amount)
	return args.Get(0).(int64), args.Error(1)
}
