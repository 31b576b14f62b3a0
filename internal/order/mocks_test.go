package order

import (
	"context"

	"github.com/stretchr/testify/mock"

	"topup/internal/recovery"
	"topup/internal/txlog"
	"topup/kit/broker"
)

type LedgerMock struct {
	mock.Mock
	LedgerContract
}

func (m *LedgerMock) Balances(ctx context.Context, customerID string) (map[string]int64, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *LedgerMock) Balance(ctx context.Context, customerID, bucket string) (int64, error) {
	args := m.Called(ctx, customerID, bucket)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LedgerMock) Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	args := m.Called(ctx, customerID, bucket, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LedgerMock) Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	args := m.Called(ctx, customerID, bucket, amount)
	return args.Get(0).(int64), args.Error(1)
}

type TxlogMock struct {
	mock.Mock
	TxlogContract
}

func (m *TxlogMock) Append(ctx context.Context, rec txlog.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type RecoveryMock struct {
	mock.Mock
	RecoveryContract
}

func (m *RecoveryMock) CompensationFailed(ctx context.Context, alert recovery.Alert) {
	m.Called(ctx, alert)
}

func (m *RecoveryMock) RecordLost(ctx context.Context, rec txlog.Record, cause error) {
	m.Called(ctx, rec, cause)
}

func (m *RecoveryMock) SendToDLQ(ctx context.Context, topic string, reason string, payload any) {
	m.Called(ctx, topic, reason, payload)
}

type PublisherMock struct {
	mock.Mock
	PublisherContract
}

func (m *PublisherMock) Publish(ctx context.Context, evt broker.Event) []error {
	args := m.Called(ctx, evt)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]error)
}
