package handlers

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"topup/internal/health"
	"topup/internal/notification"
	"topup/internal/order"
	"topup/internal/readmodels"
	"topup/internal/recovery"
	"topup/internal/txlog"
	"topup/kit/provider"
)

type operatorsStub map[string]bool

func (o operatorsStub) IsOperator(id string) bool { return o[id] }

var ops = operatorsStub{"op1": true}

type orderServiceMock struct{ mock.Mock }

func (m *orderServiceMock) Submit(ctx context.Context, req order.BatchRequest) (*order.BatchResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*order.BatchResult)
	return res, args.Error(1)
}

type historyMock struct{ mock.Mock }

func (m *historyMock) ListByCustomer(ctx context.Context, customerID string) ([]txlog.Record, error) {
	args := m.Called(ctx, customerID)
	recs, _ := args.Get(0).([]txlog.Record)
	return recs, args.Error(1)
}

func (m *historyMock) ListAll(ctx context.Context) ([]txlog.Record, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]txlog.Record)
	return recs, args.Error(1)
}

type balanceReaderMock struct{ mock.Mock }

func (m *balanceReaderMock) Balances(ctx context.Context, customerID string) (map[string]int64, error) {
	args := m.Called(ctx, customerID)
	bals, _ := args.Get(0).(map[string]int64)
	return bals, args.Error(1)
}

type accountsMock struct{ mock.Mock }

func (m *accountsMock) RegisterCustomer(ctx context.Context, customerID string) error {
	return m.Called(ctx, customerID).Error(0)
}

func (m *accountsMock) CreditBalance(ctx context.Context, operatorID, customerID, bucket string, amount int64) (int64, error) {
	args := m.Called(ctx, operatorID, customerID, bucket, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *accountsMock) DebitBalance(ctx context.Context, operatorID, customerID, bucket string, amount int64) (int64, error) {
	args := m.Called(ctx, operatorID, customerID, bucket, amount)
	return args.Get(0).(int64), args.Error(1)
}

type providerMock struct{ mock.Mock }

func (m *providerMock) QueryPoints(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *providerMock) LookupRole(ctx context.Context, recipientID, zone string) (provider.Role, error) {
	args := m.Called(ctx, recipientID, zone)
	return args.Get(0).(provider.Role), args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) Drain(customerID string) []notification.Message {
	msgs, _ := m.Called(customerID).Get(0).([]notification.Message)
	return msgs
}

type alertsMock struct{ mock.Mock }

func (m *alertsMock) Alerts() []recovery.Alert {
	alerts, _ := m.Called().Get(0).([]recovery.Alert)
	return alerts
}

type healthMock struct{ mock.Mock }

func (m *healthMock) Check(ctx context.Context) health.Result {
	return m.Called(ctx).Get(0).(health.Result)
}

type metricsMock struct{ mock.Mock }

func (m *metricsMock) Snapshot() map[string]int64 {
	return m.Called().Get(0).(map[string]int64)
}

type viewsMock struct{ mock.Mock }

func (m *viewsMock) GetBatch(batchID string) (readmodels.BatchView, bool) {
	args := m.Called(batchID)
	return args.Get(0).(readmodels.BatchView), args.Bool(1)
}

func (m *viewsMock) GetCustomer(customerID string) (readmodels.CustomerView, bool) {
	args := m.Called(customerID)
	return args.Get(0).(readmodels.CustomerView), args.Bool(1)
}
