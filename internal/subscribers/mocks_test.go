package subscribers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type AuditorMock struct {
	mock.Mock
	AuditorContract
}

func (m *AuditorMock) Record(ctx context.Context, eventName, batchID string, fields map[string]any) {
	m.Called(ctx, eventName, batchID, fields)
}

type NotifierMock struct {
	mock.Mock
	NotifierContract
}

func (m *NotifierMock) Notify(ctx context.Context, customerID string, msg string) {
	m.Called(ctx, customerID, msg)
}

type MetricsMock struct {
	mock.Mock
	MetricsContract
}

func (m *MetricsMock) Count(eventName string) { m.Called(eventName) }
