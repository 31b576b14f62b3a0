package subscribers

import (
	"context"
	"errors"

	"topup/kit/broker"
)

var ErrUnexpectedEventType = errors.New("unexpected event type")

type AuditorContract interface {
	Record(ctx context.Context, eventName, batchID string, fields map[string]any)
}

type NotifierContract interface {
	Notify(ctx context.Context, customerID string, msg string)
}

type MetricsContract interface {
	Count(eventName string)
}

// SubscriberContract define the subscribe side of the bus.
type SubscriberContract interface {
	Subscribe(eventName string, h broker.Handler)
}
