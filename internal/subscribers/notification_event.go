package subscribers

import (
	"context"
	"fmt"
	"strings"

	"topup/internal/events"
	"topup/kit/broker"
	"topup/kit/money"
)

type NotificationEvent struct {
	n NotifierContract
}

func NewNotificationEvent(n NotifierContract) *NotificationEvent {
	return &NotificationEvent{n: n}
}

func (h *NotificationEvent) HandleOrderCommitted(ctx context.Context, evt broker.Event) error {
	if h.n == nil {
		return nil
	}
	e, ok := evt.(events.OrderCommitted)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedEventType, evt)
	}
	h.n.Notify(ctx, e.CustomerID, fmt.Sprintf("%s delivered to %s (%s %s), order %s, balance %s",
		e.ProductCode, e.RecipientName, e.RecipientID, e.RecipientZone, strings.Join(e.OrderIDs, ","), money.Format(e.RemainingBalance)))
	return nil
}

func (h *NotificationEvent) HandleItemFailed(ctx context.Context, evt broker.Event) error {
	if h.n == nil {
		return nil
	}
	e, ok := evt.(events.ItemFailed)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedEventType, evt)
	}
	h.n.Notify(ctx, e.CustomerID, fmt.Sprintf("%s for %s failed: %s", e.ProductCode, e.RecipientID, e.Reason))
	return nil
}

func (h *NotificationEvent) HandleItemCompensated(ctx context.Context, evt broker.Event) error {
	if h.n == nil {
		return nil
	}
	e, ok := evt.(events.ItemCompensated)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedEventType, evt)
	}
	h.n.Notify(ctx, e.CustomerID, fmt.Sprintf("%s refunded for %s", money.Format(e.Amount), e.ProductCode))
	return nil
}

func (h *NotificationEvent) HandleBatchRejected(ctx context.Context, evt broker.Event) error {
	if h.n == nil {
		return nil
	}
	e, ok := evt.(events.BatchRejected)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedEventType, evt)
	}
	h.n.Notify(ctx, e.CustomerID, "order rejected: "+e.Reason)
	return nil
}
