package subscribers

import (
	"context"

	"topup/internal/events"
	"topup/kit/broker"
)

type AuditEvent struct {
	audit AuditorContract
}

func NewAuditEvent(a AuditorContract) *AuditEvent {
	return &AuditEvent{audit: a}
}

func (h *AuditEvent) HandleAny(ctx context.Context, evt broker.Event) error {
	if h.audit == nil {
		return nil
	}

	var batchID string
	fields := map[string]any{}
	switch e := evt.(type) {
	case events.BatchSubmitted:
		batchID = e.BatchID
		fields["customer_id"] = e.CustomerID
		fields["region"] = e.Region
		fields["items"] = e.Items
	case events.BatchRejected:
		batchID = e.BatchID
		fields["customer_id"] = e.CustomerID
		fields["reason"] = e.Reason
		fields["required"] = e.Required
		fields["available"] = e.Available
	case events.ItemDebited:
		batchID = e.BatchID
		fields["item"] = e.Item
		fields["customer_id"] = e.CustomerID
		fields["bucket"] = e.Bucket
		fields["amount"] = e.Amount
		fields["balance"] = e.Balance
	case events.ItemCompensated:
		batchID = e.BatchID
		fields["item"] = e.Item
		fields["customer_id"] = e.CustomerID
		fields["bucket"] = e.Bucket
		fields["amount"] = e.Amount
		fields["reason"] = e.Reason
	case events.ItemForfeited:
		batchID = e.BatchID
		fields["item"] = e.Item
		fields["customer_id"] = e.CustomerID
		fields["product_code"] = e.ProductCode
		fields["amount"] = e.Amount
		fields["reason"] = e.Reason
	case events.ItemFailed:
		batchID = e.BatchID
		fields["item"] = e.Item
		fields["customer_id"] = e.CustomerID
		fields["kind"] = e.Kind
		fields["reason"] = e.Reason
	case events.CompensationFailed:
		batchID = e.BatchID
		fields["item"] = e.Item
		fields["customer_id"] = e.CustomerID
		fields["bucket"] = e.Bucket
		fields["amount"] = e.Amount
		fields["cause"] = e.Reason
	case events.OrderCommitted:
		batchID = e.BatchID
		fields["record_id"] = e.RecordID
		fields["customer_id"] = e.CustomerID
		fields["recipient_id"] = e.RecipientID
		fields["product_code"] = e.ProductCode
		fields["price"] = e.Price
		fields["order_ids"] = e.OrderIDs
	case events.CustomerRegistered:
		fields["customer_id"] = e.CustomerID
	case events.BalanceAdjusted:
		fields["customer_id"] = e.CustomerID
		fields["bucket"] = e.Bucket
		fields["amount"] = e.Amount
		fields["balance"] = e.Balance
		fields["operator_id"] = e.OperatorID
	}

	h.audit.Record(ctx, evt.Name(), batchID, fields)
	return nil
}
