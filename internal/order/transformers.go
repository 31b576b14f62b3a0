package order

import (
	"time"

	"topup/internal/events"
	"topup/internal/recovery"
	"topup/internal/txlog"
)

func ToBatchSubmittedEvent(batchID string, req BatchRequest, at time.Time) events.BatchSubmitted {
	return events.BatchSubmitted{BatchID: batchID, CustomerID: req.CustomerID, Region: req.Region, Items: len(req.Items), At: at}
}

func ToBatchRejectedEvent(res *BatchResult, reason string, at time.Time) events.BatchRejected {
	return events.BatchRejected{BatchID: res.BatchID, CustomerID: res.CustomerID, Reason: reason, Required: res.Required, Available: res.Available, At: at}
}

func ToItemDebitedEvent(batchID, customerID, bucket string, r ItemResult, balance int64, at time.Time) events.ItemDebited {
	return events.ItemDebited{BatchID: batchID, Item: r.Index, CustomerID: customerID, ProductCode: r.Request.ProductCode, Bucket: bucket, Amount: r.Price, Balance: balance, At: at}
}

func ToItemCompensatedEvent(batchID, customerID, bucket string, r ItemResult, at time.Time) events.ItemCompensated {
	return events.ItemCompensated{BatchID: batchID, Item: r.Index, CustomerID: customerID, ProductCode: r.Request.ProductCode, Bucket: bucket, Amount: r.Price, Reason: r.Reason, At: at}
}

func ToItemForfeitedEvent(batchID, customerID, bucket string, r ItemResult, at time.Time) events.ItemForfeited {
	return events.ItemForfeited{BatchID: batchID, Item: r.Index, CustomerID: customerID, ProductCode: r.Request.ProductCode, Bucket: bucket, Amount: r.Price, Reason: r.Reason, At: at}
}

func ToItemFailedEvent(batchID, customerID string, r ItemResult, at time.Time) events.ItemFailed {
	return events.ItemFailed{BatchID: batchID, Item: r.Index, CustomerID: customerID, RecipientID: r.Request.RecipientID, ProductCode: r.Request.ProductCode, Kind: string(r.Kind), Reason: r.Reason, At: at}
}

func ToCompensationFailedEvent(batchID, customerID, bucket string, r ItemResult, cause error, at time.Time) events.CompensationFailed {
	return events.CompensationFailed{BatchID: batchID, Item: r.Index, CustomerID: customerID, ProductCode: r.Request.ProductCode, Bucket: bucket, Amount: r.Price, Reason: cause.Error(), At: at}
}

func ToOrderCommittedEvent(rec txlog.Record) events.OrderCommitted {
	return events.OrderCommitted{
		BatchID:          rec.BatchID,
		RecordID:         rec.ID,
		CustomerID:       rec.CustomerID,
		RecipientID:      rec.RecipientID,
		RecipientZone:    rec.RecipientZone,
		RecipientName:    rec.RecipientName,
		ProductCode:      rec.ProductCode,
		Price:            rec.Price,
		OrderIDs:         append([]string(nil), rec.OrderIDs...),
		RemainingBalance: rec.RemainingBalance,
		At:               rec.CreatedAt,
	}
}

func ToRecord(id, batchID, customerID string, region string, bucket string, r ItemResult, at time.Time) txlog.Record {
	return txlog.Record{
		ID:               id,
		BatchID:          batchID,
		CustomerID:       customerID,
		RecipientID:      r.Request.RecipientID,
		RecipientZone:    r.Request.RecipientZone,
		RecipientName:    r.RecipientName,
		ProductCode:      r.Request.ProductCode,
		Region:           region,
		Bucket:           bucket,
		Price:            r.Price,
		OrderIDs:         append([]string(nil), r.OrderIDs...),
		RemainingBalance: r.RemainingBalance,
		CreatedAt:        at,
	}
}

func ToCompensationAlert(batchID, customerID, bucket string, r ItemResult, cause error, at time.Time) recovery.Alert {
	return recovery.Alert{
		Kind:        recovery.KindCompensationFailed,
		BatchID:     batchID,
		Item:        r.Index,
		CustomerID:  customerID,
		Bucket:      bucket,
		ProductCode: r.Request.ProductCode,
		Amount:      r.Price,
		Reason:      r.Reason,
		Cause:       cause.Error(),
		At:          at,
	}
}
