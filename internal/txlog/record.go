package txlog

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidRecord = errors.New("invalid order record")

// Record is one committed order. It is written once and never changed.
type Record struct {
	ID               string    `json:"id" bson:"record_id"`
	BatchID          string    `json:"batch_id" bson:"batch_id"`
	CustomerID       string    `json:"customer_id" bson:"customer_id"`
	RecipientID      string    `json:"recipient_id" bson:"recipient_id"`
	RecipientZone    string    `json:"recipient_zone" bson:"recipient_zone"`
	RecipientName    string    `json:"recipient_name" bson:"recipient_name"`
	ProductCode      string    `json:"product_code" bson:"product_code"`
	Region           string    `json:"region" bson:"region"`
	Bucket           string    `json:"bucket" bson:"bucket"`
	Price            int64     `json:"price" bson:"price"`
	OrderIDs         []string  `json:"order_ids" bson:"order_ids"`
	RemainingBalance int64     `json:"remaining_balance" bson:"remaining_balance"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

func ValidateRecord(r Record) error {
	if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.CustomerID) == "" || r.ProductCode == "" || r.Price <= 0 || len(r.OrderIDs) == 0 {
		return ErrInvalidRecord
	}
	return nil
}
