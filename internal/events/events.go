package events

import "time"

type BatchSubmitted struct {
	BatchID    string    `json:"batch_id"`
	CustomerID string    `json:"customer_id"`
	Region     string    `json:"region"`
	Items      int       `json:"items"`
	At         time.Time `json:"at"`
}

func (BatchSubmitted) Name() string { return "batch.submitted" }

func (e BatchSubmitted) PartitionKey() string { return e.BatchID }

type BatchRejected struct {
	BatchID    string    `json:"batch_id"`
	CustomerID string    `json:"customer_id"`
	Reason     string    `json:"reason"`
	Required   int64     `json:"required,omitempty"`
	Available  int64     `json:"available,omitempty"`
	At         time.Time `json:"at"`
}

func (BatchRejected) Name() string { return "batch.rejected" }

func (e BatchRejected) PartitionKey() string { return e.BatchID }

type ItemDebited struct {
	BatchID     string    `json:"batch_id"`
	Item        int       `json:"item"`
	CustomerID  string    `json:"customer_id"`
	ProductCode string    `json:"product_code"`
	Bucket      string    `json:"bucket"`
	Amount      int64     `json:"amount"`
	Balance     int64     `json:"balance"`
	At          time.Time `json:"at"`
}

func (ItemDebited) Name() string { return "item.debited" }

func (e ItemDebited) PartitionKey() string { return e.BatchID }

type ItemCompensated struct {
	BatchID     string    `json:"batch_id"`
	Item        int       `json:"item"`
	CustomerID  string    `json:"customer_id"`
	ProductCode string    `json:"product_code"`
	Bucket      string    `json:"bucket"`
	Amount      int64     `json:"amount"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

func (ItemCompensated) Name() string { return "item.compensated" }

func (e ItemCompensated) PartitionKey() string { return e.BatchID }

type ItemForfeited struct {
	BatchID     string    `json:"batch_id"`
	Item        int       `json:"item"`
	CustomerID  string    `json:"customer_id"`
	ProductCode string    `json:"product_code"`
	Bucket      string    `json:"bucket"`
	Amount      int64     `json:"amount"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

func (ItemForfeited) Name() string { return "item.forfeited" }

func (e ItemForfeited) PartitionKey() string { return e.BatchID }

type ItemFailed struct {
	BatchID     string    `json:"batch_id"`
	Item        int       `json:"item"`
	CustomerID  string    `json:"customer_id"`
	RecipientID string    `json:"recipient_id"`
	ProductCode string    `json:"product_code"`
	Kind        string    `json:"kind"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

func (ItemFailed) Name() string { return "item.failed" }

func (e ItemFailed) PartitionKey() string { return e.BatchID }

type CompensationFailed struct {
	BatchID     string    `json:"batch_id"`
	Item        int       `json:"item"`
	CustomerID  string    `json:"customer_id"`
	ProductCode string    `json:"product_code"`
	Bucket      string    `json:"bucket"`
	Amount      int64     `json:"amount"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

func (CompensationFailed) Name() string { return "compensation.failed" }

func (e CompensationFailed) PartitionKey() string { return e.BatchID }

type OrderCommitted struct {
	BatchID          string    `json:"batch_id"`
	RecordID         string    `json:"record_id"`
	CustomerID       string    `json:"customer_id"`
	RecipientID      string    `json:"recipient_id"`
	RecipientZone    string    `json:"recipient_zone"`
	RecipientName    string    `json:"recipient_name"`
	ProductCode      string    `json:"product_code"`
	Price            int64     `json:"price"`
	OrderIDs         []string  `json:"order_ids"`
	RemainingBalance int64     `json:"remaining_balance"`
	At               time.Time `json:"at"`
}

func (OrderCommitted) Name() string { return "order.committed" }

func (e OrderCommitted) PartitionKey() string { return e.BatchID }

type CustomerRegistered struct {
	CustomerID string    `json:"customer_id"`
	At         time.Time `json:"at"`
}

func (CustomerRegistered) Name() string { return "customer.registered" }

func (e CustomerRegistered) PartitionKey() string { return e.CustomerID }

// BalanceAdjusted is an operator credit (positive Amount) or debit (negative).
type BalanceAdjusted struct {
	CustomerID string    `json:"customer_id"`
	Bucket     string    `json:"bucket"`
	Amount     int64     `json:"amount"`
	Balance    int64     `json:"balance"`
	OperatorID string    `json:"operator_id"`
	At         time.Time `json:"at"`
}

func (BalanceAdjusted) Name() string { return "balance.adjusted" }

func (e BalanceAdjusted) PartitionKey() string { return e.CustomerID }

// Names lists every event the order pipeline and account operations emit.
func Names() []string {
	return []string{
		(BatchSubmitted{}).Name(),
		(BatchRejected{}).Name(),
		(ItemDebited{}).Name(),
		(ItemCompensated{}).Name(),
		(ItemForfeited{}).Name(),
		(ItemFailed{}).Name(),
		(CompensationFailed{}).Name(),
		(OrderCommitted{}).Name(),
		(CustomerRegistered{}).Name(),
		(BalanceAdjusted{}).Name(),
	}
}
