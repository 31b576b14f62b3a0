package order

// State is the position of one item in the fulfilment saga.
type State string

const (
	StatePending           State = "PENDING"
	StateDebited           State = "DEBITED"
	StateSKULoop           State = "SKU_LOOP"
	StateRecipientVerified State = "RECIPIENT_VERIFIED"
	StateCompensating      State = "COMPENSATING"
	StateCommitted         State = "COMMITTED"
	StateFailed            State = "FAILED"
)

type FailureKind string

const (
	KindNone                FailureKind = ""
	KindInvalidRequest      FailureKind = "InvalidRequest"
	KindInvalidProduct      FailureKind = "InvalidProduct"
	KindPriceUnavailable    FailureKind = "PriceUnavailable"
	KindInsufficientBalance FailureKind = "InsufficientBalance"
	KindDebitFailed         FailureKind = "DebitFailed"
	KindProviderOrderFailed FailureKind = "ProviderOrderFailed"
	KindRecipientNotFound   FailureKind = "RecipientNotFound"
	KindCompensationFailed  FailureKind = "CompensationFailed"
)

// Reasons reported to the customer verbatim.
const (
	ReasonInvalidRequest      = "invalid request"
	ReasonInvalidProduct      = "Invalid Product"
	ReasonPriceUnavailable    = "Price Unavailable"
	ReasonInsufficientBalance = "Insufficient Balance"
	ReasonDebitFailed         = "Balance Deduction Failed"
	ReasonRecipientNotFound   = "recipient not found"
)

type ItemRequest struct {
	RecipientID   string `json:"recipient_id"`
	RecipientZone string `json:"recipient_zone"`
	ProductCode   string `json:"product_code"`
}

type BatchRequest struct {
	CustomerID string        `json:"customer_id"`
	Region     string        `json:"region"`
	Items      []ItemRequest `json:"items"`
}

type ItemResult struct {
	Index            int         `json:"index"`
	Request          ItemRequest `json:"request"`
	Price            int64       `json:"price"`
	State            State       `json:"state"`
	Kind             FailureKind `json:"kind,omitempty"`
	Reason           string      `json:"reason,omitempty"`
	OrderIDs         []string    `json:"order_ids,omitempty"`
	RecipientName    string      `json:"recipient_name,omitempty"`
	RecordID         string      `json:"record_id,omitempty"`
	RemainingBalance int64       `json:"remaining_balance"`
	Compensated      bool        `json:"compensated"`
	Forfeited        bool        `json:"forfeited"`
}

func (r ItemResult) Committed() bool { return r.State == StateCommitted }

type BatchResult struct {
	BatchID    string       `json:"batch_id"`
	CustomerID string       `json:"customer_id"`
	Region     string       `json:"region"`
	Bucket     string       `json:"bucket"`
	Items      []ItemResult `json:"items"`
	// Set only when the whole batch was rejected for insufficient balance.
	Required  int64 `json:"required,omitempty"`
	Available int64 `json:"available,omitempty"`
}

func (b BatchResult) CommittedCount() int {
	n := 0
	for _, it := range b.Items {
		if it.Committed() {
			n++
		}
	}
	return n
}
