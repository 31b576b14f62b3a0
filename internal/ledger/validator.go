package ledger

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAmountOutOfRange  = errors.New("balance out of range")
)

type MutationRequest struct {
	CustomerID string
	Bucket     string
	Amount     int64
}

func ValidateCustomerID(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// ValidateBucket rejects names that cannot be used as a document path.
func ValidateBucket(bucket string) error {
	if strings.TrimSpace(bucket) == "" || strings.ContainsAny(bucket, ".$") {
		return ErrInvalidRequest
	}
	return nil
}

func ValidateMutationRequest(r MutationRequest) error {
	if err := ValidateCustomerID(r.CustomerID); err != nil {
		return err
	}
	if err := ValidateBucket(r.Bucket); err != nil {
		return err
	}
	if r.Amount <= 0 {
		return ErrInvalidRequest
	}
	return nil
}

func ValidateSufficientFunds(current, amount int64) error {
	if amount <= 0 {
		return ErrInvalidRequest
	}
	if current < amount {
		return ErrInsufficientFunds
	}
	return nil
}
