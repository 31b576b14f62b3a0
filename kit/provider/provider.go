package provider

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrRejected marks a well-formed response whose status is not 200.
	ErrRejected = errors.New("provider rejected request")
	// ErrTransport marks timeouts, connection errors, non-2xx statuses and unreadable bodies.
	ErrTransport = errors.New("provider transport failure")
	// ErrUnavailable is returned without calling the provider while the breaker is open.
	ErrUnavailable = errors.New("provider unavailable")
)

const (
	OpCreateOrder = "createorder"
	OpLookupRole  = "getrole"
	OpQueryPoints = "querypoints"
)

// Client is the top-up provider. Every failure, whatever its cause, is a *Failure.
type Client interface {
	CreateOrder(ctx context.Context, recipientID, zone, skuID string) (string, error)
	LookupRole(ctx context.Context, recipientID, zone string) (Role, error)
	QueryPoints(ctx context.Context) (decimal.Decimal, error)
}

type Role struct {
	RecipientID string `json:"recipient_id"`
	Zone        string `json:"zone"`
	DisplayName string `json:"display_name"`
}

// Failure is the single failure shape callers see. Reason is the provider's
// own message for rejections and the transport error text otherwise.
type Failure struct {
	Op     string
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	return f.Op + ": " + f.Reason
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Transport reports whether the failure came from the transport rather than
// from the provider's business logic.
func (f *Failure) Transport() bool {
	return errors.Is(f.Err, ErrTransport)
}

// ReasonOf extracts the plain-text reason from err.
func ReasonOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func rejected(op, message string) *Failure {
	if message == "" {
		message = "Unknown error"
	}
	return &Failure{Op: op, Reason: message, Err: ErrRejected}
}

func transport(op string, err error) *Failure {
	return &Failure{Op: op, Reason: err.Error(), Err: errors.Join(ErrTransport, err)}
}

type Config struct {
	BaseURL string
	UID     string
	Email   string
	Key     string
	// Product is the provider's game identifier, e.g. "mobilelegends".
	Product string
	// RoleProductID is the SKU sent with role lookups.
	RoleProductID string
	Timeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://www.smile.one/ph",
		Product:       "mobilelegends",
		RoleProductID: "213",
		Timeout:       10 * time.Second,
	}
}
