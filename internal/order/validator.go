package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"topup/internal/catalog"
	"topup/internal/ledger"
	"topup/kit/db"
	"topup/kit/money"
	"topup/kit/observability"
)

var (
	ErrInvalidBatch        = errors.New("invalid batch")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrNoValidItems        = errors.New("no valid items")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// InsufficientBalanceError rejects a whole batch before any debit.
type InsufficientBalanceError struct {
	Required  int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s", money.Format(e.Required), money.Format(e.Available))
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// PricedItem is an item that passed screening with its catalog entry resolved.
type PricedItem struct {
	Index   int
	Request ItemRequest
	Entry   catalog.Entry
}

type Validation struct {
	Region    catalog.Region
	Accepted  []PricedItem
	Rejected  []ItemResult
	Required  int64
	Available int64
}

type balanceReader interface {
	Balances(ctx context.Context, customerID string) (map[string]int64, error)
}

type Validator struct {
	catalog *catalog.Catalog
	ledger  balanceReader
}

func NewValidator(c *catalog.Catalog, l balanceReader) *Validator {
	return &Validator{catalog: c, ledger: l}
}

func ValidateBatchRequest(req BatchRequest) error {
	if strings.TrimSpace(req.CustomerID) == "" || strings.TrimSpace(req.Region) == "" || len(req.Items) == 0 {
		return ErrInvalidBatch
	}
	return nil
}

// ValidateItem resolves one item against the region's price list. A nil
// result means the item is accepted.
func ValidateItem(region catalog.Region, idx int, item ItemRequest) (PricedItem, *ItemResult) {
	reject := func(kind FailureKind, reason string) *ItemResult {
		return &ItemResult{Index: idx, Request: item, State: StateFailed, Kind: kind, Reason: reason}
	}
	if strings.TrimSpace(item.RecipientID) == "" || strings.TrimSpace(item.RecipientZone) == "" {
		return PricedItem{}, reject(KindInvalidRequest, ReasonInvalidRequest)
	}
	entry, ok := region.Lookup(item.ProductCode)
	if !ok {
		return PricedItem{}, reject(KindInvalidProduct, ReasonInvalidProduct)
	}
	if !entry.PriceSet {
		return PricedItem{}, reject(KindPriceUnavailable, ReasonPriceUnavailable)
	}
	return PricedItem{Index: idx, Request: item, Entry: entry}, nil
}

// Validate screens every item and checks the accepted total against the
// current bucket balance. The returned Validation is non-nil whenever the
// region resolved, so callers can report per-item rejections alongside err.
func (v *Validator) Validate(ctx context.Context, req BatchRequest) (*Validation, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, errors.Join(db.ErrInvalid, err)
	}
	region, err := v.catalog.Region(req.Region)
	if err != nil {
		return nil, errors.Join(db.ErrInvalid, ErrInvalidBatch, err)
	}

	bals, err := v.ledger.Balances(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, ledger.ErrCustomerNotFound) {
			return nil, errors.Join(db.ErrNotFound, ErrCustomerNotFound)
		}
		observability.L().Error("balance read failed", "layer", "service", "component", "order", "method", "Validate", "customer_id", req.CustomerID, "err", err)
		return nil, err
	}

	out := &Validation{Region: region, Available: bals[region.Bucket]}
	for i, item := range req.Items {
		priced, rejected := ValidateItem(region, i, item)
		if rejected != nil {
			out.Rejected = append(out.Rejected, *rejected)
			continue
		}
		out.Accepted = append(out.Accepted, priced)
		out.Required += priced.Entry.Price
	}

	if len(out.Accepted) == 0 {
		return out, errors.Join(db.ErrInvalid, ErrNoValidItems)
	}
	if out.Required > out.Available {
		return out, &InsufficientBalanceError{Required: out.Required, Available: out.Available}
	}
	return out, nil
}
