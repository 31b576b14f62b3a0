package catalog

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrUnknownRegion  = errors.New("unknown region")
)

// Entry is one purchasable product. A multi-SKU pack is charged Price once and
// fulfilled with one provider order per SKU, in order.
type Entry struct {
	Code string
	// Price in minor units; meaningful only when PriceSet is true.
	Price    int64
	PriceSet bool
	SKUs     []string
}

type Region struct {
	Name     string
	Bucket   string
	products map[string]Entry
}

// Lookup is case-insensitive on the product code.
func (r Region) Lookup(code string) (Entry, bool) {
	e, ok := r.products[NormalizeCode(code)]
	if !ok {
		return Entry{}, false
	}
	e.SKUs = append([]string(nil), e.SKUs...)
	return e, true
}

func (r Region) Codes() []string {
	codes := make([]string, 0, len(r.products))
	for c := range r.products {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Catalog is immutable once built; share it freely between goroutines.
type Catalog struct {
	version   string
	regions   map[string]Region
	policy    RefundPolicy
	operators []string
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Region(name string) (Region, error) {
	r, ok := c.regions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Region{}, ErrUnknownRegion
	}
	return r, nil
}

func (c *Catalog) Regions() []string {
	names := make([]string, 0, len(c.regions))
	for n := range c.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Policy() RefundPolicy { return c.policy }

func (c *Catalog) Operators() []string { return append([]string(nil), c.operators...) }

func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
