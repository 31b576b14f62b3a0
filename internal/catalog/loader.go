package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"topup/kit/money"
)

type fileProduct struct {
	Price *string  `yaml:"price"`
	SKUs  []string `yaml:"skus"`
}

type fileRegion struct {
	Bucket   string                 `yaml:"bucket"`
	Products map[string]fileProduct `yaml:"products"`
}

type fileCatalog struct {
	Version       string                `yaml:"version"`
	Regions       map[string]fileRegion `yaml:"regions"`
	NonRefundable []string              `yaml:"non_refundable"`
	Operators     []string              `yaml:"operators"`
}

func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(b)
}

// Parse builds a catalog from YAML. A price that is missing, unparsable,
// non-positive or finer than cents leaves the entry without a price; an
// entry without SKUs, or a region or product code that repeats once
// normalized, is a load error.
func Parse(b []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if len(fc.Regions) == 0 {
		return nil, fmt.Errorf("%w: no regions", ErrInvalidCatalog)
	}

	c := &Catalog{
		version:   fc.Version,
		regions:   make(map[string]Region, len(fc.Regions)),
		policy:    NewRefundPolicy(fc.Version, fc.NonRefundable),
		operators: trimAll(fc.Operators),
	}
	for name, fr := range fc.Regions {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || strings.TrimSpace(fr.Bucket) == "" {
			return nil, fmt.Errorf("%w: region %q needs a bucket", ErrInvalidCatalog, name)
		}
		if _, dup := c.regions[name]; dup {
			return nil, fmt.Errorf("%w: region %s declared twice", ErrInvalidCatalog, name)
		}
		r := Region{Name: name, Bucket: strings.TrimSpace(fr.Bucket), products: make(map[string]Entry, len(fr.Products))}
		for code, fp := range fr.Products {
			e, err := toEntry(code, fp)
			if err != nil {
				return nil, fmt.Errorf("%w: region %s: %v", ErrInvalidCatalog, name, err)
			}
			if _, dup := r.products[e.Code]; dup {
				return nil, fmt.Errorf("%w: region %s: product %s declared twice", ErrInvalidCatalog, name, e.Code)
			}
			r.products[e.Code] = e
		}
		c.regions[name] = r
	}
	return c, nil
}

func toEntry(code string, fp fileProduct) (Entry, error) {
	code = NormalizeCode(code)
	if code == "" {
		return Entry{}, errors.New("empty product code")
	}
	skus := trimAll(fp.SKUs)
	if len(skus) == 0 {
		return Entry{}, fmt.Errorf("product %s has no skus", code)
	}
	e := Entry{Code: code, SKUs: skus}
	if fp.Price != nil {
		if minor, err := money.Parse(strings.TrimSpace(*fp.Price)); err == nil && minor > 0 {
			e.Price = minor
			e.PriceSet = true
		}
	}
	return e, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
