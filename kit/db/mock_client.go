package db

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"time"
)

// MockClient interprets the ledger statements in memory. Every statement runs
// under one mutex, so the conditional debit has the same all-or-nothing
// behaviour as the single UPDATE it stands in for.
type MockClient struct {
	mu sync.Mutex

	// customer -> bucket -> minor units; a present key means a registered customer.
	ledger map[string]map[string]int64

	persistPath string
	lock        *os.File
}

type MockOption func(*MockClient) error

func NewMockClient(opts ...MockOption) (*MockClient, error) {
	c := &MockClient{ledger: make(map[string]map[string]int64)}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

// lockTimeout bounds how long WithLedgerJSONPersistence waits for the lock.
const lockTimeout = time.Second

// Close releases the persistence lock. Reads keep working; writes that would
// need persisting fail with ErrUnavailable.
func (c *MockClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lock == nil {
		return nil
	}
	err := unlockFile(c.lock)
	c.lock = nil
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// WithLedgerJSONFile seeds the ledger from path; a missing file is not an error.
func WithLedgerJSONFile(path string) MockOption {
	return func(c *MockClient) error {
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return errors.Join(ErrInternal, err)
		}
		if len(b) == 0 {
			return nil
		}
		var m map[string]map[string]int64
		if err := json.Unmarshal(b, &m); err != nil {
			return errors.Join(ErrInternal, err)
		}
		for customer, buckets := range m {
			if buckets == nil {
				m[customer] = make(map[string]int64)
			}
		}
		c.ledger = m
		return nil
	}
}

// WithLedgerJSONPersistence writes the ledger to path after every change. It
// holds an exclusive lock on path+".lock" until Close, so a second writer on
// the same file fails with ErrUnavailable instead of overwriting it. Pass it
// before WithLedgerJSONFile so the seed is read under the lock.
func WithLedgerJSONPersistence(path string) MockOption {
	return func(c *MockClient) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Join(ErrInternal, err)
		}
		lock, err := lockFile(path+".lock", lockTimeout)
		if err != nil {
			return err
		}
		c.lock = lock
		c.persistPath = path
		return nil
	}
}

func (c *MockClient) persistLocked() error {
	if c.persistPath == "" {
		return nil
	}
	if c.lock == nil {
		return errors.Join(ErrUnavailable, errors.New("ledger file closed"))
	}
	if err := os.MkdirAll(filepath.Dir(c.persistPath), 0o755); err != nil {
		return errors.Join(ErrInternal, err)
	}
	b, err := json.MarshalIndent(c.ledger, "", "  ")
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	b = append(b, '\n')

	tmp := c.persistPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Join(ErrInternal, err)
	}
	if err := os.Rename(tmp, c.persistPath); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (c *MockClient) Exec(ctx context.Context, query string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case "INSERT INTO customers (customer_id, created_at) VALUES ($1, $2) ON CONFLICT (customer_id) DO NOTHING":
		if len(args) != 2 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		customerID, _ := toString(args[0])
		if _, ok := c.ledger[customerID]; ok {
			return nil
		}
		c.ledger[customerID] = make(map[string]int64)
		if err := c.persistLocked(); err != nil {
			delete(c.ledger, customerID)
			return err
		}
		return nil
	default:
		return errors.Join(ErrInternal, errors.New("unsupported query"))
	}
}

func (c *MockClient) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case "SELECT customer_id FROM customers WHERE customer_id = $1":
		if len(args) != 1 {
			return &mockRow{err: errors.Join(ErrInternal, errors.New("invalid args"))}, nil
		}
		customerID, _ := toString(args[0])
		if _, ok := c.ledger[customerID]; !ok {
			return &mockRow{err: ErrNotFound}, nil
		}
		return &mockRow{vals: []any{customerID}}, nil
	case "UPDATE balances SET amount = amount - $1 WHERE customer_id = $2 AND bucket = $3 AND amount >= $1 RETURNING amount":
		if len(args) != 3 {
			return &mockRow{err: errors.Join(ErrInternal, errors.New("invalid args"))}, nil
		}
		amount, _ := args[0].(int64)
		customerID, _ := toString(args[1])
		bucket, _ := toString(args[2])
		buckets, ok := c.ledger[customerID]
		if !ok {
			return &mockRow{err: ErrNotFound}, nil
		}
		cur, ok := buckets[bucket]
		if !ok || cur < amount {
			return &mockRow{err: ErrNotFound}, nil
		}
		buckets[bucket] = cur - amount
		if err := c.persistLocked(); err != nil {
			buckets[bucket] = cur
			return &mockRow{err: err}, nil
		}
		return &mockRow{vals: []any{cur - amount}}, nil
	case "INSERT INTO balances (customer_id, bucket, amount) SELECT $1::text, $2::text, $3::bigint WHERE EXISTS (SELECT 1 FROM customers WHERE customer_id = $1) ON CONFLICT (customer_id, bucket) DO UPDATE SET amount = balances.amount + EXCLUDED.amount RETURNING amount":
		if len(args) != 3 {
			return &mockRow{err: errors.Join(ErrInternal, errors.New("invalid args"))}, nil
		}
		customerID, _ := toString(args[0])
		bucket, _ := toString(args[1])
		amount, _ := args[2].(int64)
		buckets, ok := c.ledger[customerID]
		if !ok {
			return &mockRow{err: ErrNotFound}, nil
		}
		prev, had := buckets[bucket]
		if amount > 0 && prev > math.MaxInt64-amount {
			return &mockRow{err: errors.Join(ErrInvalid, errors.New("bigint out of range"))}, nil
		}
		buckets[bucket] = prev + amount
		if err := c.persistLocked(); err != nil {
			if had {
				buckets[bucket] = prev
			} else {
				delete(buckets, bucket)
			}
			return &mockRow{err: err}, nil
		}
		return &mockRow{vals: []any{prev + amount}}, nil
	default:
		return &mockRow{err: errors.Join(ErrInternal, errors.New("unsupported query"))}, nil
	}
}

func (c *MockClient) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case "SELECT bucket, amount FROM balances WHERE customer_id = $1 ORDER BY bucket":
		if len(args) != 1 {
			return nil, errors.Join(ErrInternal, errors.New("invalid args"))
		}
		customerID, _ := toString(args[0])
		buckets := c.ledger[customerID]
		names := make([]string, 0, len(buckets))
		for name := range buckets {
			names = append(names, name)
		}
		sort.Strings(names)
		rows := make([][]any, 0, len(names))
		for _, name := range names {
			rows = append(rows, []any{name, buckets[name]})
		}
		return &mockRows{rows: rows, idx: -1}, nil
	default:
		return nil, errors.Join(ErrInternal, errors.New("unsupported query"))
	}
}

// Ping always succeeds; it lets the health check treat every client alike.
func (c *MockClient) Ping(ctx context.Context) error { return nil }

type mockRow struct {
	vals []any
	err  error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

type mockRows struct {
	rows [][]any
	idx  int
}

func (r *mockRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *mockRows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return errors.Join(ErrInternal, errors.New("scan outside result set"))
	}
	return assign(dest, r.rows[r.idx])
}

func (r *mockRows) Err() error   { return nil }
func (r *mockRows) Close() error { return nil }

func assign(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return errors.Join(ErrInternal, errors.New("scan arg mismatch"))
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			v, _ := vals[i].(string)
			*d = v
		case *int64:
			v, _ := vals[i].(int64)
			*d = v
		default:
			dv := reflect.ValueOf(dest[i])
			if dv.Kind() != reflect.Ptr || dv.IsNil() {
				return errors.Join(ErrInternal, errors.New("unsupported scan type"))
			}
			ev := dv.Elem()
			switch ev.Kind() {
			case reflect.String:
				if s, ok := vals[i].(string); ok {
					ev.SetString(s)
					continue
				}
			case reflect.Int64:
				if n, ok := vals[i].(int64); ok {
					ev.SetInt(n)
					continue
				}
			}
			return errors.Join(ErrInternal, errors.New("unsupported scan type"))
		}
	}
	return nil
}

func toString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
