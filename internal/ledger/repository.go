package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"topup/kit/db"
	"topup/kit/observability"
)

type SQLRepository struct {
	db db.Client
}

func NewSQLRepository(dbClient db.Client) *SQLRepository {
	return &SQLRepository{db: dbClient}
}

const (
	qCustomerInsert     = "INSERT INTO customers (customer_id, created_at) VALUES ($1, $2) ON CONFLICT (customer_id) DO NOTHING"
	qCustomerExists     = "SELECT customer_id FROM customers WHERE customer_id = $1"
	qBalancesByCustomer = "SELECT bucket, amount FROM balances WHERE customer_id = $1 ORDER BY bucket"
	qBalanceDebit       = "UPDATE balances SET amount = amount - $1 WHERE customer_id = $2 AND bucket = $3 AND amount >= $1 RETURNING amount"
	qBalanceCredit      = "INSERT INTO balances (customer_id, bucket, amount) SELECT $1::text, $2::text, $3::bigint WHERE EXISTS (SELECT 1 FROM customers WHERE customer_id = $1) ON CONFLICT (customer_id, bucket) DO UPDATE SET amount = balances.amount + EXCLUDED.amount RETURNING amount"
)

// Schema is applied statement by statement by Migrate.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
	customer_id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS balances (
	customer_id TEXT NOT NULL REFERENCES customers (customer_id),
	bucket TEXT NOT NULL,
	amount BIGINT NOT NULL CHECK (amount >= 0),
	PRIMARY KEY (customer_id, bucket)
)`,
}

func (r *SQLRepository) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if err := r.db.Exec(ctx, stmt); err != nil {
			observability.L().Error("ledger migration failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Migrate", "err", err)
			return err
		}
	}
	return nil
}

func (r *SQLRepository) Register(ctx context.Context, customerID string) error {
	if err := r.db.Exec(ctx, qCustomerInsert, customerID, time.Now().UTC()); err != nil {
		observability.L().Error("register customer failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Register", "customer_id", customerID, "err", err)
		return err
	}
	return nil
}

func (r *SQLRepository) Balances(ctx context.Context, customerID string) (map[string]int64, error) {
	row, err := r.db.QueryRow(ctx, qCustomerExists, customerID)
	if err != nil {
		observability.L().Error("customer lookup failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Balances", "customer_id", customerID, "err", err)
		return nil, err
	}
	var id string
	if err := row.Scan(&id); err != nil {
		if db.IsNotFound(err) {
			return nil, errors.Join(db.ErrNotFound, ErrCustomerNotFound)
		}
		observability.L().Error("customer lookup failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Balances", "customer_id", customerID, "err", err)
		return nil, err
	}

	rows, err := r.db.Query(ctx, qBalancesByCustomer, customerID)
	if err != nil {
		observability.L().Error("balances query failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Balances", "customer_id", customerID, "err", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int64)
	for rows.Next() {
		var bucket string
		var amount int64
		if err := rows.Scan(&bucket, &amount); err != nil {
			return nil, err
		}
		out[bucket] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepository) Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	row, err := r.db.QueryRow(ctx, qBalanceDebit, amount, customerID, bucket)
	if err != nil {
		observability.L().Error("debit failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Debit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, err
	}
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if db.IsNotFound(err) {
			return 0, ErrInsufficientFunds
		}
		observability.L().Error("debit failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Debit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, err
	}
	return bal, nil
}

func (r *SQLRepository) Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	row, err := r.db.QueryRow(ctx, qBalanceCredit, customerID, bucket, amount)
	if err != nil {
		observability.L().Error("credit failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Credit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, err
	}
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if db.IsNotFound(err) {
			return 0, errors.Join(db.ErrNotFound, ErrCustomerNotFound)
		}
		observability.L().Error("credit failed", "layer", "repo", "component", "ledger", "repo", "SQLRepository", "method", "Credit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, err
	}
	return bal, nil
}

type InMemoryRepository struct {
	mu        sync.Mutex
	customers map[string]map[string]int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{customers: make(map[string]map[string]int64)}
}

func (r *InMemoryRepository) Register(ctx context.Context, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customerID]; !ok {
		r.customers[customerID] = make(map[string]int64)
	}
	return nil
}

func (r *InMemoryRepository) Balances(ctx context.Context, customerID string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buckets, ok := r.customers[customerID]
	if !ok {
		return nil, errors.Join(db.ErrNotFound, ErrCustomerNotFound)
	}
	out := make(map[string]int64, len(buckets))
	for b, v := range buckets {
		out[b] = v
	}
	return out, nil
}

func (r *InMemoryRepository) Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buckets, ok := r.customers[customerID]
	if !ok {
		return 0, ErrInsufficientFunds
	}
	cur := buckets[bucket]
	if err := ValidateSufficientFunds(cur, amount); err != nil {
		return 0, err
	}
	buckets[bucket] = cur - amount
	return buckets[bucket], nil
}

func (r *InMemoryRepository) Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buckets, ok := r.customers[customerID]
	if !ok {
		return 0, errors.Join(db.ErrNotFound, ErrCustomerNotFound)
	}
	if prev := buckets[bucket]; amount > 0 && prev > math.MaxInt64-amount {
		return 0, errors.Join(db.ErrInvalid, ErrAmountOutOfRange)
	}
	buckets[bucket] += amount
	return buckets[bucket], nil
}
