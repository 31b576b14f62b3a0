package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgUniqueViolation = "23505"

// SQLClient adapts database/sql (pgx driver) to Client and maps driver
// errors onto the package sentinels.
type SQLClient struct {
	db *sql.DB
}

func NewSQLClient(sqlDB *sql.DB) *SQLClient {
	return &SQLClient{db: sqlDB}
}

// OpenPostgres opens a pool through the pgx stdlib driver and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*SQLClient, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Join(ErrUnavailable, err)
	}
	return &SQLClient{db: sqlDB}, nil
}

func (c *SQLClient) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

func (c *SQLClient) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	return &sqlRow{row: c.db.QueryRowContext(ctx, query, args...)}, nil
}

func (c *SQLClient) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	return &sqlRows{rows: rows}, nil
}

func (c *SQLClient) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (c *SQLClient) Close() error {
	return c.db.Close()
}

type sqlRow struct {
	row *sql.Row
}

func (r *sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return classify(err)
	}
	return nil
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool { return r.rows.Next() }

func (r *sqlRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return classify(err)
	}
	return nil
}

func (r *sqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return classify(err)
	}
	return nil
}

func (r *sqlRows) Close() error { return r.rows.Close() }

func classify(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errors.Join(ErrConflict, err)
	}
	return errors.Join(ErrInternal, err)
}
