package ledger

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"topup/kit/db"
)

func TestLedgerSQLRepository_Debit(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name        string
		repo        func() *SQLRepository
		expected    int64
		expectedErr error
	}{
		{
			name: "client error",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				c.On("QueryRow", ctx, qBalanceDebit, []any{int64(1900), "c1", "balance_ph"}).Return((db.Row)(nil), db.ErrUnavailable)
				return NewSQLRepository(c)
			},
			expectedErr: db.ErrUnavailable,
		},
		{
			name: "no row means not applied",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Return(db.ErrNotFound)
				c.On("QueryRow", ctx, qBalanceDebit, []any{int64(1900), "c1", "balance_ph"}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expectedErr: ErrInsufficientFunds,
		},
		{
			name: "scan error",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Return(db.ErrInternal)
				c.On("QueryRow", ctx, qBalanceDebit, []any{int64(1900), "c1", "balance_ph"}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expectedErr: db.ErrInternal,
		},
		{
			name: "success returns new balance",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Run(func(args mock.Arguments) {
					d := args.Get(0).([]any)
					*(d[0].(*int64)) = 48100
				}).Return(nil)
				c.On("QueryRow", ctx, qBalanceDebit, []any{int64(1900), "c1", "balance_ph"}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expected: 48100,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bal, err := tt.repo().Debit(ctx, "c1", "balance_ph", 1900)
			if tt.expectedErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, bal)
		})
	}
}

func TestLedgerSQLRepository_Credit(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name        string
		repo        func() *SQLRepository
		expected    int64
		expectedErr error
	}{
		{
			name: "unknown customer",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Return(db.ErrNotFound)
				c.On("QueryRow", ctx, qBalanceCredit, []any{"c1", "balance_ph", int64(1900)}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expectedErr: ErrCustomerNotFound,
		},
		{
			name: "success",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Run(func(args mock.Arguments) {
					d := args.Get(0).([]any)
					*(d[0].(*int64)) = 50000
				}).Return(nil)
				c.On("QueryRow", ctx, qBalanceCredit, []any{"c1", "balance_ph", int64(1900)}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expected: 50000,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bal, err := tt.repo().Credit(ctx, "c1", "balance_ph", 1900)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, bal)
		})
	}
}

func TestLedgerSQLRepository_Balances(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name        string
		repo        func() *SQLRepository
		expected    map[string]int64
		expectedErr error
	}{
		{
			name: "unknown customer",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Return(db.ErrNotFound)
				c.On("QueryRow", ctx, qCustomerExists, []any{"c1"}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expectedErr: ErrCustomerNotFound,
		},
		{
			name: "query error",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Return(nil)
				c.On("QueryRow", ctx, qCustomerExists, []any{"c1"}).Return(r, nil)
				c.On("Query", ctx, qBalancesByCustomer, []any{"c1"}).Return((db.Rows)(nil), db.ErrInternal)
				return NewSQLRepository(c)
			},
			expectedErr: db.ErrInternal,
		},
		{
			name: "all buckets",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Return(nil)
				c.On("QueryRow", ctx, qCustomerExists, []any{"c1"}).Return(r, nil)
				c.On("Query", ctx, qBalancesByCustomer, []any{"c1"}).Return(&db.StaticRows{Values: [][]any{
					{"balance_br", int64(0)},
					{"balance_ph", int64(76000)},
				}}, nil)
				return NewSQLRepository(c)
			},
			expected: map[string]int64{"balance_br": 0, "balance_ph": 76000},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bals, err := tt.repo().Balances(ctx, "c1")
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, bals)
		})
	}
}

func TestLedgerSQLRepository_OverMockClient(t *testing.T) {
	ctx := context.Background()
	client, err := db.NewMockClient()
	require.NoError(t, err)
	repo := NewSQLRepository(client)

	_, err = repo.Credit(ctx, "c1", "balance_ph", 100)
	require.ErrorIs(t, err, ErrCustomerNotFound)

	require.NoError(t, repo.Register(ctx, "c1"))
	bal, err := repo.Credit(ctx, "c1", "balance_ph", 50000)
	require.NoError(t, err)
	require.Equal(t, int64(50000), bal)

	bal, err = repo.Debit(ctx, "c1", "balance_ph", 1900)
	require.NoError(t, err)
	require.Equal(t, int64(48100), bal)

	_, err = repo.Debit(ctx, "c1", "balance_ph", 48101)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = repo.Debit(ctx, "c1", "balance_br", 1)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	bals, err := repo.Balances(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"balance_ph": 48100}, bals)
}

func TestLedgerInMemoryRepository_Credit(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name        string
		start       int64
		amount      int64
		expected    int64
		expectedErr error
	}{
		{name: "adds to the bucket", start: 1000, amount: 500, expected: 1500},
		{name: "reaches the int64 ceiling", start: math.MaxInt64 - 1, amount: 1, expected: math.MaxInt64},
		{name: "past the ceiling is rejected", start: math.MaxInt64, amount: 1, expected: math.MaxInt64, expectedErr: ErrAmountOutOfRange},
		{name: "large amount on large balance is rejected", start: math.MaxInt64 / 2, amount: math.MaxInt64/2 + 2, expected: math.MaxInt64 / 2, expectedErr: db.ErrInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := NewInMemoryRepository()
			require.NoError(t, repo.Register(ctx, "c1"))
			_, err := repo.Credit(ctx, "c1", "balance_ph", tt.start)
			require.NoError(t, err)

			bal, err := repo.Credit(ctx, "c1", "balance_ph", tt.amount)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.expected, bal)
			}

			bals, err := repo.Balances(ctx, "c1")
			require.NoError(t, err)
			require.Equal(t, tt.expected, bals["balance_ph"])
		})
	}
}

func TestLedgerSQLRepository_CreditOverflowOverMockClient(t *testing.T) {
	ctx := context.Background()
	client, err := db.NewMockClient()
	require.NoError(t, err)
	repo := NewSQLRepository(client)
	require.NoError(t, repo.Register(ctx, "c1"))

	_, err = repo.Credit(ctx, "c1", "balance_ph", math.MaxInt64)
	require.NoError(t, err)
	_, err = repo.Credit(ctx, "c1", "balance_ph", 1)
	require.ErrorIs(t, err, db.ErrInvalid)

	bals, err := repo.Balances(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"balance_ph": math.MaxInt64}, bals)
}
