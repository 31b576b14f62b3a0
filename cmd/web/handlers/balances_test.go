package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"topup/cmd/web/validator"
	"topup/internal/ledger"
	"topup/kit/db"
)

func TestBalances_Get(t *testing.T) {
	var tests = []struct {
		name           string
		ledger         func() *balanceReaderMock
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "formatted balances",
			ledger: func() *balanceReaderMock {
				m := new(balanceReaderMock)
				m.On("Balances", mock.Anything, "c1").Return(map[string]int64{"balance_ph": 48100, "balance_br": 0}, nil)
				return m
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"customer_id":"c1","balances":{"balance_ph":"481.00","balance_br":"0.00"}}`,
		},
		{
			name: "unknown customer",
			ledger: func() *balanceReaderMock {
				m := new(balanceReaderMock)
				m.On("Balances", mock.Anything, "c1").Return(nil, errors.Join(db.ErrNotFound, ledger.ErrCustomerNotFound))
				return m
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/balances/c1", nil)
			req.SetPathValue("customer", "c1")
			rr := httptest.NewRecorder()
			NewBalances(validator.NewJSON(), tt.ledger(), new(accountsMock), ops).Get(rr, req)
			require.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestBalances_Adjust(t *testing.T) {
	mkReq := func(t *testing.T, operator string, body any) *http.Request {
		t.Helper()
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/balances/credit", bytes.NewReader(b))
		req.Header.Set(OperatorHeader, operator)
		return req
	}

	var tests = []struct {
		name           string
		debit          bool
		operator       string
		body           any
		accounts       func() *accountsMock
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "not an operator",
			operator:       "c1",
			body:           adjustReq{CustomerID: "c1", Bucket: "balance_ph", Amount: "500.00"},
			accounts:       func() *accountsMock { return new(accountsMock) },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "amount with three decimals",
			operator:       "op1",
			body:           adjustReq{CustomerID: "c1", Bucket: "balance_ph", Amount: "1.005"},
			accounts:       func() *accountsMock { return new(accountsMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero amount",
			operator:       "op1",
			body:           adjustReq{CustomerID: "c1", Bucket: "balance_ph", Amount: "0"},
			accounts:       func() *accountsMock { return new(accountsMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "credit",
			operator: "op1",
			body:     adjustReq{CustomerID: "c1", Bucket: "balance_ph", Amount: "500.00"},
			accounts: func() *accountsMock {
				m := new(accountsMock)
				m.On("CreditBalance", mock.Anything, "op1", "c1", "balance_ph", int64(50000)).Return(int64(50000), nil)
				return m
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"customer_id":"c1","bucket":"balance_ph","balance":"500.00"}`,
		},
		{
			name:     "debit beyond balance",
			debit:    true,
			operator: "op1",
			body:     adjustReq{CustomerID: "c1", Bucket: "balance_ph", Amount: "60"},
			accounts: func() *accountsMock {
				m := new(accountsMock)
				m.On("DebitBalance", mock.Anything, "op1", "c1", "balance_ph", int64(6000)).Return(int64(0), ledger.ErrInsufficientFunds)
				return m
			},
			expectedStatus: http.StatusPaymentRequired,
		},
		{
			name:     "debit",
			debit:    true,
			operator: "op1",
			body:     adjustReq{CustomerID: "c1", Bucket: "balance_ph", Amount: "19"},
			accounts: func() *accountsMock {
				m := new(accountsMock)
				m.On("DebitBalance", mock.Anything, "op1", "c1", "balance_ph", int64(1900)).Return(int64(48100), nil)
				return m
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"customer_id":"c1","bucket":"balance_ph","balance":"481.00"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			acc := tt.accounts()
			h := NewBalances(validator.NewJSON(), new(balanceReaderMock), acc, ops)
			rr := httptest.NewRecorder()
			if tt.debit {
				h.Debit(rr, mkReq(t, tt.operator, tt.body))
			} else {
				h.Credit(rr, mkReq(t, tt.operator, tt.body))
			}
			require.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
			acc.AssertExpectations(t)
		})
	}
}
