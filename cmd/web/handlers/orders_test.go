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
	"topup/internal/order"
	"topup/internal/txlog"
	"topup/kit/db"
)

func TestOrders_Create(t *testing.T) {
	mkReq := func(t *testing.T, body any) *http.Request {
		t.Helper()
		b, err := json.Marshal(body)
		require.NoError(t, err)
		return httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(b))
	}
	valid := orderReq{CustomerID: "c1", Region: "ph", Items: []orderItemReq{{RecipientID: "12345", RecipientZone: "6789", ProductCode: "22"}}}
	batch := order.BatchRequest{CustomerID: "c1", Region: "ph", Items: []order.ItemRequest{{RecipientID: "12345", RecipientZone: "6789", ProductCode: "22"}}}

	var tests = []struct {
		name       string
		req        func(t *testing.T) *http.Request
		svc        func() *orderServiceMock
		assertResp func(t *testing.T, rr *httptest.ResponseRecorder)
	}{
		{
			name: "invalid json",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte("{")))
			},
			svc: func() *orderServiceMock { return new(orderServiceMock) },
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, rr.Code)
			},
		},
		{
			name: "unknown field",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(`{"customer_id":"c1","region":"ph","items":[{}],"extra":1}`)))
			},
			svc: func() *orderServiceMock { return new(orderServiceMock) },
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, rr.Code)
			},
		},
		{
			name: "empty items",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, orderReq{CustomerID: "c1", Region: "ph"})
			},
			svc: func() *orderServiceMock { return new(orderServiceMock) },
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, rr.Code)
			},
		},
		{
			name: "per item failure is still 200",
			req:  func(t *testing.T) *http.Request { return mkReq(t, valid) },
			svc: func() *orderServiceMock {
				m := new(orderServiceMock)
				m.On("Submit", mock.Anything, batch).Return(&order.BatchResult{BatchID: "b1", Items: []order.ItemResult{
					{State: order.StateFailed, Kind: order.KindRecipientNotFound, Reason: order.ReasonRecipientNotFound, Compensated: true},
				}}, nil)
				return m
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, rr.Code)
				var got order.BatchResult
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				require.Equal(t, "b1", got.BatchID)
				require.Equal(t, order.KindRecipientNotFound, got.Items[0].Kind)
				require.True(t, got.Items[0].Compensated)
			},
		},
		{
			name: "insufficient balance returns 402 with result",
			req:  func(t *testing.T) *http.Request { return mkReq(t, valid) },
			svc: func() *orderServiceMock {
				m := new(orderServiceMock)
				m.On("Submit", mock.Anything, batch).Return(&order.BatchResult{BatchID: "b2", Required: 1900, Available: 1000},
					&order.InsufficientBalanceError{Required: 1900, Available: 1000})
				return m
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusPaymentRequired, rr.Code)
				var got struct {
					Error  string            `json:"error"`
					Result order.BatchResult `json:"result"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				require.Equal(t, "insufficient balance: required 19.00, available 10.00", got.Error)
				require.Equal(t, int64(1900), got.Result.Required)
			},
		},
		{
			name: "unknown customer returns 404",
			req:  func(t *testing.T) *http.Request { return mkReq(t, valid) },
			svc: func() *orderServiceMock {
				m := new(orderServiceMock)
				m.On("Submit", mock.Anything, batch).Return(&order.BatchResult{BatchID: "b3"}, errors.Join(db.ErrNotFound, order.ErrCustomerNotFound))
				return m
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, rr.Code)
			},
		},
		{
			name: "nil result falls back to plain error",
			req:  func(t *testing.T) *http.Request { return mkReq(t, valid) },
			svc: func() *orderServiceMock {
				m := new(orderServiceMock)
				m.On("Submit", mock.Anything, batch).Return(nil, errors.New("boom"))
				return m
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, rr.Code)
				require.JSONEq(t, `{"error":"boom"}`, rr.Body.String())
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.svc()
			rr := httptest.NewRecorder()
			NewOrders(validator.NewJSON(), svc, new(historyMock), ops).Create(rr, tt.req(t))
			tt.assertResp(t, rr)
			svc.AssertExpectations(t)
		})
	}
}

func TestOrders_History(t *testing.T) {
	recs := []txlog.Record{{ID: "r1", CustomerID: "c1", ProductCode: "22", Price: 1900, OrderIDs: []string{"ORD1"}}}

	var tests = []struct {
		name           string
		url            string
		operator       string
		all            bool
		history        func() *historyMock
		expectedStatus int
	}{
		{
			name:           "missing customer id",
			url:            "/orders",
			history:        func() *historyMock { return new(historyMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "own history",
			url:  "/orders?customer_id=c1",
			history: func() *historyMock {
				m := new(historyMock)
				m.On("ListByCustomer", mock.Anything, "c1").Return(recs, nil)
				return m
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "store failure",
			url:  "/orders?customer_id=c1",
			history: func() *historyMock {
				m := new(historyMock)
				m.On("ListByCustomer", mock.Anything, "c1").Return(nil, db.ErrInternal)
				return m
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "all requires operator",
			url:            "/orders/all",
			all:            true,
			operator:       "nobody",
			history:        func() *historyMock { return new(historyMock) },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:     "all for operator",
			url:      "/orders/all",
			all:      true,
			operator: "op1",
			history: func() *historyMock {
				m := new(historyMock)
				m.On("ListAll", mock.Anything).Return(recs, nil)
				return m
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hist := tt.history()
			h := NewOrders(validator.NewJSON(), new(orderServiceMock), hist, ops)
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req.Header.Set(OperatorHeader, tt.operator)
			rr := httptest.NewRecorder()
			if tt.all {
				h.All(rr, req)
			} else {
				h.List(rr, req)
			}
			require.Equal(t, tt.expectedStatus, rr.Code)
			hist.AssertExpectations(t)
			if rr.Code == http.StatusOK {
				var got struct {
					Orders []txlog.Record `json:"orders"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				require.Len(t, got.Orders, 1)
				require.Equal(t, []string{"ORD1"}, got.Orders[0].OrderIDs)
			}
		})
	}
}
