package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"topup/cmd/web/validator"
	"topup/internal/app"
	"topup/internal/ledger"
	"topup/internal/order"
	"topup/kit/db"
	"topup/kit/money"
	"topup/kit/observability"
	"topup/kit/provider"
)

const OperatorHeader = "X-Operator-ID"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		observability.L().Error("encode response failed", "layer", "handler", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]string{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, app.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrInsufficientBalance), errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, validator.ErrInvalidJSON), errors.Is(err, validator.ErrInvalidRequest), errors.Is(err, money.ErrInvalidAmount), db.IsInvalid(err):
		return http.StatusBadRequest
	case db.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, provider.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, provider.ErrRejected), errors.Is(err, provider.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requireOperator writes 403 and returns "" unless the caller is an operator.
func requireOperator(w http.ResponseWriter, r *http.Request, ops OperatorContract) string {
	id := r.Header.Get(OperatorHeader)
	if !ops.IsOperator(id) {
		observability.L().Warn("operator check failed", "layer", "handler", "path", r.URL.Path, "operator_id", id)
		writeError(w, app.ErrForbidden)
		return ""
	}
	return id
}
