package handlers

import (
	"context"
	"net/http"

	"topup/cmd/web/validator"
	"topup/kit/money"
	"topup/kit/observability"
)

type Balances struct {
	json     *validator.JSON
	ledger   BalanceReaderContract
	accounts AccountsContract
	ops      OperatorContract
}

func NewBalances(jsonV *validator.JSON, ledger BalanceReaderContract, accounts AccountsContract, ops OperatorContract) *Balances {
	return &Balances{json: jsonV, ledger: ledger, accounts: accounts, ops: ops}
}

type adjustReq struct {
	CustomerID string `json:"customer_id" validate:"required,max=64"`
	Bucket     string `json:"bucket" validate:"required,max=32"`
	Amount     string `json:"amount" validate:"required,positive_amount"`
}

func (h *Balances) Get(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customer")
	bals, err := h.ledger.Balances(r.Context(), customerID)
	if err != nil {
		observability.L().Info("balances failed", "layer", "handler", "component", "balances", "method", "Get", "customer_id", customerID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer_id": customerID, "balances": formatBalances(bals)})
}

func (h *Balances) Credit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "Credit", h.accounts.CreditBalance)
}

func (h *Balances) Debit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "Debit", h.accounts.DebitBalance)
}

func (h *Balances) adjust(w http.ResponseWriter, r *http.Request, method string, apply func(ctx context.Context, operatorID, customerID, bucket string, amount int64) (int64, error)) {
	operatorID := requireOperator(w, r, h.ops)
	if operatorID == "" {
		return
	}
	var req adjustReq
	if err := h.json.Decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	bal, err := apply(r.Context(), operatorID, req.CustomerID, req.Bucket, amount)
	if err != nil {
		observability.L().Info("balance adjustment failed", "layer", "handler", "component", "balances", "method", method, "operator_id", operatorID, "customer_id", req.CustomerID, "bucket", req.Bucket, "err", err)
		writeError(w, err)
		return
	}
	observability.L().Info("balance adjusted", "layer", "handler", "component", "balances", "method", method, "operator_id", operatorID, "customer_id", req.CustomerID, "bucket", req.Bucket, "amount", amount)
	writeJSON(w, http.StatusOK, map[string]string{"customer_id": req.CustomerID, "bucket": req.Bucket, "balance": money.Format(bal)})
}

func formatBalances(bals map[string]int64) map[string]string {
	out := make(map[string]string, len(bals))
	for bucket, amt := range bals {
		out[bucket] = money.Format(amt)
	}
	return out
}
