package handlers

import (
	"net/http"

	"topup/cmd/web/validator"
	"topup/kit/observability"
)

type Customers struct {
	json     *validator.JSON
	accounts AccountsContract
	notifier NotifierContract
}

func NewCustomers(jsonV *validator.JSON, accounts AccountsContract, notifier NotifierContract) *Customers {
	return &Customers{json: jsonV, accounts: accounts, notifier: notifier}
}

type registerReq struct {
	CustomerID string `json:"customer_id" validate:"required,max=64"`
}

// Register creates the customer with empty balances. Repeating it is harmless.
func (h *Customers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := h.json.Decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.accounts.RegisterCustomer(r.Context(), req.CustomerID); err != nil {
		observability.L().Error("register failed", "layer", "handler", "component", "customers", "method", "Register", "customer_id", req.CustomerID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"customer_id": req.CustomerID})
}

func (h *Customers) Notifications(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customer")
	writeJSON(w, http.StatusOK, map[string]any{"customer_id": customerID, "notifications": h.notifier.Drain(customerID)})
}
