package handlers

import (
	"errors"
	"net/http"
	"strings"

	"topup/cmd/web/validator"
	"topup/internal/order"
	"topup/kit/observability"
)

type Orders struct {
	json    *validator.JSON
	orders  OrderServiceContract
	history HistoryContract
	ops     OperatorContract
}

func NewOrders(jsonV *validator.JSON, orders OrderServiceContract, history HistoryContract, ops OperatorContract) *Orders {
	return &Orders{json: jsonV, orders: orders, history: history, ops: ops}
}

type orderItemReq struct {
	RecipientID   string `json:"recipient_id" validate:"max=32"`
	RecipientZone string `json:"recipient_zone" validate:"max=16"`
	ProductCode   string `json:"product_code" validate:"max=32"`
}

type orderReq struct {
	CustomerID string         `json:"customer_id" validate:"required,max=64"`
	Region     string         `json:"region" validate:"required,max=16"`
	Items      []orderItemReq `json:"items" validate:"required,min=1,max=50,dive"`
}

func (r orderReq) toBatch() order.BatchRequest {
	b := order.BatchRequest{CustomerID: r.CustomerID, Region: r.Region, Items: make([]order.ItemRequest, len(r.Items))}
	for i, it := range r.Items {
		b.Items[i] = order.ItemRequest{RecipientID: it.RecipientID, RecipientZone: it.RecipientZone, ProductCode: it.ProductCode}
	}
	return b
}

// Create runs one batch. Per-item failures are part of a 200 response; only a
// batch-level rejection changes the status.
func (h *Orders) Create(w http.ResponseWriter, r *http.Request) {
	var req orderReq
	if err := h.json.Decode(w, r, &req); err != nil {
		observability.L().Info("bad order request", "layer", "handler", "component", "orders", "method", "Create", "err", err)
		writeError(w, err)
		return
	}

	res, err := h.orders.Submit(r.Context(), req.toBatch())
	if err != nil {
		observability.L().Info("batch rejected", "layer", "handler", "component", "orders", "method", "Create", "customer_id", req.CustomerID, "err", err)
		if res == nil {
			writeError(w, err)
			return
		}
		writeJSON(w, statusOf(err), map[string]any{"error": err.Error(), "result": res})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// List returns the caller's committed orders.
func (h *Orders) List(w http.ResponseWriter, r *http.Request) {
	customerID := strings.TrimSpace(r.URL.Query().Get("customer_id"))
	if customerID == "" {
		writeError(w, errors.Join(validator.ErrInvalidRequest, errors.New("missing customer_id")))
		return
	}
	recs, err := h.history.ListByCustomer(r.Context(), customerID)
	if err != nil {
		observability.L().Error("history failed", "layer", "handler", "component", "orders", "method", "List", "customer_id", customerID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer_id": customerID, "orders": recs})
}

func (h *Orders) All(w http.ResponseWriter, r *http.Request) {
	if requireOperator(w, r, h.ops) == "" {
		return
	}
	recs, err := h.history.ListAll(r.Context())
	if err != nil {
		observability.L().Error("history failed", "layer", "handler", "component", "orders", "method", "All", "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": recs})
}
