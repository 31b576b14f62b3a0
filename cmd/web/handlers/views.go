package handlers

import (
	"fmt"
	"net/http"

	"topup/kit/db"
)

var (
	errBatchNotFound    = fmt.Errorf("%w: batch", db.ErrNotFound)
	errCustomerNotFound = fmt.Errorf("%w: no activity for customer", db.ErrNotFound)
)

type Views struct {
	views ViewsContract
}

func NewViews(views ViewsContract) *Views {
	return &Views{views: views}
}

func (h *Views) Batch(w http.ResponseWriter, r *http.Request) {
	v, ok := h.views.GetBatch(r.PathValue("batch"))
	if !ok {
		writeError(w, errBatchNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Views) Customer(w http.ResponseWriter, r *http.Request) {
	v, ok := h.views.GetCustomer(r.PathValue("customer"))
	if !ok {
		writeError(w, errCustomerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
