package handlers

import "net/http"

type Health struct {
	svc HealthContract
}

func NewHealth(svc HealthContract) *Health { return &Health{svc: svc} }

func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Check(r.Context())
	status := http.StatusOK
	if !res.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}
