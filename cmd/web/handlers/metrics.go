package handlers

import "net/http"

type Metrics struct {
	svc MetricsContract
}

func NewMetrics(svc MetricsContract) *Metrics {
	return &Metrics{svc: svc}
}

func (h *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot())
}
