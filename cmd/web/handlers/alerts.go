package handlers

import "net/http"

type Alerts struct {
	alerts AlertsContract
	ops    OperatorContract
}

func NewAlerts(alerts AlertsContract, ops OperatorContract) *Alerts {
	return &Alerts{alerts: alerts, ops: ops}
}

func (h *Alerts) List(w http.ResponseWriter, r *http.Request) {
	if requireOperator(w, r, h.ops) == "" {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": h.alerts.Alerts()})
}
