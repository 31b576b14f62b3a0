package handlers

import (
	"errors"
	"net/http"
	"strings"

	"topup/cmd/web/validator"
	"topup/kit/observability"
)

type Provider struct {
	client ProviderContract
	ops    OperatorContract
}

func NewProvider(client ProviderContract, ops OperatorContract) *Provider {
	return &Provider{client: client, ops: ops}
}

func (h *Provider) Points(w http.ResponseWriter, r *http.Request) {
	if requireOperator(w, r, h.ops) == "" {
		return
	}
	points, err := h.client.QueryPoints(r.Context())
	if err != nil {
		observability.L().Warn("points query failed", "layer", "handler", "component", "provider", "method", "Points", "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"points": points.StringFixed(2)})
}

func (h *Provider) Role(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recipientID, zone := strings.TrimSpace(q.Get("recipient_id")), strings.TrimSpace(q.Get("zone"))
	if recipientID == "" || zone == "" {
		writeError(w, errors.Join(validator.ErrInvalidRequest, errors.New("recipient_id and zone are required")))
		return
	}
	role, err := h.client.LookupRole(r.Context(), recipientID, zone)
	if err != nil {
		observability.L().Info("role lookup failed", "layer", "handler", "component", "provider", "method", "Role", "recipient_id", recipientID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"recipient_id": role.RecipientID, "zone": role.Zone, "display_name": role.DisplayName})
}
