package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

const maxPayloadBytes = 1 << 20

// SaleProcessor runs one sale event to completion.
type SaleProcessor interface {
	Execute(ctx context.Context, raw []byte) domain.Outcome
}

// EventsHandler handles the ERP sale webhook.
type EventsHandler struct {
	processor SaleProcessor
}

// NewEventsHandler creates a new HTTP events handler.
func NewEventsHandler(processor SaleProcessor) *EventsHandler {
	return &EventsHandler{processor: processor}
}

// OutcomeResponse is the body returned for every processed event.
type OutcomeResponse struct {
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
	DispatchID string `json:"dispatch_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ServeHTTP handles POST /api/v1/sales/events requests. Processing is
// synchronous: the response carries the final outcome.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "unreadable_body", err.Error())
		return
	}
	if len(body) > maxPayloadBytes {
		WriteJSONError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "")
		return
	}

	outcome := h.processor.Execute(r.Context(), body)

	resp := OutcomeResponse{
		Outcome:    string(outcome.Status),
		Reason:     outcome.Reason,
		DispatchID: outcome.DispatchID,
	}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}

	writeJSON(w, statusFor(outcome), resp)
}

// statusFor maps an outcome onto an HTTP status. Webhook senders redeliver
// on 5xx, so only failures worth repeating get one.
func statusFor(o domain.Outcome) int {
	switch o.Status {
	case domain.OutcomeSent, domain.OutcomeSkipped:
		return http.StatusOK
	}

	switch {
	case errors.Is(o.Err, domain.ErrInvalidPayload):
		return http.StatusBadRequest
	case domain.IsPermanent(o.Err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}

// HealthHandler answers GET /healthz.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
