package http

import (
	"log/slog"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(processor SaleProcessor, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/v1/sales/events", NewEventsHandler(processor))
	mux.HandleFunc("/healthz", HealthHandler)
	return WithRequestID(WithLogging(log, mux))
}
