package server

import (
	"net/http"

	"sweettech/internal/server/middleware"
)

// NewMux wires the API routes. rps/burst configure the per-client request
// limiter; rps <= 0 disables it.
func NewMux(h *Handler, rps float64, burst int) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/analyses", h.handleCreate)
	mux.HandleFunc("GET /v1/analyses/{id}", h.handleGet)
	mux.HandleFunc("POST /v1/analyses/{id}/start", h.handleStart)
	mux.HandleFunc("POST /v1/analyses/{id}/reset", h.handleReset)
	mux.HandleFunc("GET /v1/analyses/{id}/export", h.handleExport)
	mux.HandleFunc("GET /v1/analyses/{id}/watch", h.handleWatch)

	mux.HandleFunc("GET /v1/reports", h.handleListReports)
	mux.HandleFunc("GET /v1/reports/{id}", h.handleGetReport)

	mux.HandleFunc("GET /v1/config", h.handleConfigState)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	return middleware.CORS(middleware.RateLimit(rps, burst)(mux))
}
