package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"sweettech/internal/analysis"
	"sweettech/internal/archive"
	"sweettech/internal/media"
	"sweettech/internal/store"
)

// Handler owns the live sessions and serves the analysis API. Completed
// runs are persisted to the report store and optionally archived.
type Handler struct {
	analyzer analysis.Analyzer // nil when the credential is missing
	reports  *store.Store
	archive  *archive.S3Store

	mu       sync.RWMutex
	sessions map[string]*analysis.Session
}

func NewHandler(analyzer analysis.Analyzer, reports *store.Store, archiveStore *archive.S3Store) *Handler {
	return &Handler{
		analyzer: analyzer,
		reports:  reports,
		archive:  archiveStore,
		sessions: make(map[string]*analysis.Session),
	}
}

type mediaPayload struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

type startRequest struct {
	Text     string        `json:"text"`
	Language string        `json:"language"`
	Media    *mediaPayload `json:"media,omitempty"`
}

func (req startRequest) input() analysis.Input {
	in := analysis.Input{Text: req.Text, Language: req.Language}
	if req.Media != nil && req.Media.Data != "" {
		part := media.FromDataURI(req.Media.Data, req.Media.MIMEType)
		in.Media = &part
	}
	return in
}

func (h *Handler) session(id string) (*analysis.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if h.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration_error", "model API key is not configured")
		return
	}
	in := req.input()
	if in.IsEmpty() {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "input requires text or media")
		return
	}

	sess := analysis.NewSession(uuid.NewString())
	h.mu.Lock()
	h.sessions[sess.ID()] = sess
	h.mu.Unlock()

	go h.run(sess, in)
	writeJSON(w, http.StatusAccepted, sess.Snapshot())
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown session")
		return
	}
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if h.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration_error", "model API key is not configured")
		return
	}
	in := req.input()
	if in.IsEmpty() {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "input requires text or media")
		return
	}
	switch sess.Snapshot().State {
	case analysis.StateProfileLoading, analysis.StateInsightsLoading:
		writeError(w, http.StatusConflict, "busy", "a run is already in progress")
		return
	}

	go h.run(sess, in)
	writeJSON(w, http.StatusAccepted, sess.Snapshot())
}

// run drives the pipeline to completion and persists the result. The
// request context is deliberately not used: once issued, a run is not
// cancellable and outlives the HTTP exchange that started it.
func (h *Handler) run(sess *analysis.Session, in analysis.Input) {
	if err := sess.Start(context.Background(), h.analyzer, in); err != nil {
		log.Printf("session %s: %v", sess.ID(), err)
		return
	}
	h.persist(sess)
}

func (h *Handler) persist(sess *analysis.Session) {
	snap := sess.Snapshot()
	report := store.Report{
		ID:        snap.ID,
		Language:  snap.Language,
		CreatedAt: time.Now().UTC(),
		Record:    analysis.Merged(snap),
	}
	if err := h.reports.Put(report); err != nil {
		log.Printf("session %s: persist report: %v", snap.ID, err)
	}
	if h.archive != nil {
		data, err := analysis.ExportJSON(snap)
		if err == nil {
			err = h.archive.Put(context.Background(), snap.ID, analysis.DataExportFilename, data, "text/plain; charset=utf-8")
		}
		if err != nil {
			log.Printf("session %s: archive export: %v", snap.ID, err)
		}
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown session")
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown session")
		return
	}
	data, err := analysis.ExportJSON(sess.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+analysis.DataExportFilename+`"`)
	_, _ = w.Write(data)
}

func (h *Handler) handleListReports(w http.ResponseWriter, _ *http.Request) {
	rows := h.reports.List()
	if rows == nil {
		rows = []store.Report{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reports.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleConfigState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"configured": h.analyzer != nil})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
