// Package api provides the JSON REST handlers for notes.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/kuitang/daybook/internal/errs"
	"github.com/kuitang/daybook/internal/metrics"
	"github.com/kuitang/daybook/internal/notes"
	"github.com/kuitang/daybook/internal/obs"
)

// Handler wraps the notes service and provides HTTP handlers.
type Handler struct {
	notesService *notes.Service
	metrics      *metrics.Metrics
}

// NewHandler creates a new API handler with the given notes service.
// metrics may be nil in tests.
func NewHandler(notesService *notes.Service, m *metrics.Metrics) *Handler {
	return &Handler{notesService: notesService, metrics: m}
}

// RegisterRoutes registers all notes API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /notes", h.instrument("POST /notes", http.HandlerFunc(h.CreateNote)))
	mux.Handle("GET /notes", h.instrument("GET /notes", http.HandlerFunc(h.ListNotes)))
	mux.Handle("DELETE /notes/{id}", h.instrument("DELETE /notes/{id}", http.HandlerFunc(h.DeleteNote)))
}

// instrument wraps a route with the duration histogram, keyed by the route
// pattern so label cardinality stays bounded.
func (h *Handler) instrument(pattern string, next http.Handler) http.Handler {
	if h.metrics == nil {
		return next
	}
	return h.metrics.InstrumentHandler(pattern, next)
}

// CreateNote handles POST /notes - persists a new note.
// The request may carry a "date" field; it is ignored, the server clock is
// authoritative for createdAt.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var params notes.CreateNoteParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	note, err := h.notesService.Create(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, r, err, "create_note", "title", params.Title)
		return
	}

	if h.metrics != nil {
		h.metrics.NotesCreated.Inc()
	}
	writeJSON(w, http.StatusCreated, note)
}

// ListNotes handles GET /notes - returns all notes, or only one calendar
// day's notes when ?day=YYYY-MM-DD is supplied. Omitting the filter is the
// common case; the browser client fetches unfiltered and buckets locally.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")

	listed, err := h.notesService.List(r.Context(), day)
	if err != nil {
		h.writeServiceError(w, r, err, "list_notes", "day", day)
		return
	}

	if h.metrics != nil {
		h.metrics.NotesListed.Inc()
	}
	writeJSON(w, http.StatusOK, listed)
}

// DeleteNote handles DELETE /notes/{id} - removes a note and echoes its data.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "note id is required")
		return
	}

	result, err := h.notesService.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "delete_note", "id", id)
		return
	}

	if h.metrics != nil {
		h.metrics.NotesDeleted.Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

// writeServiceError maps a service error to an HTTP response. Client errors
// pass their message through; anything else is logged with operation context
// and reported generically.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string, key, value string) {
	code := errs.CodeOf(err)
	status := errs.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		obs.From(r.Context()).With("pkg", "api").Error(
			"store operation failed",
			"op", op,
			key, value,
			"error", err,
		)
	}
	writeError(w, status, errs.MessageOf(err))
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
