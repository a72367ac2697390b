package web

import (
	"net/http"
	"time"

	"github.com/kuitang/daybook/internal/notes"
	"github.com/kuitang/daybook/internal/obs"
)

// Handler provides HTTP handlers for the journal UI.
type Handler struct {
	renderer     *Renderer
	notesService *notes.Service
	staticDir    string
}

// NewHandler creates a new web handler.
func NewHandler(renderer *Renderer, notesService *notes.Service, staticDir string) *Handler {
	return &Handler{
		renderer:     renderer,
		notesService: notesService,
		staticDir:    staticDir,
	}
}

// RegisterRoutes registers the journal page and static assets on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleJournal)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))
}

// JournalData contains data for the journal page. The page bootstraps with
// today's date and the current marked-day set; the rest of the state lives
// client-side and is reconciled through the JSON API.
type JournalData struct {
	Title      string
	Today      string
	MarkedDays []string
}

// HandleJournal serves the single-page journal view.
func (h *Handler) HandleJournal(w http.ResponseWriter, r *http.Request) {
	marked, err := h.notesService.MarkedDays(r.Context())
	if err != nil {
		obs.From(r.Context()).With("pkg", "web").Error("failed to load marked days", "error", err)
		// The page can still boot; the client recomputes marks on first fetch.
		marked = nil
	}

	data := JournalData{
		Title:      "Daybook",
		Today:      time.Now().Format(notes.DayFormat),
		MarkedDays: marked,
	}

	if err := h.renderer.Render(w, "journal.html", data); err != nil {
		obs.From(r.Context()).With("pkg", "web").Error("failed to render journal page", "error", err)
		h.renderer.RenderError(w, http.StatusInternalServerError, "Failed to render page")
	}
}
