package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"motoreg/internal/dashboard/service"
	"motoreg/pkg/platform/httputil"
)

// Handler serves the dashboard read endpoints from the reader's snapshot.
type Handler struct {
	reader *service.Reader
	share  service.Share
	logger *slog.Logger
}

// New constructs the dashboard handler.
func New(reader *service.Reader, share service.Share, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, share: share, logger: logger}
}

// Register mounts the dashboard endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/dashboard/registrations", h.handleRows)
	r.Get("/api/dashboard/stats", h.handleStats)
	r.Get("/api/dashboard/share", h.handleShare)
}

type rowsResponse struct {
	Rows  []service.Row `json:"rows"`
	Total int           `json:"total"`
	Shown int           `json:"shown"`
}

// handleRows applies the query filters to the current snapshot.
func (h *Handler) handleRows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows := h.reader.Rows(service.Filter{
		Document: q.Get("document"),
		Plate:    q.Get("plate"),
		Sector:   q.Get("sector"),
	})
	httputil.WriteJSON(w, http.StatusOK, rowsResponse{
		Rows:  rows,
		Total: h.reader.Snapshot().Total,
		Shown: len(rows),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.reader.SectorStats())
}

func (h *Handler) handleShare(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.share)
}
