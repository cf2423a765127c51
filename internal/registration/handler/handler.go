package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"motoreg/internal/registration/models"
	"motoreg/internal/registration/service"
	"motoreg/pkg/platform/httputil"
	"motoreg/pkg/requestcontext"
)

// Service defines the interface for submission operations.
type Service interface {
	Submit(ctx context.Context, draft models.Draft) (*service.Outcome, error)
	Status(ctx context.Context) service.Status
	Preset() models.Preset
}

// Handler wires the registration form endpoints to the submission pipeline.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registration handler with its dependencies.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the form endpoints. The submit route carries the
// rate-limit middleware when one is provided.
func (h *Handler) Register(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	if rateLimit != nil {
		r.With(rateLimit).Post("/api/registrations", h.handleSubmit)
	} else {
		r.Post("/api/registrations", h.handleSubmit)
	}
	r.Get("/api/registrations/status", h.handleStatus)
	r.Get("/api/registrations/config", h.handleConfig)
}

// handleSubmit runs one submission attempt. Domain failures travel in the
// outcome body with a matching status code; the draft is echoed back so the
// shell never loses user input.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.Submit(ctx, req.Draft())
	if err != nil {
		// Busy: another submission holds the pipeline.
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "submission processed",
		"request_id", requestID,
		"state", outcome.State,
		"error_kind", outcome.ErrorKind,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, statusForOutcome(outcome), outcome)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

func (h *Handler) handleConfig(w http.ResponseWriter, _ *http.Request) {
	p := h.service.Preset()
	sectors := make([]string, len(models.Sectors))
	for i, s := range models.Sectors {
		sectors[i] = string(s)
	}
	httputil.WriteJSON(w, http.StatusOK, ConfigResponse{
		Preset:         p.Name,
		PlateMaxLength: p.PlateMaxLength,
		PhoneRequired:  p.PhoneRequired,
		Sectors:        sectors,
		DefaultSector:  string(models.DefaultSector),
	})
}

// statusForOutcome maps terminal pipeline states to HTTP statuses. The body
// is always the outcome itself, so the shell renders one shape.
func statusForOutcome(o *service.Outcome) int {
	if o.State == service.StateSuccess {
		return http.StatusCreated
	}
	switch o.ErrorKind {
	case "duplicate_document", "duplicate_plate", "duplicate_record":
		return http.StatusConflict
	case "guard_unavailable", "unavailable":
		return http.StatusServiceUnavailable
	case "permission_denied", "unknown":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
