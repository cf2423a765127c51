// Package registration wires the form submission pipeline: normalizer,
// ordered validator, duplicate guard, and the store write.
package registration

import (
	"log/slog"

	"motoreg/internal/registration/guard"
	"motoreg/internal/registration/handler"
	"motoreg/internal/registration/metrics"
	"motoreg/internal/registration/models"
	"motoreg/internal/registration/service"
)

// Service runs the submission pipeline.
type Service = service.Service

// Handler exposes the form endpoints.
type Handler = handler.Handler

// NewService constructs the pipeline with its duplicate guard over the
// given store.
func NewService(store service.RecordStore, preset models.Preset, logger *slog.Logger, m *metrics.Metrics, opts ...service.Option) *Service {
	g := guard.New(store, preset, logger, m)
	all := append([]service.Option{
		service.WithLogger(logger),
		service.WithMetrics(m),
	}, opts...)
	return service.New(store, g, preset, all...)
}

// NewHandler constructs the HTTP handler for the public form.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
