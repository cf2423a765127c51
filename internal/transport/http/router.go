// Package http assembles the chi router: shared middleware chain, the
// public form endpoints, the dashboard, and the operational surface.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dashhandler "motoreg/internal/dashboard/handler"
	"motoreg/internal/platform/middleware"
	reghandler "motoreg/internal/registration/handler"
	"motoreg/pkg/platform/middleware/metadata"
	"motoreg/pkg/platform/middleware/requesttime"
)

// NewRouter mounts every endpoint behind the shared middleware chain.
// rateLimit may be nil when limiting is disabled.
func NewRouter(
	logger *slog.Logger,
	reg *reghandler.Handler,
	dash *dashhandler.Handler,
	rateLimit func(http.Handler) http.Handler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	reg.Register(r, rateLimit)
	dash.Register(r)

	return r
}
