// Package guard implements the pre-submission duplicate check: two equality
// queries against the record store (by document, by plate), each raced
// against a bounded wait. The check is a best-effort pre-screen, not a
// uniqueness guarantee; the postgres store's unique indexes are the backstop.
package guard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"motoreg/internal/registration/metrics"
	"motoreg/internal/registration/models"
	"motoreg/pkg/platform/sentinel"
	"motoreg/pkg/requestcontext"
)

// Index is the narrow store surface the guard needs.
type Index interface {
	FindByDocument(ctx context.Context, document string) ([]models.Record, error)
	FindByPlate(ctx context.Context, plate string) ([]models.Record, error)
}

// DuplicateError reports which field collided with an existing record.
type DuplicateError struct {
	Field   string // "document" or "plate"
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

// QueryError is the fail-closed outcome: the guard could not complete and
// the preset blocks submission.
type QueryError struct {
	cause error
}

func (e *QueryError) Error() string {
	return "VERIFICACIÓN DE DUPLICADOS FALLÓ, INTENTA NUEVAMENTE"
}

func (e *QueryError) Unwrap() error { return e.cause }

// Guard checks a draft against existing records before the write.
type Guard struct {
	index   Index
	preset  models.Preset
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a Guard. Logger and metrics may be nil in tests.
func New(index Index, preset models.Preset, logger *slog.Logger, m *metrics.Metrics) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{index: index, preset: preset, logger: logger, metrics: m}
}

type fieldResult struct {
	field   string
	found   bool
	message string
	err     error
}

// Check returns nil when submission may proceed, a *DuplicateError when a
// field collides, and a *QueryError when the guard could not complete under
// a fail-closed preset. Under a fail-open preset an inconclusive check is
// logged, the configured pause is honored, and submission proceeds.
func (g *Guard) Check(ctx context.Context, d models.Draft) error {
	results := make([]fieldResult, 2)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		found, err := g.exists(egctx, func(qctx context.Context) (bool, error) {
			recs, err := g.index.FindByDocument(qctx, d.Document)
			return len(recs) > 0, err
		})
		results[0] = fieldResult{field: "document", found: found, err: err,
			message: "¡CÉDULA YA REGISTRADA! Usa otra cédula"}
		return nil
	})
	eg.Go(func() error {
		found, err := g.exists(egctx, func(qctx context.Context) (bool, error) {
			recs, err := g.index.FindByPlate(qctx, d.Plate)
			return len(recs) > 0, err
		})
		results[1] = fieldResult{field: "plate", found: found, err: err,
			message: "¡PLACA YA REGISTRADA! Usa otra placa"}
		return nil
	})
	_ = eg.Wait() // branches record outcomes, never return errors

	// A confirmed duplicate always wins over an inconclusive query.
	for _, r := range results {
		if r.found {
			if g.metrics != nil {
				g.metrics.DuplicatesBlocked.WithLabelValues(r.field).Inc()
			}
			return &DuplicateError{Field: r.field, Message: r.message}
		}
	}

	for _, r := range results {
		if r.err == nil {
			continue
		}
		if !g.preset.GuardFailOpen || !IsInconclusive(r.err) {
			// Fail-closed preset, or a definite store failure (permission,
			// malformed query): block and let the user retry.
			return &QueryError{cause: r.err}
		}
		// Fail-open: an inconclusive check must not block a legitimate
		// registration behind a network hiccup. Warn, pause, proceed; a
		// rare duplicate slipping through is accepted here.
		g.logger.WarnContext(ctx, "duplicate check inconclusive, proceeding",
			"request_id", requestcontext.RequestID(ctx),
			"field", r.field,
			"error", r.err.Error(),
		)
		if g.metrics != nil {
			g.metrics.GuardTimeouts.Inc()
		}
		g.pause(ctx)
		return nil
	}

	return nil
}

// exists races one store query against the guard timeout. The losing slow
// query's eventual result lands in a buffered channel and is discarded; it
// never mutates state after the deadline path has proceeded.
func (g *Guard) exists(ctx context.Context, find func(context.Context) (bool, error)) (bool, error) {
	type result struct {
		found bool
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		found, err := find(ctx)
		ch <- result{found: found, err: err}
	}()

	timer := time.NewTimer(g.preset.GuardTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.found, r.err
	case <-timer.C:
		return false, sentinel.ErrDeadlineExceeded
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (g *Guard) pause(ctx context.Context) {
	if g.preset.GuardRetryPause <= 0 {
		return
	}
	select {
	case <-time.After(g.preset.GuardRetryPause):
	case <-ctx.Done():
	}
}

// IsInconclusive reports whether an error represents a bounded-wait miss
// rather than a definite store answer.
func IsInconclusive(err error) bool {
	return errors.Is(err, sentinel.ErrDeadlineExceeded) ||
		errors.Is(err, sentinel.ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
