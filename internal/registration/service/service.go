// Package service implements the submission pipeline:
//
//	Idle → Validating → CheckingDuplicates → Submitting → (Success | Error) → Idle
//
// One submission runs at a time; the busy flag is advisory and is always
// cleared on every exit path. Validation, duplicate and write failures are
// terminal for the attempt only: the outcome echoes the normalized draft so
// the shell never loses user input.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"motoreg/internal/audit"
	"motoreg/internal/registration/guard"
	regmetrics "motoreg/internal/registration/metrics"
	"motoreg/internal/registration/models"
	"motoreg/internal/registration/normalize"
	"motoreg/internal/registration/validate"
	dErrors "motoreg/pkg/domain-errors"
	"motoreg/pkg/platform/sentinel"
	"motoreg/pkg/requestcontext"
)

// RecordStore is the store surface the pipeline consumes. Implementations
// live in internal/registration/store.
type RecordStore interface {
	guard.Index
	Create(ctx context.Context, rec *models.Record) error
	ListAll(ctx context.Context) ([]models.Record, error)
	Count(ctx context.Context) (int, error)
}

// AuditPublisher receives best-effort domain events. Publish failures are
// logged, never propagated into the submission outcome.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// State names a stage of the submission pipeline.
type State string

const (
	StateIdle               State = "idle"
	StateValidating         State = "validating"
	StateCheckingDuplicates State = "checking_duplicates"
	StateSubmitting         State = "submitting"
	StateSuccess            State = "success"
	StateError              State = "error"
)

// Outcome is the terminal result of one submission attempt. On success the
// draft is reset to defaults (sector back to the configured default); on
// error it echoes the normalized draft so the user can correct and resubmit.
type Outcome struct {
	State     State          `json:"state"`
	Draft     models.Draft   `json:"draft"`
	Record    *models.Record `json:"record,omitempty"`
	ErrorKind string         `json:"error_kind,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// Status is the flag pair the shell binds to the submit control and the
// success banner.
type Status struct {
	Busy    bool `json:"busy"`
	Success bool `json:"success"`
}

// Service owns the submission pipeline and its per-process state.
type Service struct {
	store   RecordStore
	guard   *guard.Guard
	preset  models.Preset
	logger  *slog.Logger
	metrics *regmetrics.Metrics
	audit   AuditPublisher
	tracer  trace.Tracer

	mu           sync.Mutex
	busy         bool
	successUntil time.Time
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.audit = p }
}

// New constructs the submission pipeline service.
func New(store RecordStore, g *guard.Guard, preset models.Preset, opts ...Option) *Service {
	s := &Service{
		store:  store,
		guard:  g,
		preset: preset,
		logger: slog.Default(),
		tracer: otel.Tracer("motoreg/registration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one pipeline attempt. The returned error is non-nil only for
// transport-level problems (a concurrent submission in flight); domain
// failures are encoded in the outcome.
func (s *Service) Submit(ctx context.Context, draft models.Draft) (*Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "registration.submit",
		trace.WithAttributes(attribute.String("preset", s.preset.Name)))
	defer span.End()

	// Reference time for the age check and the success window, captured at
	// the instant the submit arrived.
	now := requestcontext.Now(ctx)
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.SubmitDuration.Observe(time.Since(start).Seconds())
		}
	}()

	if !s.acquire() {
		return nil, dErrors.New(dErrors.CodeConflict, "a submission is already in progress")
	}
	defer s.release() // busy always clears, whatever branch is taken

	// Validating.
	d := normalize.Draft(draft, s.preset)
	d.Sector = string(models.ParseSector(d.Sector))
	if verr := validate.Check(d, s.preset, now); verr != nil {
		if s.metrics != nil {
			s.metrics.ValidationFailures.WithLabelValues(string(verr.Kind)).Inc()
		}
		return &Outcome{
			State:     StateError,
			Draft:     d,
			ErrorKind: string(verr.Kind),
			Message:   verr.Message,
		}, nil
	}

	// CheckingDuplicates. No write happens when the guard blocks.
	if gerr := s.guard.Check(ctx, d); gerr != nil {
		return s.guardOutcome(ctx, d, gerr), nil
	}

	// Submitting.
	birth, _ := d.ParsedBirthDate()
	rec := &models.Record{
		FullName:  strings.TrimSpace(d.FullName),
		BirthDate: birth,
		Document:  d.Document,
		Phone:     d.Phone,
		Plate:     d.Plate,
		Sector:    models.ParseSector(d.Sector),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return s.writeOutcome(ctx, d, err), nil
	}

	// Success: reset the draft, open the auto-clearing success window.
	s.mu.Lock()
	s.successUntil = now.Add(s.preset.SuccessTTL)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Created.Inc()
	}
	s.emit(ctx, audit.RegistrationCreated(rec, requestcontext.RequestID(ctx), now))
	s.logger.InfoContext(ctx, "registration created",
		"request_id", requestcontext.RequestID(ctx),
		"record_id", rec.ID,
		"sector", rec.Sector,
	)

	return &Outcome{
		State:  StateSuccess,
		Draft:  models.EmptyDraft(),
		Record: rec,
	}, nil
}

// Status reports the busy flag and whether the success window is still open
// at the request-scoped now. The success flag clears itself once the
// preset's TTL elapses, with no user action required.
func (s *Service) Status(ctx context.Context) Status {
	now := requestcontext.Now(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Busy:    s.busy,
		Success: now.Before(s.successUntil),
	}
}

// Preset exposes the active rule variant for the handler's config endpoint.
func (s *Service) Preset() models.Preset { return s.preset }

func (s *Service) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Service) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Service) guardOutcome(ctx context.Context, d models.Draft, gerr error) *Outcome {
	var dup *guard.DuplicateError
	if errors.As(gerr, &dup) {
		s.emit(ctx, audit.DuplicateBlocked(dup.Field, d, requestcontext.RequestID(ctx), requestcontext.Now(ctx)))
		return &Outcome{
			State:     StateError,
			Draft:     d,
			ErrorKind: "duplicate_" + dup.Field,
			Message:   dup.Message,
		}
	}
	s.logger.ErrorContext(ctx, "duplicate guard failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", gerr.Error(),
	)
	s.emit(ctx, audit.Event{
		Action:    audit.ActionGuardDegraded,
		Timestamp: requestcontext.Now(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
	return &Outcome{
		State:     StateError,
		Draft:     d,
		ErrorKind: "guard_unavailable",
		Message:   gerr.Error(),
	}
}

// writeOutcome maps a store write failure onto the user-facing error
// taxonomy: permission problems are operator-actionable, malformed data
// points back at the field formats, connectivity suggests a retry.
func (s *Service) writeOutcome(ctx context.Context, d models.Draft, err error) *Outcome {
	kind, message := categorizeWrite(err)
	if s.metrics != nil {
		s.metrics.WriteErrors.WithLabelValues(kind).Inc()
	}
	s.logger.ErrorContext(ctx, "registration write failed",
		"request_id", requestcontext.RequestID(ctx),
		"reason", kind,
		"error", err.Error(),
	)
	return &Outcome{
		State:     StateError,
		Draft:     d,
		ErrorKind: kind,
		Message:   message,
	}
}

func categorizeWrite(err error) (kind, message string) {
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return "duplicate_record", "CÉDULA O PLACA YA REGISTRADA"
	case errors.Is(err, sentinel.ErrPermissionDenied):
		return "permission_denied", "ERROR CRÍTICO: escritura bloqueada por permisos. Contacte al administrador INMEDIATAMENTE."
	case errors.Is(err, sentinel.ErrInvalidArgument), errors.Is(err, sentinel.ErrFailedPrecondition):
		return "invalid_data", "DATOS INVÁLIDOS: Verifica formato de placa, cédula y celular"
	case errors.Is(err, sentinel.ErrUnavailable):
		return "unavailable", "SIN CONEXIÓN: Verifica tu internet e intenta nuevamente"
	default:
		return "unknown", "ERROR: " + err.Error()
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err.Error(),
		)
	}
}
