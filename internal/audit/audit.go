// Package audit captures key registration actions as events. Emission is
// best-effort from the caller's point of view: a lost audit event never
// fails a submission.
//
// Events avoid raw PII: document numbers are stored as SHA-256 hashes so
// the trail stays useful for dedup forensics without holding identities.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"motoreg/internal/registration/models"
)

// Actions recorded by the registration pipeline.
const (
	ActionRegistrationCreated = "registration_created"
	ActionDuplicateBlocked    = "duplicate_blocked"
	ActionGuardDegraded       = "guard_degraded"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action       string    `json:"action"`
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id,omitempty"`
	RecordID     uuid.UUID `json:"record_id,omitempty"`
	DocumentHash string    `json:"document_hash,omitempty"`
	Plate        string    `json:"plate,omitempty"`
	Sector       string    `json:"sector,omitempty"`
	Field        string    `json:"field,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// Publisher delivers events to a sink (store worker, Kafka, both).
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// RegistrationCreated builds the event for a successful write.
func RegistrationCreated(rec *models.Record, requestID string, now time.Time) Event {
	return Event{
		Action:       ActionRegistrationCreated,
		Timestamp:    now,
		RequestID:    requestID,
		RecordID:     rec.ID,
		DocumentHash: HashDocument(rec.Document),
		Plate:        rec.Plate,
		Sector:       string(rec.Sector),
	}
}

// DuplicateBlocked builds the event for a guard rejection.
func DuplicateBlocked(field string, d models.Draft, requestID string, now time.Time) Event {
	return Event{
		Action:       ActionDuplicateBlocked,
		Timestamp:    now,
		RequestID:    requestID,
		DocumentHash: HashDocument(d.Document),
		Plate:        d.Plate,
		Sector:       d.Sector,
		Field:        field,
	}
}

// HashDocument returns the hex SHA-256 of a document number.
func HashDocument(document string) string {
	if document == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(document))
	return hex.EncodeToString(sum[:])
}

// Fanout emits to every publisher, returning the first failure after all
// sinks have been tried.
type Fanout []Publisher

func (f Fanout) Emit(ctx context.Context, event Event) error {
	var first error
	for _, p := range f {
		if err := p.Emit(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
