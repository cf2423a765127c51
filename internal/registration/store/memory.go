// Package store provides the record store implementations. The interface
// the service consumes is declared in the service package; implementations
// here return pkg/platform/sentinel errors so services can categorize
// failures without knowing the backend.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"motoreg/internal/registration/models"
	"motoreg/pkg/platform/sentinel"
	"motoreg/pkg/requestcontext"
)

// Memory is a mutex-guarded in-memory record store for tests and demo runs.
// It enforces the same document/plate uniqueness as the postgres store so
// both backends behave alike under concurrent submissions.
type Memory struct {
	mu      sync.RWMutex
	records []models.Record
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Create assigns the store-owned fields (ID, CreatedAt) and appends the
// record. Returns sentinel.ErrConflict when document or plate is taken.
func (s *Memory) Create(ctx context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.Document == rec.Document || existing.Plate == rec.Plate {
			return sentinel.ErrConflict
		}
	}

	rec.ID = uuid.New()
	rec.CreatedAt = requestcontext.Now(ctx)
	s.records = append(s.records, *rec)
	return nil
}

// FindByDocument returns records whose document matches exactly.
func (s *Memory) FindByDocument(_ context.Context, document string) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Record
	for _, rec := range s.records {
		if rec.Document == document {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindByPlate returns records whose plate matches exactly.
func (s *Memory) FindByPlate(_ context.Context, plate string) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Record
	for _, rec := range s.records {
		if rec.Plate == plate {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListAll returns every record ordered by creation time descending.
func (s *Memory) ListAll(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.Record{}, s.records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Count returns the number of stored records.
func (s *Memory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
