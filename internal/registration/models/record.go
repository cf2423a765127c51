package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is a persisted registration. Immutable once written: no update or
// delete path exists in this system.
//
// Invariants (advisory at the service layer, enforced by unique indexes in
// the postgres store):
//   - Document is unique across all records
//   - Plate is unique across all records
//   - the registrant was an adult at submission time
//   - Sector belongs to the closed sector set
type Record struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	BirthDate time.Time `json:"birth_date"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone,omitempty"`
	Plate     string    `json:"plate"`
	Sector    Sector    `json:"sector"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is the transient, not-yet-persisted form data for one registration
// attempt. Field values arrive raw from the shell and are canonicalized by
// the normalizer before validation ever sees them.
type Draft struct {
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD, empty when unset
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	Plate     string `json:"plate"`
	Sector    string `json:"sector"`
}

// EmptyDraft returns the post-success draft: every field reset except the
// sector, which reverts to the default.
func EmptyDraft() Draft {
	return Draft{Sector: string(DefaultSector)}
}

// ParsedBirthDate parses the draft birth date. Returns the zero time when
// the field is empty or malformed; callers check BirthDate != "" first.
func (d Draft) ParsedBirthDate() (time.Time, bool) {
	if d.BirthDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", d.BirthDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
