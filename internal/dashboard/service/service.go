// Package service implements the dashboard reader: a periodically refreshed
// snapshot of the whole record collection, with combinable filters and
// per-sector aggregates derived from it. Read-only; no validation logic and
// no writes.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"motoreg/internal/registration/models"
	"motoreg/pkg/requestcontext"
)

// ListStore is the narrow read surface the dashboard needs.
type ListStore interface {
	ListAll(ctx context.Context) ([]models.Record, error)
}

// Row is one display line: the record plus its locale-formatted timestamp.
type Row struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone,omitempty"`
	Plate     string    `json:"plate"`
	Sector    string    `json:"sector"`
	CreatedAt time.Time `json:"created_at"`
	Display   string    `json:"created_at_display"`
}

// Snapshot is one immutable refresh result.
type Snapshot struct {
	Rows    []Row     `json:"rows"`
	Total   int       `json:"total"`
	TakenAt time.Time `json:"taken_at"`
}

// Filter combines the free-text document/plate filters (substring match)
// with an exact sector filter. Empty fields match everything; the sector
// value "todos" is the explicit everything selector the shell sends.
type Filter struct {
	Document string
	Plate    string
	Sector   string
}

// SectorCount is one aggregate line, already ordered for display.
type SectorCount struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// Reader polls the store into a snapshot the handlers serve from memory,
// so dashboard requests never fan out to the store themselves.
type Reader struct {
	store  ListStore
	logger *slog.Logger
	tracer trace.Tracer

	mu   sync.RWMutex
	snap Snapshot
}

// NewReader constructs a dashboard reader over the shared record store.
func NewReader(store ListStore, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("motoreg/dashboard"),
	}
}

// Refresh re-reads the entire collection, ordered by creation time
// descending, and swaps the snapshot atomically.
func (r *Reader) Refresh(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "dashboard.refresh")
	defer span.End()

	records, err := r.store.ListAll(ctx)
	if err != nil {
		return err
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{
			ID:        rec.ID.String(),
			FullName:  rec.FullName,
			Document:  rec.Document,
			Phone:     rec.Phone,
			Plate:     rec.Plate,
			Sector:    string(rec.Sector),
			CreatedAt: rec.CreatedAt,
			Display:   formatDisplay(rec.CreatedAt),
		}
	}

	snap := Snapshot{Rows: rows, Total: len(rows), TakenAt: requestcontext.Now(ctx)}
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
	return nil
}

// Snapshot returns the latest refresh result.
func (r *Reader) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Rows applies the combined filter to the current snapshot. Document and
// plate are substring matches, sector is an exact case-insensitive match;
// all active filters must hold (logical AND).
func (r *Reader) Rows(f Filter) []Row {
	snap := r.Snapshot()
	sectorActive := f.Sector != "" && !strings.EqualFold(f.Sector, "todos")

	out := make([]Row, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		if f.Document != "" && !strings.Contains(row.Document, f.Document) {
			continue
		}
		if f.Plate != "" && !strings.Contains(row.Plate, strings.ToUpper(f.Plate)) {
			continue
		}
		if sectorActive && !strings.EqualFold(row.Sector, f.Sector) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// SectorStats aggregates the full unfiltered snapshot per sector, sorted
// descending by count with ties broken by the sector display order.
func (r *Reader) SectorStats() []SectorCount {
	snap := r.Snapshot()

	counts := make(map[string]int, len(models.Sectors))
	for _, row := range snap.Rows {
		counts[row.Sector]++
	}

	out := make([]SectorCount, 0, len(models.Sectors))
	for _, s := range models.Sectors {
		out = append(out, SectorCount{Sector: string(s), Count: counts[string(s)]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Spanish month abbreviations, matching the es-CO short date the original
// dashboard rendered.
var spanishMonths = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

func formatDisplay(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return strings.Join([]string{
		t.Format("2"),
		spanishMonths[t.Month()-1],
		t.Format("2006, 15:04"),
	}, " ")
}
