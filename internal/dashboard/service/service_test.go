package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motoreg/internal/registration/models"
	"motoreg/internal/registration/store"
	"motoreg/pkg/requestcontext"
)

var base = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

// seedReader fills a memory store with records across sectors and returns a
// refreshed reader over it. Records are created at one-minute intervals so
// ordering is deterministic.
func seedReader(t *testing.T, specs []struct {
	document, plate string
	sector          models.Sector
}) *Reader {
	t.Helper()
	st := store.NewMemory()
	for i, spec := range specs {
		ctx := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Minute))
		rec := &models.Record{
			FullName: fmt.Sprintf("REGISTRANT %d", i),
			Document: spec.document,
			Plate:    spec.plate,
			Sector:   spec.sector,
		}
		require.NoError(t, st.Create(ctx, rec))
	}
	r := NewReader(st, nil)
	require.NoError(t, r.Refresh(context.Background()))
	return r
}

func defaultSeed(t *testing.T) *Reader {
	return seedReader(t, []struct {
		document, plate string
		sector          models.Sector
	}{
		{"1000001", "AAA11", models.SectorSamaria},
		{"1000002", "BBB22", models.SectorSamaria},
		{"1000003", "CCC33", models.SectorSanLuis},
		{"2000004", "DDD44", models.SectorSamaria},
	})
}

func TestRefreshBuildsSnapshot(t *testing.T) {
	r := defaultSeed(t)

	snap := r.Snapshot()
	assert.Equal(t, 4, snap.Total)
	require.Len(t, snap.Rows, 4)

	// Newest first.
	assert.Equal(t, "2000004", snap.Rows[0].Document)
	assert.Equal(t, "1000001", snap.Rows[3].Document)
}

func TestRowsFilters(t *testing.T) {
	r := defaultSeed(t)

	t.Run("no filter returns everything", func(t *testing.T) {
		assert.Len(t, r.Rows(Filter{}), 4)
	})

	t.Run("todos is the explicit everything selector", func(t *testing.T) {
		assert.Len(t, r.Rows(Filter{Sector: "todos"}), 4)
	})

	t.Run("sector exact match", func(t *testing.T) {
		rows := r.Rows(Filter{Sector: "Samaria"})
		assert.Len(t, rows, 3)
		for _, row := range rows {
			assert.Equal(t, "Samaria", row.Sector)
		}
	})

	t.Run("sector match is case-insensitive", func(t *testing.T) {
		assert.Len(t, r.Rows(Filter{Sector: "san luis"}), 1)
	})

	t.Run("document substring", func(t *testing.T) {
		assert.Len(t, r.Rows(Filter{Document: "100000"}), 3)
		assert.Len(t, r.Rows(Filter{Document: "2000004"}), 1)
		assert.Empty(t, r.Rows(Filter{Document: "999"}))
	})

	t.Run("plate substring upper-cases the needle", func(t *testing.T) {
		assert.Len(t, r.Rows(Filter{Plate: "bbb"}), 1)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		rows := r.Rows(Filter{Document: "100000", Sector: "Samaria"})
		assert.Len(t, rows, 2)

		assert.Empty(t, r.Rows(Filter{Document: "2000004", Sector: "San Luis"}))
	})
}

func TestSectorStats(t *testing.T) {
	r := defaultSeed(t)

	stats := r.SectorStats()
	require.Len(t, stats, len(models.Sectors))

	// Counts descend; Samaria leads with 3, San Luis follows with 1, then
	// the empty sectors in display order.
	assert.Equal(t, SectorCount{Sector: "Samaria", Count: 3}, stats[0])
	assert.Equal(t, SectorCount{Sector: "San Luis", Count: 1}, stats[1])
	assert.Equal(t, "Morritos", stats[2].Sector)
	assert.Zero(t, stats[2].Count)

	total := 0
	for _, s := range stats {
		total += s.Count
	}
	assert.Equal(t, 4, total)
}

// Stats aggregate the full snapshot, never a filtered view.
func TestSectorStatsIgnoreFilters(t *testing.T) {
	r := defaultSeed(t)
	_ = r.Rows(Filter{Sector: "San Luis"})
	assert.Equal(t, 3, r.SectorStats()[0].Count)
}

type failingList struct{}

func (failingList) ListAll(context.Context) ([]models.Record, error) {
	return nil, errors.New("store down")
}

// A failed refresh keeps the previous snapshot instead of wiping it.
func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Create(context.Background(), &models.Record{
		FullName: "MARIA", Document: "1234567", Plate: "ABC12", Sector: models.SectorPaila,
	}))

	r := NewReader(st, nil)
	require.NoError(t, r.Refresh(context.Background()))
	require.Equal(t, 1, r.Snapshot().Total)

	r.store = failingList{}
	assert.Error(t, r.Refresh(context.Background()))
	assert.Equal(t, 1, r.Snapshot().Total)
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "2 ene 2024, 15:04",
		formatDisplay(time.Date(2024, time.January, 2, 15, 4, 0, 0, time.UTC)))
	assert.Equal(t, "15 dic 2023, 09:30",
		formatDisplay(time.Date(2023, time.December, 15, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, "N/A", formatDisplay(time.Time{}))
}
