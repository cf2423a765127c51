package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motoreg/internal/dashboard/service"
	"motoreg/internal/registration/models"
	"motoreg/internal/registration/store"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	st := store.NewMemory()
	seed := []struct {
		document, plate string
		sector          models.Sector
	}{
		{"1000001", "AAA11", models.SectorSamaria},
		{"1000002", "BBB22", models.SectorSamaria},
		{"2000003", "CCC33", models.SectorSanLuis},
	}
	for i := range seed {
		require.NoError(t, st.Create(context.Background(), &models.Record{
			FullName: "REGISTRANT",
			Document: seed[i].document,
			Plate:    seed[i].plate,
			Sector:   seed[i].sector,
		}))
	}

	reader := service.NewReader(st, slog.Default())
	require.NoError(t, reader.Refresh(context.Background()))

	r := chi.NewRouter()
	New(reader, service.NewShare("https://moto.example.com", "Caravana"), slog.Default()).Register(r)
	return r
}

func get(t *testing.T, r chi.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec
}

func TestRowsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	var body struct {
		Rows  []service.Row `json:"rows"`
		Total int           `json:"total"`
		Shown int           `json:"shown"`
	}

	rec := get(t, r, "/api/dashboard/registrations")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 3, body.Shown)

	rec = get(t, r, "/api/dashboard/registrations?sector=Samaria&document=100000")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total, "total always counts the full snapshot")
	assert.Equal(t, 2, body.Shown)
	for _, row := range body.Rows {
		assert.Equal(t, "Samaria", row.Sector)
	}
}

func TestStatsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	var stats []service.SectorCount
	rec := get(t, r, "/api/dashboard/stats")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, len(models.Sectors))
	assert.Equal(t, service.SectorCount{Sector: "Samaria", Count: 2}, stats[0])
}

func TestShareEndpoint(t *testing.T) {
	r := newTestRouter(t)

	var share service.Share
	rec := get(t, r, "/api/dashboard/share")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &share))
	assert.Equal(t, "https://moto.example.com/inscripcion", share.FormURL)
	assert.Contains(t, share.WhatsAppURL, "wa.me")
}
