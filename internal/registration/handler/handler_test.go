package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motoreg/internal/registration/guard"
	"motoreg/internal/registration/models"
	"motoreg/internal/registration/service"
	"motoreg/internal/registration/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	st := store.NewMemory()
	p := models.PresetStrict()
	p.GuardTimeout = 200 * time.Millisecond
	p.GuardRetryPause = 0
	svc := service.New(st, guard.New(st, p, nil, nil), p)
	return New(svc, slog.New(slog.NewTextHandler(testWriter{t}, nil)))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newTestRouter(t *testing.T) chi.Router {
	r := chi.NewRouter()
	newTestHandler(t).Register(r, nil)
	return r
}

func submitBody() map[string]string {
	return map[string]string{
		"full_name":  "juan pérez",
		"birth_date": "1990-05-10",
		"document":   "12.345.678",
		"phone":      "300 123 4567",
		"plate":      "abc-12",
		"sector":     "San Luis",
	}
}

func postSubmit(t *testing.T, r chi.Router, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/registrations", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSubmitSuccess(t *testing.T) {
	r := newTestRouter(t)

	rec := postSubmit(t, r, submitBody())
	assert.Equal(t, http.StatusCreated, rec.Code)

	var out service.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, service.StateSuccess, out.State)
	require.NotNil(t, out.Record)
	assert.Equal(t, "ABC12", out.Record.Plate)
	assert.Equal(t, string(models.DefaultSector), out.Draft.Sector)
}

func TestSubmitValidationError(t *testing.T) {
	r := newTestRouter(t)

	body := submitBody()
	body["full_name"] = ""
	rec := postSubmit(t, r, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out service.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, service.StateError, out.State)
	assert.Equal(t, "name_required", out.ErrorKind)
	assert.Equal(t, "EL NOMBRE COMPLETO ES REQUERIDO", out.Message)
	assert.Equal(t, "ABC12", out.Draft.Plate, "normalized draft echoes back")
}

func TestSubmitDuplicateConflict(t *testing.T) {
	r := newTestRouter(t)

	rec := postSubmit(t, r, submitBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := submitBody()
	body["plate"] = "xyz-99"
	rec = postSubmit(t, r, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var out service.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "duplicate_document", out.ErrorKind)
}

func TestSubmitMalformedJSON(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/registrations", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/registrations/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var status service.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Busy)
	assert.False(t, status.Success)
}

func TestConfigEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/registrations/config", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "strict", cfg.Preset)
	assert.True(t, cfg.PhoneRequired)
	assert.Equal(t, string(models.DefaultSector), cfg.DefaultSector)
	assert.Len(t, cfg.Sectors, len(models.Sectors))
}
