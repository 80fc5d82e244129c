package list_services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeCatalog struct {
	services []*domain.Service
	err      error
	gotLoc   string
}

func (f *fakeCatalog) ListServices(ctx context.Context, locationID string) ([]*domain.Service, error) {
	f.gotLoc = locationID
	if f.err != nil {
		return nil, f.err
	}
	return f.services, nil
}

func serve(uc *fakeCatalog, locationID string) *httptest.ResponseRecorder {
	h := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/"+locationID+"/services", nil)
	req = mux.SetURLVars(req, map[string]string{"locationId": locationID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ListsServices(t *testing.T) {
	catalog := &fakeCatalog{
		services: []*domain.Service{
			{ID: "svc-wash", LocationID: "loc-1", Name: "Мойка кузова", DurationMin: 40, PriceRub: 1500, IsActive: true},
			{ID: "svc-polish", LocationID: "loc-1", Name: "Полировка", DurationMin: 15, PriceRub: 700, IsAddon: true, IsActive: true},
		},
	}

	rec := serve(catalog, "loc-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loc-1", catalog.gotLoc)

	var resp ListServicesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Services, 2)
	assert.Equal(t, "svc-wash", resp.Services[0].ID)
	assert.Equal(t, 40, resp.Services[0].DurationMin)
	assert.Equal(t, 1500, resp.Services[0].PriceRub)
	assert.False(t, resp.Services[0].IsAddon)
	assert.True(t, resp.Services[1].IsAddon)
}

func TestHandle_EmptyCatalog(t *testing.T) {
	rec := serve(&fakeCatalog{}, "loc-1")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListServicesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Services)
}

func TestHandle_MissingLocationID(t *testing.T) {
	h := NewHandler(&fakeCatalog{}, nopLogger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations//services", nil)
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_RepositoryError(t *testing.T) {
	rec := serve(&fakeCatalog{err: errors.New("db down")}, "loc-1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
