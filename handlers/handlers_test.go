package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gewnthar/arrivals/config"
	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	flights []models.ResolvedFlight
	err     error
	date    string
}

func (s *stubSource) Arrivals(ctx context.Context, date string) ([]models.ResolvedFlight, error) {
	s.date = date
	return s.flights, s.err
}

type stubCollector struct {
	run models.CollectionRun
	err error
}

func (s stubCollector) RunCollection(ctx context.Context) (models.CollectionRun, error) {
	return s.run, s.err
}

func doRequest(t *testing.T, source *stubSource, collector Collector, method, target string) (*http.Response, map[string]any) {
	t.Helper()
	app := NewApp()
	RegisterRoutes(app, source, collector, "LAX")

	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &decoded), string(body))
	}
	return resp, decoded
}

func TestArrivalsHandler(t *testing.T) {
	scheduled := time.Date(2020, 2, 19, 21, 31, 0, 0, time.FixedZone("PST", -8*3600))
	source := &stubSource{flights: []models.ResolvedFlight{{Scheduled: &scheduled, Flight: "DL 123", Status: "Landed"}}}

	resp, body := doRequest(t, source, stubCollector{}, http.MethodGet, "/api/arrivals?date=2020-02-19")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2020-02-19", source.date)
	assert.Equal(t, "LAX", body["airport"])
	assert.EqualValues(t, 1, body["count"])
	flights := body["flights"].([]any)
	first := flights[0].(map[string]any)
	assert.Equal(t, "2020-02-19T21:31:00-08:00", first["dt_scheduled"])
	assert.Nil(t, first["dt_actual"])
}

func TestArrivalsHandlerBadDate(t *testing.T) {
	resp, body := doRequest(t, &stubSource{}, stubCollector{}, http.MethodGet, "/api/arrivals?date=19-02-2020")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "YYYY-MM-DD")
}

func TestArrivalsHandlerStoreUnavailable(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("failed to load store: %w", database.ErrStoreUnavailable)}
	resp, _ := doRequest(t, source, stubCollector{}, http.MethodGet, "/api/arrivals")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCollectHandler(t *testing.T) {
	run := models.CollectionRun{RunKey: "1582174800", HomeAirport: "LAX", LabelCount: 3, RowCount: 42}
	resp, body := doRequest(t, &stubSource{}, stubCollector{run: run}, http.MethodPost, "/api/admin/collect")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "scrape succeeded", body["message"])
	assert.Equal(t, "1582174800", body["run"].(map[string]any)["run_key"])

	for err, code := range map[error]int{
		fmt.Errorf("x: %w", scraper.ErrTransportFailure):  http.StatusBadGateway,
		fmt.Errorf("x: %w", database.ErrDuplicateRunKey):  http.StatusConflict,
		fmt.Errorf("x: %w", database.ErrStoreUnavailable): http.StatusServiceUnavailable,
		fmt.Errorf("something else"):                      http.StatusInternalServerError,
	} {
		resp, body := doRequest(t, &stubSource{}, stubCollector{err: err}, http.MethodPost, "/api/admin/collect")
		assert.Equal(t, code, resp.StatusCode, err.Error())
		assert.Contains(t, body["error"], "scrape failed: ")
	}

	resp, _ = doRequest(t, &stubSource{}, stubCollector{run: run}, http.MethodGet, "/api/admin/collect")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthAndRunsWithDatabase(t *testing.T) {
	resp, body := doRequest(t, &stubSource{}, stubCollector{}, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "database")

	resp, _ = doRequest(t, &stubSource{}, stubCollector{}, http.MethodGet, "/api/admin/runs")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, database.InitDB(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}))
	t.Cleanup(database.CloseDB)
	require.NoError(t, database.LogCollectionRun(context.Background(), models.CollectionRun{
		RunKey: "1582174800", HomeAirport: "LAX", CapturedAt: time.Unix(1582174800, 0).UTC(), LabelCount: 3, RowCount: 42,
	}))

	resp, body = doRequest(t, &stubSource{}, stubCollector{}, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["database"])

	app := NewApp()
	RegisterRoutes(app, &stubSource{}, stubCollector{}, "LAX")
	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/runs?limit=5", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var runs []models.CollectionRun
	require.NoError(t, json.NewDecoder(res.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, 42, runs[0].RowCount)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/runs?limit=zero", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
