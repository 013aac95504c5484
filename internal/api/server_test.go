package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainwise/rainharvest/internal/engine"
	"github.com/rainwise/rainharvest/internal/store"
)

type stubRainfall struct {
	calls int
}

func (s *stubRainfall) Resolve(ctx context.Context, lat, lon float64) (engine.RainfallSeries, engine.Provenance) {
	s.calls++
	return engine.RainfallSeries{20, 25, 45, 80, 120, 150, 160, 140, 90, 55, 30, 18},
		engine.Provenance{Source: "NASA POWER", Confidence: engine.ConfidenceHigh}
}

type stubSoil struct {
	calls int
}

func (s *stubSoil) Resolve(ctx context.Context, lat, lon float64) (string, engine.Provenance) {
	s.calls++
	return "Clay Loam", engine.Provenance{Source: "SoilGrids WRB", Confidence: engine.ConfidenceHigh}
}

func testServer(t *testing.T) (*Server, *stubRainfall, *stubSoil) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	rain := &stubRainfall{}
	soil := &stubSoil{}
	return NewServer(st, rain, soil), rain, soil
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestStatusAndRegions(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "GET", "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", status["status"])

	rec = doJSON(t, h, "GET", "/api/regions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	regions := decode[[]map[string]any](t, rec)
	require.Len(t, regions, 2)
	names := []string{regions[0]["name"].(string), regions[1]["name"].(string)}
	assert.Contains(t, names, "us-standard")
	assert.Contains(t, names, "in-standard")
}

func TestSiteCRUD(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Handler()

	site := store.Site{
		Name:      "Home",
		Latitude:  28.6,
		Longitude: 77.2,
		Region:    "in-standard",
		Params:    engine.SiteParameters{CatchmentAreaM2: 120, HouseholdSize: 4, RoofMaterial: "Concrete"},
	}

	rec := doJSON(t, h, "POST", "/api/sites", site)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[store.Site](t, rec)
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, h, "GET", "/api/sites/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	created.Params.HouseholdSize = 6
	rec = doJSON(t, h, "PUT", "/api/sites/"+created.ID, created)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[store.Site](t, rec)
	assert.Equal(t, 6, updated.Params.HouseholdSize)

	rec = doJSON(t, h, "GET", "/api/sites", nil)
	sites := decode[[]store.Site](t, rec)
	require.Len(t, sites, 1)

	rec = doJSON(t, h, "DELETE", "/api/sites/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, "GET", "/api/sites/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	t.Run("rejects invalid params", func(t *testing.T) {
		bad := site
		bad.Params.CatchmentAreaM2 = 0
		rec := doJSON(t, h, "POST", "/api/sites", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAnalyzeInline(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Handler()

	req := AnalyzeRequest{
		Region: "us-standard",
		Site: &engine.SiteParameters{
			CatchmentAreaM2: 100,
			HouseholdSize:   3,
			RoofMaterial:    "Metal",
			SoilType:        "Loam",
		},
		Rainfall: engine.RainfallSeries{20, 25, 45, 80, 120, 150, 160, 140, 90, 55, 30, 18},
	}

	rec := doJSON(t, h, "POST", "/api/analyze", req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AnalyzeResponse](t, rec)
	require.NotNil(t, resp.Report)
	assert.Empty(t, resp.ID)
	assert.Equal(t, "us-standard", resp.Report.Region)
	assert.Equal(t, "User Supplied", resp.Report.RainfallSrc.Source)
	assert.Positive(t, resp.Report.Harvest.AnnualM3)

	t.Run("missing rainfall and coordinates", func(t *testing.T) {
		bad := req
		bad.Rainfall = nil
		rec := doJSON(t, h, "POST", "/api/analyze", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown region", func(t *testing.T) {
		bad := req
		bad.Region = "atlantis"
		rec := doJSON(t, h, "POST", "/api/analyze", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAnalyzeSavedSiteWithProviders(t *testing.T) {
	srv, rain, soil := testServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/sites", store.Site{
		Name:      "Farm",
		Latitude:  17.4,
		Longitude: 78.5,
		Region:    "in-standard",
		Params:    engine.SiteParameters{CatchmentAreaM2: 200, HouseholdSize: 5, RoofMaterial: "Tiled"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	site := decode[store.Site](t, rec)

	rec = doJSON(t, h, "POST", "/api/analyze", AnalyzeRequest{SiteID: site.ID, Save: true})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AnalyzeResponse](t, rec)

	require.NotEmpty(t, resp.ID)
	assert.Equal(t, "in-standard", resp.Report.Region)
	assert.Equal(t, "NASA POWER", resp.Report.RainfallSrc.Source)
	assert.Equal(t, "Clay Loam", resp.Report.Soil.Type)
	assert.Equal(t, "Hard Rock", resp.Report.Groundwater.AquiferType)
	assert.Equal(t, 1, rain.calls)
	assert.Equal(t, 1, soil.calls)

	t.Run("second analysis hits the cache", func(t *testing.T) {
		rec := doJSON(t, h, "POST", "/api/analyze", AnalyzeRequest{SiteID: site.ID})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, rain.calls)
		assert.Equal(t, 1, soil.calls)
	})

	t.Run("saved report is retrievable and exportable", func(t *testing.T) {
		rec := doJSON(t, h, "GET", "/api/reports", nil)
		summaries := decode[[]store.ReportSummary](t, rec)
		require.Len(t, summaries, 1)
		assert.Equal(t, resp.ID, summaries[0].ID)

		rec = doJSON(t, h, "GET", "/api/reports/"+resp.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, "GET", "/api/reports/"+resp.ID+"/export", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "key,value\n"))
		assert.Contains(t, body, "region,in-standard")
	})

	t.Run("missing report", func(t *testing.T) {
		rec := doJSON(t, h, "GET", "/api/reports/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProviderEndpoints(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "GET", "/api/rainfall?lat=17.4&lon=78.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rain := decode[map[string]any](t, rec)
	assert.NotNil(t, rain["monthly_mm"])
	assert.InDelta(t, 933.0, rain["annual_mm"].(float64), 1.0)

	rec = doJSON(t, h, "GET", "/api/soil?lat=17.4&lon=78.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	soil := decode[map[string]any](t, rec)
	assert.Equal(t, "Clay Loam", soil["soil_type"])

	t.Run("bad coordinates", func(t *testing.T) {
		rec := doJSON(t, h, "GET", "/api/rainfall?lat=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
