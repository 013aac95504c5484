package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainwise/rainharvest/internal/engine"
	"github.com/rainwise/rainharvest/internal/region"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSite() *Site {
	return &Site{
		Name:      "Home",
		Latitude:  28.6139,
		Longitude: 77.209,
		Region:    "in-standard",
		Params: engine.SiteParameters{
			CatchmentAreaM2: 120,
			HouseholdSize:   4,
			GardenAreaM2:    40,
			RoofMaterial:    "Concrete",
			SoilType:        "Clay Loam",
		},
	}
}

func testReport(t *testing.T) *engine.AnalysisReport {
	t.Helper()
	cfg, err := region.Get("us-standard")
	require.NoError(t, err)

	report, err := engine.Analyze(cfg, engine.AnalysisInput{
		Site: engine.SiteParameters{CatchmentAreaM2: 100, HouseholdSize: 3, RoofMaterial: "Metal", SoilType: "Loam"},
		Rainfall: engine.RainfallSeries{20, 25, 45, 80, 120, 150, 160, 140, 90, 55, 30, 18},
		RainfallSrc: engine.Provenance{Source: "NASA POWER", Confidence: engine.ConfidenceHigh},
		SoilSrc:     engine.Provenance{Source: "SoilGrids WRB", Confidence: engine.ConfidenceHigh},
	})
	require.NoError(t, err)
	return report
}

func TestSiteRoundTrip(t *testing.T) {
	s := testStore(t)

	site := testSite()
	require.NoError(t, s.SaveSite(site))
	require.NotEmpty(t, site.ID)

	got, err := s.GetSite(site.ID)
	require.NoError(t, err)
	assert.Equal(t, site.Name, got.Name)
	assert.Equal(t, site.Params, got.Params)
	assert.Equal(t, "in-standard", got.Region)

	t.Run("update keeps the id", func(t *testing.T) {
		site.Params.HouseholdSize = 5
		require.NoError(t, s.SaveSite(site))
		got, err := s.GetSite(site.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Params.HouseholdSize)
	})

	t.Run("list", func(t *testing.T) {
		sites, err := s.ListSites()
		require.NoError(t, err)
		assert.Len(t, sites, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteSite(site.ID))
		_, err := s.GetSite(site.ID)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestReportRoundTrip(t *testing.T) {
	s := testStore(t)
	report := testReport(t)

	id, err := s.SaveReport("", report)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetReport(id)
	require.NoError(t, err)
	assert.Equal(t, report.Score.Verdict, got.Score.Verdict)
	assert.Equal(t, report.Harvest.AnnualM3, got.Harvest.AnnualM3)
	assert.Equal(t, report.Narrative, got.Narrative)

	summaries, err := s.ListReports()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, id, summaries[0].ID)
	assert.Equal(t, report.Score.Total, summaries[0].Score)
	assert.Empty(t, summaries[0].SiteID)

	t.Run("missing report", func(t *testing.T) {
		_, err := s.GetReport("nope")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestProviderCaches(t *testing.T) {
	s := testStore(t)

	t.Run("rainfall", func(t *testing.T) {
		series := engine.RainfallSeries{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
		src := engine.Provenance{Source: "NASA POWER", Confidence: engine.ConfidenceHigh}
		require.NoError(t, s.CacheRainfall(28.6139, 77.209, series, src))

		got, gotSrc, err := s.GetCachedRainfall(28.6139, 77.209)
		require.NoError(t, err)
		assert.Equal(t, series, got)
		assert.Equal(t, src, gotSrc)

		// Coordinates within rounding distance share the row.
		_, _, err = s.GetCachedRainfall(28.61391, 77.20899)
		assert.NoError(t, err)

		_, _, err = s.GetCachedRainfall(10, 10)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("soil", func(t *testing.T) {
		src := engine.Provenance{Source: "SoilGrids WRB", Confidence: engine.ConfidenceHigh}
		require.NoError(t, s.CacheSoil(-33.8688, 151.2093, "Sandy Loam", src))

		soilType, gotSrc, err := s.GetCachedSoil(-33.8688, 151.2093)
		require.NoError(t, err)
		assert.Equal(t, "Sandy Loam", soilType)
		assert.Equal(t, src, gotSrc)
	})
}
