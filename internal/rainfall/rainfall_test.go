package rainfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainwise/rainharvest/internal/engine"
)

func TestAverageObservations(t *testing.T) {
	t.Run("averages across years and converts to totals", func(t *testing.T) {
		obs := map[string]float64{}
		for m := 1; m <= 12; m++ {
			obs[fmt.Sprintf("2022%02d", m)] = 2.0 // mm/day
			obs[fmt.Sprintf("2023%02d", m)] = 4.0
		}
		obs["202213"] = 999 // annual entry must be ignored

		series, err := averageObservations(obs)
		require.NoError(t, err)
		require.NoError(t, series.Validate())
		assert.InDelta(t, 3.0*31, series[0], 1e-9)  // January
		assert.InDelta(t, 3.0*28.25, series[1], 1e-9) // February
	})

	t.Run("fill values are skipped", func(t *testing.T) {
		obs := map[string]float64{}
		for m := 1; m <= 12; m++ {
			obs[fmt.Sprintf("2022%02d", m)] = 1.0
			obs[fmt.Sprintf("2023%02d", m)] = -999
		}
		series, err := averageObservations(obs)
		require.NoError(t, err)
		assert.InDelta(t, 31, series[0], 1e-9)
	})

	t.Run("missing month fails", func(t *testing.T) {
		obs := map[string]float64{"202201": 1.0}
		_, err := averageObservations(obs)
		assert.ErrorIs(t, err, ErrNoObservations)
	})
}

func TestMonthlySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PRECTOTCORR", r.URL.Query().Get("parameters"))

		obs := map[string]float64{}
		for m := 1; m <= 12; m++ {
			obs[fmt.Sprintf("2023%02d", m)] = 3.0
		}
		resp := map[string]any{
			"properties": map[string]any{
				"parameter": map[string]any{"PRECTOTCORR": obs},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	series, src, err := client.MonthlySeries(context.Background(), 28.6, 77.2)
	require.NoError(t, err)
	assert.Equal(t, "NASA POWER", src.Source)
	assert.Equal(t, engine.ConfidenceHigh, src.Confidence)
	assert.InDelta(t, 3.0*31, series[0], 1e-9)
}

func TestResolveFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	series, src := client.Resolve(context.Background(), 10, 77)
	require.NoError(t, series.Validate())
	assert.Equal(t, engine.ConfidenceLow, src.Confidence)
	assert.Equal(t, "Latitude-Band Climatology", src.Source)
}

func TestClimatology(t *testing.T) {
	t.Run("every band validates", func(t *testing.T) {
		for _, lat := range []float64{75, 45, 30, 10, 0, -10, -45} {
			series, src := Climatology(lat)
			require.NoError(t, series.Validate(), "lat %v", lat)
			assert.Positive(t, series.AnnualMM(), "lat %v", lat)
			assert.Equal(t, engine.ConfidenceLow, src.Confidence)
		}
	})

	t.Run("southern hemisphere is phase-shifted", func(t *testing.T) {
		north, _ := Climatology(45)
		south, _ := Climatology(-45)
		assert.Equal(t, north[0], south[6])
		assert.Equal(t, north[6], south[0])
		assert.InDelta(t, north.AnnualMM(), south.AnnualMM(), 1e-9)
	})
}
