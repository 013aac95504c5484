package soil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainwise/rainharvest/internal/engine"
)

func TestMapWRBClass(t *testing.T) {
	tests := []struct {
		wrb  string
		want string
		ok   bool
	}{
		{"Arenosols", "Sandy", true},
		{"Fluvisols", "Sandy Loam", true},
		{"Cambisols", "Loam", true},
		{"Luvisols", "Clay Loam", true},
		{"Vertisols", "Clay", true},
		{"Gleysols", "Clay", true},
		{"Luvisols (Chromic)", "Clay Loam", true},
		{"Andosols", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.wrb, func(t *testing.T) {
			got, ok := mapWRBClass(tt.wrb)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("number_classes"))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"wrb_class_name": "Vertisols"}))
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	soilType, src, err := client.Classify(context.Background(), 17.4, 78.5)
	require.NoError(t, err)
	assert.Equal(t, "Clay", soilType)
	assert.Equal(t, engine.ConfidenceHigh, src.Confidence)
}

func TestResolveFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	soilType, src := client.Resolve(context.Background(), 70, 25)
	assert.Equal(t, "Clay Loam", soilType)
	assert.Equal(t, engine.ConfidenceLow, src.Confidence)
	assert.Equal(t, "Climate Heuristic", src.Source)
}

func TestClimateHeuristic(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		want string
	}{
		{"high northern latitude", 65, "Clay Loam"},
		{"high southern latitude", -65, "Clay Loam"},
		{"northern tropics", 10, "Sandy Loam"},
		{"southern tropics", -10, "Loam"},
		{"temperate", 45, "Loam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := ClimateHeuristic(tt.lat)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, engine.ConfidenceLow, src.Confidence)
		})
	}
}
