package groundwater

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainwise/rainharvest/internal/engine"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		aquifer string
		depth   float64
	}{
		{"gangetic plains", 26.8, 80.9, "Alluvial", 8.5},
		{"deccan plateau", 18.5, 78.0, "Hard Rock", 15.2},
		{"west coast", 15.3, 74.0, "Coastal Sedimentary", 6.8},
		{"east coast", 13.1, 80.3, "Coastal Sedimentary", 6.8},
		{"high mountains", 34.1, 77.6, "Fractured Rock", 25.0},
		{"outside every zone", -33.9, 151.2, "Mixed", 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := Lookup(tt.lat, tt.lon)
			assert.Equal(t, tt.aquifer, profile.AquiferType)
			assert.Equal(t, tt.depth, profile.DepthM)
			assert.NotEmpty(t, profile.Provenance.Source)
		})
	}

	t.Run("default matches the engine default", func(t *testing.T) {
		assert.Equal(t, engine.DefaultGroundwater(), Lookup(0, 0))
	})
}
