package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainwise/rainharvest/internal/region"
)

func TestSelectTier(t *testing.T) {
	cfg, err := region.Get("us-standard")
	require.NoError(t, err)

	tests := []struct {
		name     string
		annualM3 float64
		want     region.Tier
	}{
		{"small harvest", 5, region.TierBasic},
		{"just below basic boundary", 19.99, region.TierBasic},
		{"basic boundary is intermediate", 20, region.TierIntermediate},
		{"mid-range", 35, region.TierIntermediate},
		{"intermediate boundary is advanced", 50, region.TierAdvanced},
		{"large harvest", 120, region.TierAdvanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectTier(cfg, tt.annualM3))
		})
	}
}

func TestEstimateCosts(t *testing.T) {
	cfg, err := region.Get("us-standard")
	require.NoError(t, err)

	t.Run("basic tier itemization", func(t *testing.T) {
		cost, err := EstimateCosts(cfg, 100, 10, region.TierBasic)
		require.NoError(t, err)

		// 100 m2 roof: gutter length 4*sqrt(100) = 40 m at $25/m.
		assert.InDelta(t, 1000, cost.Initial["gutters_downspouts"], 1e-9)
		assert.InDelta(t, 2000, cost.Initial["storage_tank"], 1e-9)
		assert.InDelta(t, 4550, cost.TotalInitial, 1e-9)

		assert.NotContains(t, cost.Initial, "uv_sterilizer")
		assert.NotContains(t, cost.Initial, "pump_system")
		assert.NotContains(t, cost.Annual, "electricity")
		assert.NotContains(t, cost.Annual, "water_testing")

		assert.InDelta(t, 50, cost.Annual["maintenance"], 1e-9)
		assert.InDelta(t, 15, cost.Annual["filter_replacement"], 1e-9)
		assert.InDelta(t, 65, cost.TotalAnnual, 1e-9)
	})

	t.Run("advanced tier carries pump and testing", func(t *testing.T) {
		cost, err := EstimateCosts(cfg, 200, 30, region.TierAdvanced)
		require.NoError(t, err)

		assert.Contains(t, cost.Initial, "uv_sterilizer")
		assert.Contains(t, cost.Initial, "pump_system")
		assert.InDelta(t, 50, cost.Annual["electricity"], 1e-9)
		assert.InDelta(t, 100, cost.Annual["water_testing"], 1e-9)
	})

	t.Run("totals equal item sums", func(t *testing.T) {
		for _, tier := range []region.Tier{region.TierBasic, region.TierIntermediate, region.TierAdvanced} {
			cost, err := EstimateCosts(cfg, 150, 12, tier)
			require.NoError(t, err)
			assert.InDelta(t, sumValues(cost.Initial), cost.TotalInitial, 1e-9)
			assert.InDelta(t, sumValues(cost.Annual), cost.TotalAnnual, 1e-9)
		}
	})

	t.Run("rejects non-positive area", func(t *testing.T) {
		_, err := EstimateCosts(cfg, 0, 10, region.TierBasic)
		assert.ErrorIs(t, err, ErrInvalidCatchment)
	})
}

func TestComputeEnvironmentalImpact(t *testing.T) {
	cfg, err := region.Get("us-standard")
	require.NoError(t, err)

	impact := ComputeEnvironmentalImpact(cfg, 100)
	assert.InDelta(t, 100000, impact.WaterSavedLiters, 1e-9)
	assert.InDelta(t, 350, impact.EnergySavedKWh, 1e-9)
	assert.InDelta(t, 140, impact.CO2ReductionKg, 1e-9)
	assert.InDelta(t, 140.0/22, impact.EquivalentTrees, 1e-9)
	assert.InDelta(t, 350, impact.EquivalentCarMiles, 1e-9)

	zero := ComputeEnvironmentalImpact(cfg, 0)
	assert.Zero(t, zero.WaterSavedLiters)
	assert.Zero(t, zero.CO2ReductionKg)
}
