package engine

import (
	"math"

	"github.com/rainwise/rainharvest/internal/region"
)

// SelectTier picks the system tier for an annual harvest volume using
// the region's two ascending thresholds.
func SelectTier(cfg region.Config, annualHarvestM3 float64) region.Tier {
	switch {
	case annualHarvestM3 < cfg.BasicBelowM3:
		return region.TierBasic
	case annualHarvestM3 < cfg.IntermediateBelowM3:
		return region.TierIntermediate
	default:
		return region.TierAdvanced
	}
}

// EstimateCosts computes itemized capital and annual operating costs
// for a chosen tier. Gutter length is modelled as a fixed multiple of
// the square root of the catchment area (rectangular roof perimeter).
// Deterministic for a given (area, storage, tier); no I/O.
func EstimateCosts(cfg region.Config, catchmentAreaM2, storageM3 float64, tier region.Tier) (CostBreakdown, error) {
	if catchmentAreaM2 <= 0 {
		return CostBreakdown{}, ErrInvalidCatchment
	}
	costs := cfg.Tiers[tier]

	gutterLength := cfg.GutterLengthFactor * math.Sqrt(catchmentAreaM2)

	initial := map[string]float64{
		"storage_tank":         storageM3 * costs.TankCostPerM3,
		"gutters_downspouts":   gutterLength * costs.GutterCostPerMeter,
		"piping":               costs.PipingCost,
		"first_flush_diverter": costs.FirstFlushDiverter,
		"filtration":           costs.Filtration,
		"installation":         costs.Installation,
	}
	if costs.UVSterilizer > 0 {
		initial["uv_sterilizer"] = costs.UVSterilizer
	}
	if costs.PumpSystem > 0 {
		initial["pump_system"] = costs.PumpSystem
	}

	annual := map[string]float64{
		"maintenance":        costs.MaintenanceAnnual,
		"filter_replacement": costs.MaintenanceAnnual * cfg.FilterReplacementFraction,
	}
	if costs.PumpSystem > 0 {
		annual["electricity"] = cfg.ElectricityAnnual
	}
	if tier == region.TierAdvanced {
		annual["water_testing"] = cfg.WaterTestingAnnual
	}

	return CostBreakdown{
		Initial:      initial,
		TotalInitial: sumValues(initial),
		Annual:       annual,
		TotalAnnual:  sumValues(annual),
		Tier:         tier,
	}, nil
}

func sumValues(items map[string]float64) float64 {
	total := 0.0
	for _, v := range items {
		total += v
	}
	return total
}
