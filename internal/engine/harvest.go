package engine

import "github.com/rainwise/rainharvest/internal/region"

// ComputeHarvest converts a monthly rainfall series into harvestable
// volume. Each month:
//
//	m3 = rainfall_mm * catchment_m2 * runoff_coefficient * efficiency / 1000
//
// The efficiency factor accounts for first-flush diversion and
// evaporation losses. Output always has one entry per input month and
// is never negative for a valid series.
func ComputeHarvest(cfg region.Config, series RainfallSeries, catchmentAreaM2, runoffCoefficient float64) HarvestResult {
	monthly := make([]float64, len(series))
	annual := 0.0
	dry := 0

	for m, mm := range series {
		vol := mm * catchmentAreaM2 * runoffCoefficient * cfg.SystemEfficiency / 1000
		monthly[m] = vol
		annual += vol
		if mm < cfg.DryMonthThresholdMM {
			dry++
		}
	}

	return HarvestResult{
		MonthlyM3:        monthly,
		AnnualM3:         annual,
		DryMonths:        dry,
		AnnualRainfallMM: series.AnnualMM(),
	}
}

// RecommendStorage sizes the storage tank from demand and harvest:
// enough to bridge the configured number of months of demand, but
// never below the configured fraction of the annual harvest.
func RecommendStorage(cfg region.Config, demand DemandBreakdown, harvest HarvestResult) float64 {
	monthlyDemand := demand.TotalM3 / MonthsPerYear
	bridging := monthlyDemand * cfg.StorageMonthsOfDemand
	floor := harvest.AnnualM3 * cfg.StorageHarvestFraction
	if bridging > floor {
		return bridging
	}
	return floor
}
