package engine

import "github.com/rainwise/rainharvest/internal/region"

// ComputeEnvironmentalImpact converts the annual harvest into water,
// energy and carbon figures. Energy savings reflect the municipal
// treatment and distribution energy displaced per cubic metre.
func ComputeEnvironmentalImpact(cfg region.Config, annualHarvestM3 float64) EnvironmentalImpact {
	ef := cfg.Environmental

	energy := annualHarvestM3 * ef.EnergyPerM3KWh
	co2 := energy * ef.CO2PerKWhKg

	impact := EnvironmentalImpact{
		WaterSavedLiters: annualHarvestM3 * 1000,
		EnergySavedKWh:   energy,
		CO2ReductionKg:   co2,
	}
	if ef.CO2PerTreeKg > 0 {
		impact.EquivalentTrees = co2 / ef.CO2PerTreeKg
	}
	if ef.CO2PerMileKg > 0 {
		impact.EquivalentCarMiles = co2 / ef.CO2PerMileKg
	}
	return impact
}
