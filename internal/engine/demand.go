package engine

import "github.com/rainwise/rainharvest/internal/region"

const daysPerYear = 365

// ComputeDemand converts household size and garden area into annual
// water demand by category. Drinking and domestic needs run
// year-round; garden irrigation only over the configured dry season.
// Inputs are validated non-negative by the caller.
func ComputeDemand(cfg region.Config, householdSize int, gardenAreaM2 float64) DemandBreakdown {
	people := float64(householdSize)

	drinking := people * cfg.DrinkingLPerPersonDay * daysPerYear / 1000
	domestic := people * cfg.DomesticLPerPersonDay * daysPerYear / 1000
	garden := gardenAreaM2 * cfg.GardenLPerM2Day * cfg.DrySeasonDays / 1000

	return DemandBreakdown{
		DrinkingM3: drinking,
		DomesticM3: domestic,
		GardenM3:   garden,
		TotalM3:    drinking + domestic + garden,
	}
}
