package engine

import (
	"fmt"
	"sort"
	"strconv"
)

// FlatEntry is one row of the flat report export.
type FlatEntry struct {
	Key   string
	Value string
}

// Flatten exports the report as an ordered key/value list for CSV and
// plain-text rendering. Ordering is stable across runs: fixed section
// order, map items sorted by key. Currency amounts carry two decimals;
// volumes, rainfall and percentages carry one.
func (r *AnalysisReport) Flatten() []FlatEntry {
	var out []FlatEntry
	add := func(key, value string) {
		out = append(out, FlatEntry{Key: key, Value: value})
	}
	money := func(v float64) string { return fmt.Sprintf("%.2f", v) }
	qty := func(v float64) string { return fmt.Sprintf("%.1f", v) }

	add("region", r.Region)
	add("currency", r.Currency)

	add("site.catchment_area_m2", qty(r.Site.CatchmentAreaM2))
	add("site.household_size", strconv.Itoa(r.Site.HouseholdSize))
	add("site.garden_area_m2", qty(r.Site.GardenAreaM2))
	add("site.roof_material", r.Site.RoofMaterial)
	add("site.soil_type", r.Soil.Type)
	add("site.tariff_class", r.Site.TariffClass)

	add("rainfall.annual_mm", qty(r.Harvest.AnnualRainfallMM))
	for m, mm := range r.Rainfall {
		add("rainfall."+MonthNames[m], qty(mm))
	}
	add("rainfall.source", r.RainfallSrc.Source)
	add("rainfall.confidence", r.RainfallSrc.Confidence)
	add("soil.source", r.SoilSrc.Source)
	add("soil.confidence", r.SoilSrc.Confidence)

	add("system.runoff_coefficient", fmt.Sprintf("%.2f", r.RunoffCoefficient))
	add("system.efficiency", fmt.Sprintf("%.2f", r.SystemEfficiency))
	add("system.tariff_per_m3", money(r.TariffPerM3))
	add("system.tier", string(r.Cost.Tier))
	add("system.recommended_storage_m3", qty(r.RecommendedStorageM3))

	add("demand.drinking_m3", qty(r.Demand.DrinkingM3))
	add("demand.domestic_m3", qty(r.Demand.DomesticM3))
	add("demand.garden_m3", qty(r.Demand.GardenM3))
	add("demand.total_m3", qty(r.Demand.TotalM3))

	add("harvest.annual_m3", qty(r.Harvest.AnnualM3))
	add("harvest.dry_months", strconv.Itoa(r.Harvest.DryMonths))
	add("harvest.coverage_percent", qty(r.CoveragePercent))

	for _, key := range sortedKeys(r.Cost.Initial) {
		add("cost.initial."+key, money(r.Cost.Initial[key]))
	}
	add("cost.total_initial", money(r.Cost.TotalInitial))
	for _, key := range sortedKeys(r.Cost.Annual) {
		add("cost.annual."+key, money(r.Cost.Annual[key]))
	}
	add("cost.total_annual", money(r.Cost.TotalAnnual))

	add("finance.npv", money(r.Finance.NPV))
	add("finance.irr_percent", qty(r.Finance.IRR*100))
	add("finance.benefit_cost_ratio", fmt.Sprintf("%.2f", r.Finance.BenefitCostRatio))
	add("finance.simple_payback_year", paybackString(r.Finance.SimplePaybackYear))
	add("finance.discounted_payback_year", paybackString(r.Finance.DiscountedPaybackYear))
	add("finance.annual_savings_base", money(r.Finance.AnnualSavingsBase))
	add("finance.total_benefits_pv", money(r.Finance.TotalBenefitsPV))
	add("finance.total_costs_pv", money(r.Finance.TotalCostsPV))

	add("recharge.annual_potential_m3", qty(r.Recharge.AnnualRechargeM3))
	add("recharge.recommended", r.Recharge.Recommended)
	add("recharge.estimated_cost", money(r.Recharge.EstimatedCost))
	add("recharge.annual_maintenance", money(r.Recharge.AnnualMaintenance))
	add("recharge.infiltration_mm_per_hr", qty(r.Recharge.InfiltrationMMHr))
	add("recharge.suitability", r.Recharge.SuitabilityTier)

	add("environment.water_saved_liters", qty(r.Environment.WaterSavedLiters))
	add("environment.energy_saved_kwh", qty(r.Environment.EnergySavedKWh))
	add("environment.co2_reduction_kg", qty(r.Environment.CO2ReductionKg))
	add("environment.equivalent_trees", qty(r.Environment.EquivalentTrees))
	add("environment.equivalent_car_miles", qty(r.Environment.EquivalentCarMiles))

	add("groundwater.depth_m", qty(r.Groundwater.DepthM))
	add("groundwater.quality", r.Groundwater.Quality)
	add("groundwater.aquifer_type", r.Groundwater.AquiferType)

	add("score.rainfall", qty(r.Score.Rainfall))
	add("score.harvest", qty(r.Score.Harvest))
	add("score.coverage", qty(r.Score.Coverage))
	add("score.economics", qty(r.Score.Economics))
	add("score.payback", qty(r.Score.Payback))
	add("score.total", qty(r.Score.Total))
	add("score.verdict", r.Score.Verdict)

	return out
}

func paybackString(year *int) string {
	if year == nil {
		return "never"
	}
	return strconv.Itoa(*year)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
