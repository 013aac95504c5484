package engine

import "github.com/rainwise/rainharvest/internal/region"

// MonthsPerYear is the length of every rainfall series.
const MonthsPerYear = 12

// MonthNames indexes calendar months for reports and flat exports.
var MonthNames = [MonthsPerYear]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Confidence tiers attached to provider data so downstream consumers
// can warn users when an analysis ran on fallback tables.
const (
	ConfidenceHigh    = "High"
	ConfidenceMedium  = "Medium"
	ConfidenceLow     = "Low"
	ConfidenceVeryLow = "Very Low"
)

// Provenance records where a provider observation came from.
type Provenance struct {
	Source     string `json:"source"`
	Confidence string `json:"confidence"`
}

// RainfallSeries holds monthly rainfall in millimetres, January first.
type RainfallSeries []float64

// AnnualMM returns the total rainfall over the series.
func (s RainfallSeries) AnnualMM() float64 {
	total := 0.0
	for _, mm := range s {
		total += mm
	}
	return total
}

// AverageSeries averages multiple years of monthly rainfall into a
// single representative series. All years must validate.
func AverageSeries(years []RainfallSeries) (RainfallSeries, error) {
	if len(years) == 0 {
		return nil, ErrMalformedRainfall
	}
	avg := make(RainfallSeries, MonthsPerYear)
	for _, year := range years {
		if err := year.Validate(); err != nil {
			return nil, err
		}
		for m, mm := range year {
			avg[m] += mm
		}
	}
	for m := range avg {
		avg[m] /= float64(len(years))
	}
	return avg, nil
}

// SiteParameters describes the property being analyzed. Immutable once
// an analysis starts.
type SiteParameters struct {
	CatchmentAreaM2 float64 `json:"catchment_area_m2"`
	HouseholdSize   int     `json:"household_size"`
	GardenAreaM2    float64 `json:"garden_area_m2"`
	RoofMaterial    string  `json:"roof_material"`
	SoilType        string  `json:"soil_type"`
	TariffClass     string  `json:"tariff_class"`
}

// GroundwaterProfile is optional enrichment from the groundwater
// provider. Absence defaults to the documented Good/Mixed profile.
type GroundwaterProfile struct {
	DepthM       float64    `json:"depth_m"`
	Quality      string     `json:"quality"`
	RechargeRate float64    `json:"recharge_rate"`
	AquiferType  string     `json:"aquifer_type"`
	Provenance   Provenance `json:"provenance"`
}

// AnalysisInput is the immutable snapshot a single analysis runs on.
type AnalysisInput struct {
	Site        SiteParameters      `json:"site"`
	Rainfall    RainfallSeries      `json:"rainfall_mm"`
	RainfallSrc Provenance          `json:"rainfall_provenance"`
	SoilSrc     Provenance          `json:"soil_provenance"`
	Groundwater *GroundwaterProfile `json:"groundwater,omitempty"`
}

// DemandBreakdown is annual water demand by category, m3/year.
type DemandBreakdown struct {
	DrinkingM3 float64 `json:"drinking_m3"`
	DomesticM3 float64 `json:"domestic_m3"`
	GardenM3   float64 `json:"garden_m3"`
	TotalM3    float64 `json:"total_m3"`
}

// HarvestResult is the harvestable volume derived from a rainfall
// series and catchment parameters.
type HarvestResult struct {
	MonthlyM3        []float64 `json:"monthly_m3"`
	AnnualM3         float64   `json:"annual_m3"`
	DryMonths        int       `json:"dry_month_count"`
	AnnualRainfallMM float64   `json:"annual_rainfall_mm"`
}

// CostBreakdown itemizes capital and operating costs for one tier.
type CostBreakdown struct {
	Initial      map[string]float64 `json:"initial_costs"`
	TotalInitial float64            `json:"total_initial"`
	Annual       map[string]float64 `json:"annual_costs"`
	TotalAnnual  float64            `json:"total_annual"`
	Tier         region.Tier        `json:"system_tier"`
}

// RechargeStructure is one sized recharge option.
type RechargeStructure struct {
	Name      string  `json:"name"`
	Shape     string  `json:"shape"`
	VolumeM3  float64 `json:"volume_m3"`
	DepthM    float64 `json:"depth_m"`
	DiameterM float64 `json:"diameter_m,omitempty"`
	LengthM   float64 `json:"length_m,omitempty"`
	WidthM    float64 `json:"width_m,omitempty"`
	Cost      float64 `json:"cost"`
}

// RechargeDesign holds every sized structure plus the recommendation.
type RechargeDesign struct {
	Structures        []RechargeStructure `json:"structures"`
	Recommended       string              `json:"recommended_structure"`
	Rationale         string              `json:"rationale"`
	EstimatedCost     float64             `json:"estimated_cost"`
	AnnualMaintenance float64             `json:"annual_maintenance_cost"`
	AnnualRechargeM3  float64             `json:"annual_recharge_potential_m3"`
	InfiltrationMMHr  float64             `json:"soil_infiltration_rate_mm_per_hr"`
	SuitabilityTier   string              `json:"suitability_tier"`
}

// CashFlowYear is one row of the 20-year ledger.
type CashFlowYear struct {
	Year                 int     `json:"year"`
	Benefit              float64 `json:"benefit"`
	Cost                 float64 `json:"cost"`
	Net                  float64 `json:"net"`
	Discounted           float64 `json:"discounted"`
	CumulativeNet        float64 `json:"cumulative_net"`
	CumulativeDiscounted float64 `json:"cumulative_discounted"`
}

// FinancialMetrics is the 20-year discounted cash-flow result.
// Payback years are nil when the project never breaks even within the
// horizon; IRRConverged is false when the bisection hit its iteration
// cap and returned its best midpoint.
type FinancialMetrics struct {
	NPV                   float64        `json:"npv"`
	IRR                   float64        `json:"irr"`
	IRRConverged          bool           `json:"irr_converged"`
	SimplePaybackYear     *int           `json:"simple_payback_year"`
	DiscountedPaybackYear *int           `json:"discounted_payback_year"`
	BenefitCostRatio      float64        `json:"benefit_cost_ratio"`
	TotalBenefitsPV       float64        `json:"total_benefits_pv"`
	TotalCostsPV          float64        `json:"total_costs_pv"`
	AnnualSavingsBase     float64        `json:"annual_savings_base"`
	Ledger                []CashFlowYear `json:"ledger"`
}

// FeasibilityScore is the weighted 0-100 score with its sub-scores.
type FeasibilityScore struct {
	Rainfall  float64 `json:"rainfall"`
	Harvest   float64 `json:"harvest"`
	Coverage  float64 `json:"coverage"`
	Economics float64 `json:"economics"`
	Payback   float64 `json:"payback"`
	Total     float64 `json:"total"`
	Verdict   string  `json:"verdict"`
}

// EnvironmentalImpact quantifies water, energy and carbon benefits.
type EnvironmentalImpact struct {
	WaterSavedLiters   float64 `json:"water_saved_liters"`
	EnergySavedKWh     float64 `json:"energy_saved_kwh"`
	CO2ReductionKg     float64 `json:"co2_reduction_kg"`
	EquivalentTrees    float64 `json:"equivalent_trees"`
	EquivalentCarMiles float64 `json:"equivalent_car_miles"`
}

// AnalysisReport is the full aggregate produced for one analysis.
// Identical inputs always produce identical reports; nothing here is
// mutated after construction.
type AnalysisReport struct {
	Region   string `json:"region"`
	Currency string `json:"currency"`

	Site        SiteParameters     `json:"site"`
	Rainfall    RainfallSeries     `json:"rainfall_mm"`
	RainfallSrc Provenance         `json:"rainfall_provenance"`
	Soil        region.SoilProfile `json:"soil"`
	SoilSrc     Provenance         `json:"soil_provenance"`

	RunoffCoefficient    float64 `json:"runoff_coefficient"`
	SystemEfficiency     float64 `json:"system_efficiency"`
	TariffPerM3          float64 `json:"tariff_per_m3"`
	RecommendedStorageM3 float64 `json:"recommended_storage_m3"`
	CoveragePercent      float64 `json:"coverage_percent"`

	Demand      DemandBreakdown     `json:"demand"`
	Harvest     HarvestResult       `json:"harvest"`
	Cost        CostBreakdown       `json:"cost"`
	Recharge    RechargeDesign      `json:"recharge"`
	Finance     FinancialMetrics    `json:"finance"`
	Score       FeasibilityScore    `json:"score"`
	Environment EnvironmentalImpact `json:"environment"`

	Groundwater GroundwaterProfile `json:"groundwater"`

	Narrative   string   `json:"narrative"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}
