package region

import "fmt"

// Tier identifies a harvesting system cost tier.
type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// SoilProfile describes how a soil type accepts recharged water.
type SoilProfile struct {
	Type               string  `json:"type"`
	PermeabilityFactor float64 `json:"permeability_factor"`
	InfiltrationMMHr   float64 `json:"infiltration_rate_mm_per_hr"`
	SuitabilityTier    string  `json:"suitability_tier"`
}

// TierCosts holds the fixed line items for one system tier.
// Line items set to zero are absent from that tier.
type TierCosts struct {
	TankCostPerM3      float64 `json:"tank_cost_per_m3"`
	PipingCost         float64 `json:"piping_cost"`
	GutterCostPerMeter float64 `json:"gutter_cost_per_meter"`
	FirstFlushDiverter float64 `json:"first_flush_diverter"`
	Filtration         float64 `json:"filtration"`
	UVSterilizer       float64 `json:"uv_sterilizer"`
	PumpSystem         float64 `json:"pump_system"`
	Installation       float64 `json:"installation"`
	MaintenanceAnnual  float64 `json:"maintenance_annual"`
}

// RechargeParams drives recharge structure sizing and costing.
type RechargeParams struct {
	RechargeFraction    float64  `json:"recharge_fraction"`
	BaseCostPerM3       float64  `json:"base_cost_per_m3"`
	PitCostPerM3        float64  `json:"pit_cost_per_m3"`
	TrenchCostPerM3     float64  `json:"trench_cost_per_m3"`
	ShaftCostPerM3      float64  `json:"shaft_cost_per_m3"`
	WellCostPerM3       float64  `json:"well_cost_per_m3"`
	ClayCostFactor      float64  `json:"clay_cost_factor"`
	ClaySoils           []string `json:"clay_soils"`
	SmallVolumeM3       float64  `json:"small_volume_m3"`
	ShaftVolumeM3       float64  `json:"shaft_volume_m3"`
	TrenchVolumeM3      float64  `json:"trench_volume_m3"`
	MaintenanceFraction float64  `json:"maintenance_fraction"`
	WellBoreDiameterM   float64  `json:"well_bore_diameter_m"`
}

// FinanceParams drives the 20-year cash-flow model.
type FinanceParams struct {
	EscalationRate   float64 `json:"water_cost_escalation_rate"`
	DiscountRate     float64 `json:"discount_rate"`
	HorizonYears     int     `json:"horizon_years"`
	IRRSearchLow     float64 `json:"irr_search_low"`
	IRRSearchHigh    float64 `json:"irr_search_high"`
	IRRTolerance     float64 `json:"irr_tolerance"`
	IRRMaxIterations int     `json:"irr_max_iterations"`
}

// Band awards Fraction of a category's weight when the category value
// clears Threshold. Bands are evaluated in order; first match wins.
type Band struct {
	Threshold float64 `json:"threshold"`
	Fraction  float64 `json:"fraction"`
}

// Category is one weighted sub-score of the feasibility score.
type Category struct {
	Weight        float64 `json:"weight"`
	Bands         []Band  `json:"bands"`
	LowerIsBetter bool    `json:"lower_is_better"`
}

// ScoringConfig holds the per-category weights and band ladders.
// Weights sum to 100.
type ScoringConfig struct {
	Rainfall  Category `json:"rainfall"`
	Harvest   Category `json:"harvest"`
	Coverage  Category `json:"coverage"`
	Economics Category `json:"economics"`
	Payback   Category `json:"payback"`
}

// EnvironmentalFactors converts harvested volume into impact figures.
type EnvironmentalFactors struct {
	EnergyPerM3KWh float64 `json:"energy_per_m3_kwh"`
	CO2PerKWhKg    float64 `json:"co2_per_kwh_kg"`
	CO2PerTreeKg   float64 `json:"co2_per_tree_kg"`
	CO2PerMileKg   float64 `json:"co2_per_mile_kg"`
}

// Config is the full regional parameter set for the calculation engine.
// Components receive it explicitly; there is no process-wide table.
type Config struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`

	TariffPerM3 float64            `json:"tariff_per_m3"`
	Tariffs     map[string]float64 `json:"tariffs"`

	Soils       map[string]SoilProfile `json:"soils"`
	DefaultSoil string                 `json:"default_soil"`

	RunoffCoefficients map[string]float64 `json:"runoff_coefficients"`
	DefaultRunoff      float64            `json:"default_runoff"`

	SystemEfficiency    float64 `json:"system_efficiency"`
	DryMonthThresholdMM float64 `json:"dry_month_threshold_mm"`
	DrySeasonDays       float64 `json:"dry_season_days"`

	DrinkingLPerPersonDay float64 `json:"drinking_l_per_person_day"`
	DomesticLPerPersonDay float64 `json:"domestic_l_per_person_day"`
	GardenLPerM2Day       float64 `json:"garden_l_per_m2_day"`

	// Annual harvest below BasicBelowM3 selects the basic tier, below
	// IntermediateBelowM3 the intermediate tier, otherwise advanced.
	BasicBelowM3        float64            `json:"basic_below_m3"`
	IntermediateBelowM3 float64            `json:"intermediate_below_m3"`
	Tiers               map[Tier]TierCosts `json:"tiers"`

	ElectricityAnnual         float64 `json:"electricity_annual"`
	WaterTestingAnnual        float64 `json:"water_testing_annual"`
	FilterReplacementFraction float64 `json:"filter_replacement_fraction"`

	GutterLengthFactor     float64 `json:"gutter_length_factor"`
	StorageMonthsOfDemand  float64 `json:"storage_months_of_demand"`
	StorageHarvestFraction float64 `json:"storage_harvest_fraction"`

	Recharge      RechargeParams       `json:"recharge"`
	Finance       FinanceParams        `json:"finance"`
	Scoring       ScoringConfig        `json:"scoring"`
	Environmental EnvironmentalFactors `json:"environmental"`
}

// Soil returns the profile for a soil type, falling back to the
// region's documented default for unknown types.
func (c Config) Soil(soilType string) SoilProfile {
	if p, ok := c.Soils[soilType]; ok {
		return p
	}
	return c.Soils[c.DefaultSoil]
}

// Runoff returns the runoff coefficient for a roof material.
func (c Config) Runoff(roofMaterial string) float64 {
	if r, ok := c.RunoffCoefficients[roofMaterial]; ok {
		return r
	}
	return c.DefaultRunoff
}

// Tariff returns the water tariff for a tariff class, or the regional
// default when the class is unknown or empty.
func (c Config) Tariff(class string) float64 {
	if r, ok := c.Tariffs[class]; ok {
		return r
	}
	return c.TariffPerM3
}

// ClaySoil reports whether a soil type belongs to the clay family for
// recharge cost adjustment and structure selection.
func (c Config) ClaySoil(soilType string) bool {
	for _, s := range c.Recharge.ClaySoils {
		if s == soilType {
			return true
		}
	}
	return false
}

// Get returns a built-in regional configuration by name.
func Get(name string) (Config, error) {
	cfg, ok := Builtin()[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown region %q", name)
	}
	return cfg, nil
}

// Names lists the built-in region names.
func Names() []string {
	return []string{"us-standard", "in-standard"}
}
