package engine

import (
	"fmt"
	"strings"

	"github.com/rainwise/rainharvest/internal/region"
)

// NarrativeGenerator composes human-readable report text. The engine
// ships a template-based implementation; an external composer can be
// substituted at the boundary. Narrative text never feeds back into
// any numeric computation.
type NarrativeGenerator interface {
	Compose(report *AnalysisReport) string
}

// DefaultGroundwater is the documented profile used when the
// groundwater provider is absent or fails.
func DefaultGroundwater() GroundwaterProfile {
	return GroundwaterProfile{
		DepthM:       12.5,
		Quality:      "Good",
		RechargeRate: 0.4,
		AquiferType:  "Mixed",
		Provenance:   Provenance{Source: "Default Estimation", Confidence: ConfidenceVeryLow},
	}
}

// Analyze runs the full calculation pipeline over an immutable input
// snapshot and returns a complete report. Validation failures abort
// the analysis; numeric edge cases (zero harvest, zero cost, IRR
// non-convergence) always produce a complete, well-typed report with
// the degenerate condition listed in Diagnostics.
func Analyze(cfg region.Config, in AnalysisInput) (*AnalysisReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	soil := cfg.Soil(in.Site.SoilType)
	runoff := cfg.Runoff(in.Site.RoofMaterial)
	tariff := cfg.Tariff(in.Site.TariffClass)

	demand := ComputeDemand(cfg, in.Site.HouseholdSize, in.Site.GardenAreaM2)
	harvest := ComputeHarvest(cfg, in.Rainfall, in.Site.CatchmentAreaM2, runoff)
	storage := RecommendStorage(cfg, demand, harvest)

	coverage := 0.0
	if demand.TotalM3 > 0 {
		coverage = harvest.AnnualM3 / demand.TotalM3 * 100
		if coverage > 100 {
			coverage = 100
		}
	}

	tier := SelectTier(cfg, harvest.AnnualM3)
	cost, err := EstimateCosts(cfg, in.Site.CatchmentAreaM2, storage, tier)
	if err != nil {
		return nil, err
	}

	recharge := SizeRechargeStructures(cfg, harvest.AnnualM3, soil)
	finance := AnalyzeFinances(cfg, cost, harvest.AnnualM3*tariff)
	score := ScoreFeasibility(cfg, harvest, coverage, finance)
	environment := ComputeEnvironmentalImpact(cfg, harvest.AnnualM3)

	groundwater := DefaultGroundwater()
	if in.Groundwater != nil {
		groundwater = *in.Groundwater
	}

	report := &AnalysisReport{
		Region:               cfg.Name,
		Currency:             cfg.Currency,
		Site:                 in.Site,
		Rainfall:             in.Rainfall,
		RainfallSrc:          in.RainfallSrc,
		Soil:                 soil,
		SoilSrc:              in.SoilSrc,
		RunoffCoefficient:    runoff,
		SystemEfficiency:     cfg.SystemEfficiency,
		TariffPerM3:          tariff,
		RecommendedStorageM3: storage,
		CoveragePercent:      coverage,
		Demand:               demand,
		Harvest:              harvest,
		Cost:                 cost,
		Recharge:             recharge,
		Finance:              finance,
		Score:                score,
		Environment:          environment,
		Groundwater:          groundwater,
		Diagnostics:          diagnose(harvest, cost, finance, in),
	}
	report.Narrative = composeNarrative(report)
	return report, nil
}

// diagnose collects degenerate and low-confidence conditions so
// downstream consumers can warn users instead of trusting silently.
func diagnose(harvest HarvestResult, cost CostBreakdown, fin FinancialMetrics, in AnalysisInput) []string {
	var notes []string
	if harvest.AnnualM3 == 0 {
		notes = append(notes, "annual harvest is zero; recharge and financial results are degenerate")
	}
	if cost.TotalInitial == 0 {
		notes = append(notes, "total initial cost is zero; benefit/cost ratio is a sentinel")
	}
	if !fin.IRRConverged {
		notes = append(notes, "irr bisection did not converge; reported rate is the best midpoint")
	}
	if in.RainfallSrc.Confidence == ConfidenceLow || in.RainfallSrc.Confidence == ConfidenceVeryLow {
		notes = append(notes, fmt.Sprintf("rainfall data confidence is %s (%s)", in.RainfallSrc.Confidence, in.RainfallSrc.Source))
	}
	if in.SoilSrc.Confidence == ConfidenceLow || in.SoilSrc.Confidence == ConfidenceVeryLow {
		notes = append(notes, fmt.Sprintf("soil data confidence is %s (%s)", in.SoilSrc.Confidence, in.SoilSrc.Source))
	}
	return notes
}

// composeNarrative assembles the report summary by plain template
// substitution. No computation happens here.
func composeNarrative(r *AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A %.0f m2 %s roof in %s soil can harvest %.1f m3 of rainwater per year from %.0f mm of rainfall, covering %.1f%% of the household's %.1f m3 annual demand. ",
		r.Site.CatchmentAreaM2, strings.ToLower(nonEmpty(r.Site.RoofMaterial, "standard")), r.Soil.Type,
		r.Harvest.AnnualM3, r.Harvest.AnnualRainfallMM, r.CoveragePercent, r.Demand.TotalM3)

	fmt.Fprintf(&b, "A %s-tier system with %.1f m3 of storage costs %s %.2f to install and %s %.2f per year to run. ",
		r.Cost.Tier, r.RecommendedStorageM3, r.Currency, r.Cost.TotalInitial, r.Currency, r.Cost.TotalAnnual)

	if r.Finance.SimplePaybackYear != nil {
		fmt.Fprintf(&b, "The investment pays back in year %d with a 20-year NPV of %s %.2f and a benefit/cost ratio of %.2f. ",
			*r.Finance.SimplePaybackYear, r.Currency, r.Finance.NPV, r.Finance.BenefitCostRatio)
	} else {
		fmt.Fprintf(&b, "The investment does not pay back within the 20-year horizon (NPV %s %.2f, benefit/cost ratio %.2f). ",
			r.Currency, r.Finance.NPV, r.Finance.BenefitCostRatio)
	}

	if r.Recharge.Recommended != "None" {
		fmt.Fprintf(&b, "Surplus water can recharge %.1f m3 of groundwater per year; recommended structure: %s. ",
			r.Recharge.AnnualRechargeM3, r.Recharge.Recommended)
	}

	fmt.Fprintf(&b, "Overall feasibility: %.0f/100 (%s).", r.Score.Total, r.Score.Verdict)
	return b.String()
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// templateNarrative is the engine's built-in NarrativeGenerator.
type templateNarrative struct{}

func (templateNarrative) Compose(report *AnalysisReport) string {
	return composeNarrative(report)
}

// NewTemplateNarrative returns the built-in template-substitution
// narrative generator.
func NewTemplateNarrative() NarrativeGenerator {
	return templateNarrative{}
}
