package engine

import "github.com/rainwise/rainharvest/internal/region"

// Verdict labels for feasibility score ranges.
const (
	VerdictHighlyRecommended = "Highly Recommended"
	VerdictRecommended       = "Recommended"
	VerdictConsider          = "Consider"
	VerdictLimitedBenefit    = "Limited Benefit"
)

// ScoreFeasibility combines rainfall adequacy, harvest volume, demand
// coverage, economics and payback into a weighted 0-100 score. Each
// category is a stepped band ladder from the regional configuration:
// stable, explainable tiers instead of a smooth curve. The score is
// monotonically non-decreasing in every input category.
func ScoreFeasibility(cfg region.Config, harvest HarvestResult, coveragePercent float64, fin FinancialMetrics) FeasibilityScore {
	sc := cfg.Scoring

	score := FeasibilityScore{
		Rainfall:  bandScore(sc.Rainfall, harvest.AnnualRainfallMM),
		Harvest:   bandScore(sc.Harvest, harvest.AnnualM3),
		Coverage:  bandScore(sc.Coverage, coveragePercent),
		Economics: bandScore(sc.Economics, fin.BenefitCostRatio),
		Payback:   paybackScore(sc.Payback, fin.SimplePaybackYear),
	}

	total := score.Rainfall + score.Harvest + score.Coverage + score.Economics + score.Payback
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	score.Total = total
	score.Verdict = verdict(total)
	return score
}

// bandScore awards the first matching band's fraction of the category
// weight. Bands are ordered best first: descending thresholds for
// higher-is-better categories, ascending for lower-is-better ones.
func bandScore(cat region.Category, value float64) float64 {
	for _, band := range cat.Bands {
		if cat.LowerIsBetter {
			if value <= band.Threshold {
				return cat.Weight * band.Fraction
			}
		} else if value >= band.Threshold {
			return cat.Weight * band.Fraction
		}
	}
	return 0
}

// paybackScore treats a nil payback (never breaks even) as zero.
func paybackScore(cat region.Category, paybackYear *int) float64 {
	if paybackYear == nil {
		return 0
	}
	return bandScore(cat, float64(*paybackYear))
}

func verdict(total float64) string {
	switch {
	case total >= 80:
		return VerdictHighlyRecommended
	case total >= 60:
		return VerdictRecommended
	case total >= 40:
		return VerdictConsider
	default:
		return VerdictLimitedBenefit
	}
}
