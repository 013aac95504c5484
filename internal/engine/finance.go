package engine

import (
	"math"

	"github.com/rainwise/rainharvest/internal/region"
)

// AnalyzeFinances builds the 20-year nominal cash-flow model and its
// discounted metrics. Benefits inflate at the water-cost escalation
// rate; operating costs stay flat — a deliberately conservative
// benefit estimate, not an oversight. Every field is well-defined even
// when the project never breaks even: payback years stay nil, and a
// degenerate IRR comes back as 0.0 with IRRConverged false.
func AnalyzeFinances(cfg region.Config, cost CostBreakdown, annualSavingsBase float64) FinancialMetrics {
	fp := cfg.Finance

	ledger := make([]CashFlowYear, 0, fp.HorizonYears)
	flows := make([]float64, 0, fp.HorizonYears+1)
	flows = append(flows, -cost.TotalInitial)

	cumulativeNet := -cost.TotalInitial
	cumulativeDisc := -cost.TotalInitial
	benefitsPV := 0.0
	operatingPV := 0.0

	var simplePayback, discountedPayback *int
	simpleCum := 0.0
	discCum := 0.0

	for y := 1; y <= fp.HorizonYears; y++ {
		benefit := annualSavingsBase * math.Pow(1+fp.EscalationRate, float64(y))
		net := benefit - cost.TotalAnnual
		df := math.Pow(1+fp.DiscountRate, float64(y))
		discounted := net / df

		cumulativeNet += net
		cumulativeDisc += discounted
		benefitsPV += benefit / df
		operatingPV += cost.TotalAnnual / df
		flows = append(flows, net)

		simpleCum += net
		if simplePayback == nil && simpleCum >= cost.TotalInitial {
			year := y
			simplePayback = &year
		}
		discCum += discounted
		if discountedPayback == nil && discCum >= cost.TotalInitial {
			year := y
			discountedPayback = &year
		}

		ledger = append(ledger, CashFlowYear{
			Year:                 y,
			Benefit:              benefit,
			Cost:                 cost.TotalAnnual,
			Net:                  net,
			Discounted:           discounted,
			CumulativeNet:        cumulativeNet,
			CumulativeDiscounted: cumulativeDisc,
		})
	}

	npv := npvAtRate(fp.DiscountRate, flows)
	irr, converged := bisectIRR(fp, flows)

	costsPV := cost.TotalInitial + operatingPV
	bcr := 0.0
	if costsPV > 0 {
		bcr = benefitsPV / costsPV
	}

	return FinancialMetrics{
		NPV:                   npv,
		IRR:                   irr,
		IRRConverged:          converged,
		SimplePaybackYear:     simplePayback,
		DiscountedPaybackYear: discountedPayback,
		BenefitCostRatio:      bcr,
		TotalBenefitsPV:       benefitsPV,
		TotalCostsPV:          costsPV,
		AnnualSavingsBase:     annualSavingsBase,
		Ledger:                ledger,
	}
}

// npvAtRate discounts a cash-flow series whose index is the year;
// year 0 is undiscounted.
func npvAtRate(rate float64, flows []float64) float64 {
	npv := 0.0
	for y, cf := range flows {
		npv += cf / math.Pow(1+rate, float64(y))
	}
	return npv
}

// bisectIRR searches the configured rate range for the rate that
// zeroes NPV. Bisection is reliable here because the cash-flow shape
// has a single sign change (negative year 0, positive net benefits).
// When the range does not bracket a root the IRR is degenerate:
// return 0.0 and report non-convergence rather than failing.
func bisectIRR(fp region.FinanceParams, flows []float64) (float64, bool) {
	low, high := fp.IRRSearchLow, fp.IRRSearchHigh

	npvLow := npvAtRate(low, flows)
	npvHigh := npvAtRate(high, flows)
	if npvLow == 0 {
		return low, true
	}
	if npvHigh == 0 {
		return high, true
	}
	if (npvLow > 0) == (npvHigh > 0) {
		return 0.0, false
	}

	mid := (low + high) / 2
	for i := 0; i < fp.IRRMaxIterations; i++ {
		mid = (low + high) / 2
		npv := npvAtRate(mid, flows)
		if math.Abs(npv) < fp.IRRTolerance {
			return mid, true
		}
		// NPV decreases with rate for this cash-flow shape.
		if npv > 0 {
			low = mid
		} else {
			high = mid
		}
	}
	return mid, false
}
