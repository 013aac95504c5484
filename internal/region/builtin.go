package region

// Built-in regional tables. The US tables carry industry-average USD
// figures; the India tables carry INR figures with higher tier
// thresholds reflecting monsoon-driven harvest volumes. The rule
// shapes (two ascending tier thresholds, stepped score bands) are the
// same in every region; only the literals differ.

func soilTable() map[string]SoilProfile {
	return map[string]SoilProfile{
		"Sandy":      {Type: "Sandy", PermeabilityFactor: 1.2, InfiltrationMMHr: 30, SuitabilityTier: "High"},
		"Sandy Loam": {Type: "Sandy Loam", PermeabilityFactor: 1.0, InfiltrationMMHr: 20, SuitabilityTier: "High"},
		"Loam":       {Type: "Loam", PermeabilityFactor: 0.8, InfiltrationMMHr: 12, SuitabilityTier: "Medium"},
		"Clay Loam":  {Type: "Clay Loam", PermeabilityFactor: 0.6, InfiltrationMMHr: 6, SuitabilityTier: "Medium"},
		"Clay":       {Type: "Clay", PermeabilityFactor: 0.4, InfiltrationMMHr: 2, SuitabilityTier: "Low"},
		"Silt":       {Type: "Silt", PermeabilityFactor: 0.5, InfiltrationMMHr: 4, SuitabilityTier: "Low"},
		"Unknown":    {Type: "Unknown", PermeabilityFactor: 0.8, InfiltrationMMHr: 12, SuitabilityTier: "Medium"},
	}
}

func runoffTable() map[string]float64 {
	return map[string]float64{
		"Concrete": 0.92,
		"Metal":    0.88,
		"Tiled":    0.82,
		"Thatched": 0.65,
		"Asbestos": 0.85,
		"Slate":    0.90,
	}
}

func standardScoring() ScoringConfig {
	return ScoringConfig{
		Rainfall: Category{
			Weight: 20,
			Bands:  []Band{{600, 1.0}, {400, 0.7}, {200, 0.4}},
		},
		Harvest: Category{
			Weight: 20,
			Bands:  []Band{{30, 1.0}, {15, 0.7}, {5, 0.4}},
		},
		Coverage: Category{
			Weight: 15,
			Bands:  []Band{{50, 1.0}, {30, 0.7}, {15, 0.4}},
		},
		Economics: Category{
			Weight: 25,
			Bands:  []Band{{1.5, 1.0}, {1.0, 0.7}, {0.7, 0.4}},
		},
		Payback: Category{
			Weight:        20,
			LowerIsBetter: true,
			Bands:         []Band{{7, 1.0}, {12, 0.7}, {20, 0.4}},
		},
	}
}

func standardFinance() FinanceParams {
	return FinanceParams{
		EscalationRate:   0.03,
		DiscountRate:     0.05,
		HorizonYears:     20,
		IRRSearchLow:     -0.99,
		IRRSearchHigh:    2.0,
		IRRTolerance:     1e-4,
		IRRMaxIterations: 200,
	}
}

func standardEnvironment() EnvironmentalFactors {
	return EnvironmentalFactors{
		EnergyPerM3KWh: 3.5,
		CO2PerKWhKg:    0.4,
		CO2PerTreeKg:   22,
		CO2PerMileKg:   0.4,
	}
}

func usStandard() Config {
	return Config{
		Name:        "us-standard",
		Currency:    "USD",
		TariffPerM3: 2.5,
		Tariffs: map[string]float64{
			"municipal": 2.5,
			"metered":   3.2,
			"well":      0.8,
		},
		Soils:       soilTable(),
		DefaultSoil: "Unknown",

		RunoffCoefficients: runoffTable(),
		DefaultRunoff:      0.80,

		SystemEfficiency:    0.80,
		DryMonthThresholdMM: 30,
		DrySeasonDays:       180,

		DrinkingLPerPersonDay: 5,
		DomesticLPerPersonDay: 100,
		GardenLPerM2Day:       5,

		BasicBelowM3:        20,
		IntermediateBelowM3: 50,
		Tiers: map[Tier]TierCosts{
			TierBasic: {
				TankCostPerM3:      200,
				PipingCost:         500,
				GutterCostPerMeter: 25,
				FirstFlushDiverter: 150,
				Filtration:         100,
				Installation:       800,
				MaintenanceAnnual:  50,
			},
			TierIntermediate: {
				TankCostPerM3:      300,
				PipingCost:         800,
				GutterCostPerMeter: 35,
				FirstFlushDiverter: 200,
				Filtration:         430, // sediment + carbon stages
				Installation:       1200,
				MaintenanceAnnual:  80,
			},
			TierAdvanced: {
				TankCostPerM3:      450,
				PipingCost:         1200,
				GutterCostPerMeter: 50,
				FirstFlushDiverter: 300,
				Filtration:         500,
				UVSterilizer:       400,
				PumpSystem:         600,
				Installation:       2000,
				MaintenanceAnnual:  150,
			},
		},

		ElectricityAnnual:         50,
		WaterTestingAnnual:        100,
		FilterReplacementFraction: 0.3,

		GutterLengthFactor:     4,
		StorageMonthsOfDemand:  2,
		StorageHarvestFraction: 0.15,

		Recharge: RechargeParams{
			RechargeFraction:    0.7,
			BaseCostPerM3:       180,
			PitCostPerM3:        150,
			TrenchCostPerM3:     130,
			ShaftCostPerM3:      200,
			WellCostPerM3:       250,
			ClayCostFactor:      1.2,
			ClaySoils:           []string{"Clay", "Clay Loam"},
			SmallVolumeM3:       5,
			ShaftVolumeM3:       15,
			TrenchVolumeM3:      25,
			MaintenanceFraction: 0.05,
			WellBoreDiameterM:   1.0,
		},
		Finance:       standardFinance(),
		Scoring:       standardScoring(),
		Environmental: standardEnvironment(),
	}
}

func inStandard() Config {
	cfg := usStandard()
	cfg.Name = "in-standard"
	cfg.Currency = "INR"
	cfg.TariffPerM3 = 30
	cfg.Tariffs = map[string]float64{
		"municipal": 30,
		"metered":   45,
		"borewell":  12,
	}

	// Monsoon climates harvest more per m2, so tiers switch later.
	cfg.BasicBelowM3 = 25
	cfg.IntermediateBelowM3 = 60

	cfg.Tiers = map[Tier]TierCosts{
		TierBasic: {
			TankCostPerM3:      9000,
			PipingCost:         15000,
			GutterCostPerMeter: 600,
			FirstFlushDiverter: 5000,
			Filtration:         4000,
			Installation:       20000,
			MaintenanceAnnual:  1500,
		},
		TierIntermediate: {
			TankCostPerM3:      12000,
			PipingCost:         25000,
			GutterCostPerMeter: 850,
			FirstFlushDiverter: 6500,
			Filtration:         14000,
			Installation:       35000,
			MaintenanceAnnual:  2500,
		},
		TierAdvanced: {
			TankCostPerM3:      16000,
			PipingCost:         40000,
			GutterCostPerMeter: 1200,
			FirstFlushDiverter: 9000,
			Filtration:         20000,
			UVSterilizer:       12000,
			PumpSystem:         18000,
			Installation:       60000,
			MaintenanceAnnual:  5000,
		},
	}

	cfg.ElectricityAnnual = 1800
	cfg.WaterTestingAnnual = 3000

	cfg.Recharge = RechargeParams{
		RechargeFraction:    0.7,
		BaseCostPerM3:       5500,
		PitCostPerM3:        4500,
		TrenchCostPerM3:     4000,
		ShaftCostPerM3:      6000,
		WellCostPerM3:       7500,
		ClayCostFactor:      1.2,
		ClaySoils:           []string{"Clay", "Clay Loam"},
		SmallVolumeM3:       5,
		ShaftVolumeM3:       15,
		TrenchVolumeM3:      25,
		MaintenanceFraction: 0.05,
		WellBoreDiameterM:   1.0,
	}

	// Water price inflation runs hotter than the US baseline.
	cfg.Finance.EscalationRate = 0.05
	cfg.Finance.DiscountRate = 0.08

	return cfg
}

// Builtin returns the regional configurations shipped with the engine.
func Builtin() map[string]Config {
	return map[string]Config{
		"us-standard": usStandard(),
		"in-standard": inStandard(),
	}
}
