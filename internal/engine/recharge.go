package engine

import (
	"fmt"
	"math"

	"github.com/rainwise/rainharvest/internal/region"
)

// Shape names for recharge structures.
const (
	ShapeCylindrical = "cylindrical"
	ShapeRectangular = "rectangular"
)

// SizeRechargeStructures sizes every candidate recharge structure from
// the surplus harvestable volume and the soil profile, then selects a
// recommended structure. Soil permeability and volume jointly decide
// whether depth (shaft/well) or footprint (trench) dominates: clay
// needs depth to bypass low surface infiltration.
func SizeRechargeStructures(cfg region.Config, annualHarvestM3 float64, soil region.SoilProfile) RechargeDesign {
	rp := cfg.Recharge
	effective := annualHarvestM3 * rp.RechargeFraction * soil.PermeabilityFactor

	soilAdj := 1.0
	if cfg.ClaySoil(soil.Type) {
		soilAdj = rp.ClayCostFactor
	}

	infil := soil.InfiltrationMMHr
	structures := []RechargeStructure{
		sizePit(effective, infil, rp.PitCostPerM3*soilAdj),
		sizeTrench(effective, infil, rp.TrenchCostPerM3*soilAdj),
		sizeShaft(effective, infil, rp.ShaftCostPerM3*soilAdj),
		sizeInjectionWell(effective, rp.WellBoreDiameterM, rp.WellCostPerM3*soilAdj),
	}

	design := RechargeDesign{
		Structures:       structures,
		AnnualRechargeM3: effective,
		InfiltrationMMHr: infil,
		SuitabilityTier:  soil.SuitabilityTier,
	}

	// Ordered recommendation ladder; first match wins.
	var multiplier float64
	switch {
	case effective == 0:
		design.Recommended = "None"
		design.Rationale = "no surplus harvest available for recharge; structure not recommended"
		return design
	case effective < rp.SmallVolumeM3:
		design.Recommended = "Small Recharge Pit"
		design.Rationale = fmt.Sprintf("effective volume %.1f m3 is below %.0f m3; the smallest pit is sufficient", effective, rp.SmallVolumeM3)
		multiplier = 1.0
	case cfg.ClaySoil(soil.Type) && effective > rp.ShaftVolumeM3:
		design.Recommended = "Recharge Shaft with Sand Filter"
		design.Rationale = fmt.Sprintf("%s soil infiltrates only %.0f mm/hr; a deep shaft bypasses the low-permeability surface layer", soil.Type, infil)
		multiplier = 1.3
	case effective > rp.TrenchVolumeM3:
		design.Recommended = "Recharge Trench System"
		design.Rationale = fmt.Sprintf("effective volume %.1f m3 exceeds %.0f m3; a trench spreads infiltration over a larger footprint", effective, rp.TrenchVolumeM3)
		multiplier = 0.9
	default:
		design.Recommended = "Recharge Pit with Filter Media"
		design.Rationale = fmt.Sprintf("effective volume %.1f m3 suits a standard filtered pit in %s soil", effective, soil.Type)
		multiplier = 1.1
	}

	design.EstimatedCost = effective * rp.BaseCostPerM3 * soilAdj * multiplier
	design.AnnualMaintenance = design.EstimatedCost * rp.MaintenanceFraction
	return design
}

// sizePit solves a cylindrical pit: depth from the infiltration band,
// diameter from volume = pi * r^2 * depth.
func sizePit(volumeM3, infiltrationMMHr, costPerM3 float64) RechargeStructure {
	depth := 3.0
	if infiltrationMMHr < 5 {
		depth = 4.0 // deeper pits compensate for slow soils
	}
	diameter := math.Sqrt(volumeM3 * 4 / (math.Pi * depth))
	actual := math.Pi * (diameter / 2) * (diameter / 2) * depth
	return RechargeStructure{
		Name:      "Recharge Pit",
		Shape:     ShapeCylindrical,
		VolumeM3:  actual,
		DepthM:    depth,
		DiameterM: diameter,
		Cost:      actual * costPerM3,
	}
}

// sizeTrench solves a rectangular trench: depth and width from
// infiltration bands, length from the remaining volume.
func sizeTrench(volumeM3, infiltrationMMHr, costPerM3 float64) RechargeStructure {
	depth := 2.0
	if infiltrationMMHr < 10 {
		depth = 2.5
	}
	width := 1.5
	if infiltrationMMHr < 5 {
		width = 2.0
	}
	length := volumeM3 / (depth * width)
	actual := length * width * depth
	return RechargeStructure{
		Name:     "Recharge Trench",
		Shape:    ShapeRectangular,
		VolumeM3: actual,
		DepthM:   depth,
		LengthM:  length,
		WidthM:   width,
		Cost:     actual * costPerM3,
	}
}

// sizeShaft solves a deep cylindrical shaft, preferred in clay soils.
func sizeShaft(volumeM3, infiltrationMMHr, costPerM3 float64) RechargeStructure {
	depth := 5.0
	if infiltrationMMHr < 5 {
		depth = 8.0
	}
	diameter := math.Sqrt(volumeM3 * 4 / (math.Pi * depth))
	actual := math.Pi * (diameter / 2) * (diameter / 2) * depth
	return RechargeStructure{
		Name:      "Recharge Shaft",
		Shape:     ShapeCylindrical,
		VolumeM3:  actual,
		DepthM:    depth,
		DiameterM: diameter,
		Cost:      actual * costPerM3,
	}
}

// sizeInjectionWell solves depth for a fixed bore diameter.
func sizeInjectionWell(volumeM3, boreDiameterM, costPerM3 float64) RechargeStructure {
	r := boreDiameterM / 2
	depth := volumeM3 / (math.Pi * r * r)
	actual := math.Pi * r * r * depth
	return RechargeStructure{
		Name:      "Injection Well",
		Shape:     ShapeCylindrical,
		VolumeM3:  actual,
		DepthM:    depth,
		DiameterM: boreDiameterM,
		Cost:      actual * costPerM3,
	}
}
