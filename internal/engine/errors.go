package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCatchment  = errors.New("catchment area must be positive")
	ErrInvalidHousehold  = errors.New("household size must be at least 1")
	ErrInvalidGardenArea = errors.New("garden area must not be negative")
	ErrMalformedRainfall = errors.New("rainfall series must contain exactly 12 non-negative monthly values")
)

// Validate checks a rainfall series against the 12-month invariant.
func (s RainfallSeries) Validate() error {
	if len(s) != MonthsPerYear {
		return fmt.Errorf("%w: got %d entries", ErrMalformedRainfall, len(s))
	}
	for m, mm := range s {
		if mm < 0 {
			return fmt.Errorf("%w: %s is negative", ErrMalformedRainfall, MonthNames[m])
		}
	}
	return nil
}

// Validate checks site parameters. Validation failures are fatal to a
// single analysis request; nothing is silently corrected.
func (p SiteParameters) Validate() error {
	if p.CatchmentAreaM2 <= 0 {
		return fmt.Errorf("%w: got %.2f m2", ErrInvalidCatchment, p.CatchmentAreaM2)
	}
	if p.HouseholdSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidHousehold, p.HouseholdSize)
	}
	if p.GardenAreaM2 < 0 {
		return fmt.Errorf("%w: got %.2f m2", ErrInvalidGardenArea, p.GardenAreaM2)
	}
	return nil
}

// Validate checks the full analysis input snapshot.
func (in AnalysisInput) Validate() error {
	if err := in.Site.Validate(); err != nil {
		return err
	}
	return in.Rainfall.Validate()
}
