package validate

import (
	"fmt"
	"strings"
)

// InsurancePolicy decides what a missing or unrecognized health-insurance
// answer means.
type InsurancePolicy string

const (
	// InsuranceDefaultFalse treats anything other than "yes" as no insurance.
	InsuranceDefaultFalse InsurancePolicy = "default_false"
	// InsuranceRequire fails the field unless the answer is yes or no.
	InsuranceRequire InsurancePolicy = "require"
)

// Rules are the configurable parts of validation.
type Rules struct {
	AllowedStates   []string
	MinAgeYears     int
	HealthInsurance InsurancePolicy
}

// DefaultRules returns the rules used when no config file overrides them.
func DefaultRules() Rules {
	return Rules{
		AllowedStates:   []string{"NY", "NJ"},
		MinAgeYears:     16,
		HealthInsurance: InsuranceDefaultFalse,
	}
}

// Check reports the first problem with r, if any.
func (r Rules) Check() error {
	if len(r.AllowedStates) == 0 {
		return fmt.Errorf("allowed_states must not be empty")
	}
	for _, s := range r.AllowedStates {
		if len(strings.TrimSpace(s)) != 2 {
			return fmt.Errorf("allowed_states: %q is not a two-letter code", s)
		}
	}
	if r.MinAgeYears < 0 {
		return fmt.Errorf("min_age_years must not be negative")
	}
	switch r.HealthInsurance {
	case InsuranceDefaultFalse, InsuranceRequire:
	default:
		return fmt.Errorf("health_insurance: unknown policy %q", r.HealthInsurance)
	}
	return nil
}

func (r Rules) stateSet() map[string]bool {
	m := make(map[string]bool, len(r.AllowedStates))
	for _, s := range r.AllowedStates {
		m[strings.ToUpper(strings.TrimSpace(s))] = true
	}
	return m
}
