package booking

import (
	"fmt"
	"math"
)

// DurationType is the unit a booking duration is expressed in.
type DurationType string

const (
	DurationHours DurationType = "hours"
	DurationDays  DurationType = "days"
)

// IsValid reports whether d is a supported unit.
func (d DurationType) IsValid() bool {
	return d == DurationHours || d == DurationDays
}

// ParseDurationType converts a string to a DurationType.
func ParseDurationType(s string) (DurationType, error) {
	d := DurationType(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid duration type: %s", s)
	}
	return d, nil
}

const (
	DefaultMaxDuration = 30
	DefaultHoursPerDay = 8
)

// Policy holds the product rules that bound bookings and derive hourly rates.
type Policy struct {
	MaxDuration int
	HoursPerDay int
}

// DefaultPolicy returns a 30 unit cap and an 8 hour working day.
func DefaultPolicy() Policy {
	return Policy{MaxDuration: DefaultMaxDuration, HoursPerDay: DefaultHoursPerDay}
}

// withDefaults fills zero fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	if p.MaxDuration <= 0 {
		p.MaxDuration = DefaultMaxDuration
	}
	if p.HoursPerDay <= 0 {
		p.HoursPerDay = DefaultHoursPerDay
	}
	return p
}

// PricingStrategy computes the total cost of a booking in whole currency units.
type PricingStrategy interface {
	Compute(pricePerDay float64, duration int, durationType DurationType) int64
}

// CostCalculator prices bookings from a service's daily rate.
//
// Days are charged at pricePerDay × duration. Hours are charged at an hourly
// rate of round(pricePerDay ÷ HoursPerDay) × duration. Rounding is half-up to
// the nearest whole unit.
type CostCalculator struct {
	hoursPerDay int
}

// NewCostCalculator creates a CostCalculator for the given policy.
func NewCostCalculator(policy Policy) *CostCalculator {
	return &CostCalculator{hoursPerDay: policy.withDefaults().HoursPerDay}
}

// Compute returns the total cost. Negative or non-finite inputs yield 0 and
// totals beyond int64 saturate at math.MaxInt64.
func (c *CostCalculator) Compute(pricePerDay float64, duration int, durationType DurationType) int64 {
	if pricePerDay <= 0 || duration <= 0 || math.IsNaN(pricePerDay) || math.IsInf(pricePerDay, 0) {
		return 0
	}
	switch durationType {
	case DurationDays:
		return roundHalfUp(pricePerDay * float64(duration))
	case DurationHours:
		hourly := roundHalfUp(pricePerDay / float64(c.hoursPerDay))
		if hourly > math.MaxInt64/int64(duration) {
			return math.MaxInt64
		}
		return hourly * int64(duration)
	default:
		return 0
	}
}

func roundHalfUp(x float64) int64 {
	r := math.Floor(x + 0.5)
	if r >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(r)
}
