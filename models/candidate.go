package models

import "fmt"

// OptimizationMetrics is the single value object the objective kernel
// derives revenue/cost/profit from. It is the only place the objective
// formula is expressed; every solver routes through it.
type OptimizationMetrics struct {
	AreaUsed        float64
	RevenuePerArea  *float64 // nil => revenue undefined
	RevenueCap      *float64 // nil => uncapped
	GrowthDays      int
	DailyFixedCost  float64
	YieldFactor     float64 // [0,1]
	InteractionImpact float64 // multiplicative, defaults to 1.0
}

// Revenue computes area_used * revenue_per_area * yield_factor *
// interaction_impact, capped at RevenueCap if set. Returns (0, false) when
// RevenuePerArea is nil (revenue undefined).
func (m OptimizationMetrics) Revenue() (float64, bool) {
	if m.RevenuePerArea == nil {
		return 0, false
	}
	impact := m.InteractionImpact
	if impact == 0 {
		impact = 1.0
	}
	rev := m.AreaUsed * (*m.RevenuePerArea) * m.YieldFactor * impact
	if m.RevenueCap != nil && rev > *m.RevenueCap {
		rev = *m.RevenueCap
	}
	return rev, true
}

// Cost computes growth_days * daily_fixed_cost.
func (m OptimizationMetrics) Cost() float64 {
	return float64(m.GrowthDays) * m.DailyFixedCost
}

// Profit computes (revenue if defined else 0) - cost.
func (m OptimizationMetrics) Profit() float64 {
	rev, _ := m.Revenue()
	return rev - m.Cost()
}

// ProfitRate is profit divided by growth days (undefined/zero growth days
// yields 0, never divides by zero).
func (m OptimizationMetrics) ProfitRate() float64 {
	if m.GrowthDays <= 0 {
		return 0
	}
	return m.Profit() / float64(m.GrowthDays)
}

// AllocationCandidate is a proposed allocation under evaluation, not yet
// committed to a plan. Immutable; keyed by (field, crop, start_date,
// quantity). Candidates borrow Field/Crop by reference — they never own
// them.
type AllocationCandidate struct {
	Field    *Field
	Crop     *Crop
	Start    DateOnly
	Completion DateOnly
	GrowthDays int
	AreaUsed float64 // m^2, <= Field.AreaSqMeters
	Quantity float64 // units
	YieldFactor float64 // [0,1]
	PreviousCrop *Crop // optional, for interaction lookups
	InteractionImpact float64 // multiplicative, defaults to 1.0 until interaction rules are applied
}

// Metrics assembles the OptimizationMetrics for this candidate.
func (c AllocationCandidate) Metrics() OptimizationMetrics {
	impact := c.InteractionImpact
	if impact == 0 {
		impact = 1.0
	}
	return OptimizationMetrics{
		AreaUsed:          c.AreaUsed,
		RevenuePerArea:    c.Crop.RevenuePerArea,
		RevenueCap:        c.Crop.RevenueCapSeason,
		GrowthDays:        c.GrowthDays,
		DailyFixedCost:    c.Field.DailyFixedCost,
		YieldFactor:       c.YieldFactor,
		InteractionImpact: impact,
	}
}

// Cost, Revenue, Profit and ProfitRate are convenience accessors forwarding
// to Metrics(); solvers should prefer Metrics() when computing several of
// these at once.
func (c AllocationCandidate) Cost() float64 { return c.Metrics().Cost() }
func (c AllocationCandidate) Revenue() float64 {
	rev, _ := c.Metrics().Revenue()
	return rev
}
func (c AllocationCandidate) Profit() float64     { return c.Metrics().Profit() }
func (c AllocationCandidate) ProfitRate() float64 { return c.Metrics().ProfitRate() }

// Key uniquely identifies a candidate by (field, crop, start_date,
// quantity).
func (c AllocationCandidate) Key() string {
	return fmt.Sprintf("%s|%s|%s|%.6f", c.Field.ID, c.Crop.ID, c.Start.String(), c.Quantity)
}

// OverlapsWithFallow reports whether c's cultivation interval, extended by the
// field's fallow period, would conflict with another allocation starting at
// otherStart with the given completion.
func (c AllocationCandidate) OverlapsWithFallow(otherStart, otherCompletion DateOnly, fallowDays int) bool {
	// Two intervals conflict unless one fully precedes the other by at
	// least fallowDays.
	cEndsBeforeOther := c.Completion.AddDays(fallowDays).DaysUntil(otherStart) >= 0
	otherEndsBeforeC := otherCompletion.AddDays(fallowDays).DaysUntil(c.Start) >= 0
	return !(cEndsBeforeOther || otherEndsBeforeC)
}
