package models

import "fmt"

// CropTotal summarizes one crop's aggregate contribution to a Plan,
// surfaced optionally in the plan output schema.
type CropTotal struct {
	CropID       string  `json:"crop_id"`
	CropName     string  `json:"crop_name"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCost    float64 `json:"total_cost"`
	TotalProfit  float64 `json:"total_profit"`
	Allocations  int     `json:"allocations"`
}

// RejectedCandidateSummary aggregates how many (field, crop) combinations
// were skipped as Infeasible ("logged as a summary count").
type RejectedCandidateSummary struct {
	FieldID string `json:"field_id"`
	CropID  string `json:"crop_id"`
	Reason  string `json:"reason"`
	Count   int    `json:"count"`
}

// Plan is the full allocation output: a set of FieldSchedules plus totals
// and provenance.
type Plan struct {
	OptimizationID string          `json:"optimization_id"`
	AlgorithmUsed  string          `json:"algorithm_used"`
	TotalProfit    float64         `json:"total_profit"`
	TotalCost      float64         `json:"total_cost"`
	TotalRevenue   float64         `json:"total_revenue"`
	FieldSchedules []FieldSchedule `json:"field_schedules"`
	CropTotals     []CropTotal     `json:"crop_totals,omitempty"`
	RejectedCandidatesSummary []RejectedCandidateSummary `json:"rejected_candidates_summary,omitempty"`
	TimedOut       bool            `json:"timed_out,omitempty"`
}

// AllAllocations flattens every allocation across every field schedule.
func (p Plan) AllAllocations() []CropAllocation {
	var out []CropAllocation
	for _, fs := range p.FieldSchedules {
		out = append(out, fs.Allocations...)
	}
	return out
}

// FindAllocation locates an allocation by id across all field schedules.
func (p Plan) FindAllocation(id string) (CropAllocation, string, bool) {
	for _, fs := range p.FieldSchedules {
		for _, a := range fs.Allocations {
			if a.AllocationID == id {
				return a, fs.FieldID, true
			}
		}
	}
	return CropAllocation{}, "", false
}

// RevenueByCrop sums expected revenue per crop id, used to enforce the
// per-crop revenue-cap invariant.
func (p Plan) RevenueByCrop() map[string]float64 {
	out := make(map[string]float64)
	for _, fs := range p.FieldSchedules {
		for _, a := range fs.Allocations {
			out[a.CropID] += a.ExpectedRevenue
		}
	}
	return out
}

const revenueCapTolerance = 1e-6

// ValidateInvariants checks every quantified invariant that is
// checkable from the Plan value alone: per-field fallow adjacency, area and
// date bounds (against the supplied planning window and field lookup), and
// revenue-cap compliance (against the supplied crop lookup). It does not
// recompute yield_factor or interaction_impact from weather/rules — that is
// the caller's job when those sources are available.
func (p Plan) ValidateInvariants(fields map[string]Field, crops map[string]Crop, windowStart, windowEnd DateOnly) error {
	for _, fs := range p.FieldSchedules {
		field, ok := fields[fs.FieldID]
		if !ok {
			return fmt.Errorf("plan references unknown field %q", fs.FieldID)
		}
		if err := fs.ValidateFallow(field.FallowPeriodDays); err != nil {
			return fmt.Errorf("invariant violation: %w", err)
		}
		for _, a := range fs.Allocations {
			if a.AreaUsed > field.AreaSqMeters+1e-9 {
				return fmt.Errorf("invariant violation: allocation %s uses %.4f m^2 on field %q with area %.4f",
					a.AllocationID, a.AreaUsed, field.ID, field.AreaSqMeters)
			}
			if a.GrowthDays <= 0 {
				return fmt.Errorf("invariant violation: allocation %s has non-positive growth days", a.AllocationID)
			}
			if !a.Start.Before(a.Completion) {
				return fmt.Errorf("invariant violation: allocation %s start %s not before completion %s", a.AllocationID, a.Start, a.Completion)
			}
			// Completion is exclusive (the first day the field is free
			// again); the last day actually occupied is Completion-1, and
			// that is what must fall within the planning window.
			if a.Start.Before(windowStart) || a.Completion.AddDays(-1).After(windowEnd) {
				return fmt.Errorf("invariant violation: allocation %s [%s, %s) falls outside planning window [%s, %s]",
					a.AllocationID, a.Start, a.Completion, windowStart, windowEnd)
			}
		}
	}
	for cropID, revenue := range p.RevenueByCrop() {
		crop, ok := crops[cropID]
		if !ok || crop.RevenueCapSeason == nil {
			continue
		}
		if revenue > *crop.RevenueCapSeason+revenueCapTolerance {
			return fmt.Errorf("invariant violation: crop %q revenue %.6f exceeds cap %.6f", cropID, revenue, *crop.RevenueCapSeason)
		}
	}
	return nil
}

// Recompute refreshes TotalCost/TotalRevenue/TotalProfit and CropTotals
// from the current FieldSchedules. Called by the result assembler
// after grouping/sorting.
func (p *Plan) Recompute() {
	p.TotalCost, p.TotalRevenue, p.TotalProfit = 0, 0, 0
	totals := make(map[string]*CropTotal)
	var order []string
	for _, fs := range p.FieldSchedules {
		p.TotalCost += fs.TotalCost()
		p.TotalRevenue += fs.TotalRevenue()
		p.TotalProfit += fs.TotalProfit()
		for _, a := range fs.Allocations {
			ct, ok := totals[a.CropID]
			if !ok {
				ct = &CropTotal{CropID: a.CropID, CropName: a.CropName}
				totals[a.CropID] = ct
				order = append(order, a.CropID)
			}
			ct.TotalRevenue += a.ExpectedRevenue
			ct.TotalCost += a.TotalCost
			ct.TotalProfit += a.Profit
			ct.Allocations++
		}
	}
	p.CropTotals = make([]CropTotal, 0, len(order))
	for _, id := range order {
		p.CropTotals = append(p.CropTotals, *totals[id])
	}
}
