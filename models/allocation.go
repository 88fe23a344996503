package models

import "fmt"

// CropAllocation is the committed form of an AllocationCandidate, carrying
// a stable identity.
type CropAllocation struct {
	AllocationID string   `json:"allocation_id"` // stable UUID
	FieldID      string   `json:"field_id"`
	FieldName    string   `json:"field_name"`
	CropID       string   `json:"crop_id"`
	CropName     string   `json:"crop_name"`
	Start        DateOnly `json:"start_date"`
	Completion   DateOnly `json:"completion_date"`
	GrowthDays   int      `json:"growth_days"`
	AreaUsed     float64  `json:"area_used"`
	Quantity     float64  `json:"quantity"`
	YieldFactor  float64  `json:"yield_factor"`
	InteractionImpact float64 `json:"interaction_impact"`
	TotalCost       float64 `json:"total_cost"`
	ExpectedRevenue float64 `json:"expected_revenue"`
	Profit          float64 `json:"profit"`
}

// FromCandidate builds a CropAllocation from a candidate and a freshly
// minted allocation id. Revenue/cost/profit are computed through the
// candidate's metrics, so they always agree with the objective kernel.
func FromCandidate(c AllocationCandidate, allocationID string) CropAllocation {
	m := c.Metrics()
	rev, _ := m.Revenue()
	return CropAllocation{
		AllocationID:      allocationID,
		FieldID:           c.Field.ID,
		FieldName:         c.Field.Name,
		CropID:            c.Crop.ID,
		CropName:          c.Crop.Name,
		Start:             c.Start,
		Completion:        c.Completion,
		GrowthDays:        c.GrowthDays,
		AreaUsed:          c.AreaUsed,
		Quantity:          c.Quantity,
		YieldFactor:       c.YieldFactor,
		InteractionImpact: m.InteractionImpact,
		TotalCost:         m.Cost(),
		ExpectedRevenue:   rev,
		Profit:            m.Profit(),
	}
}

// FieldSchedule is the ordered list of CropAllocations committed to one
// field.
type FieldSchedule struct {
	FieldID     string           `json:"field_id"`
	FieldName   string           `json:"field_name"`
	Allocations []CropAllocation `json:"allocations"`
}

// ValidateFallow checks the adjacency invariant: for any two consecutive
// allocations a, b (ordered by start date) on the same field,
// b.start >= a.completion + fallow_period_days.
func (fs FieldSchedule) ValidateFallow(fallowDays int) error {
	for i := 1; i < len(fs.Allocations); i++ {
		a, b := fs.Allocations[i-1], fs.Allocations[i]
		minStart := a.Completion.AddDays(fallowDays)
		if b.Start.Before(minStart) {
			return fmt.Errorf("field %q: allocation %s starts %s, before fallow-adjusted earliest start %s (after %s ends %s + %d fallow days)",
				fs.FieldID, b.AllocationID, b.Start, minStart, a.AllocationID, a.Completion, fallowDays)
		}
	}
	return nil
}

// TotalCost, TotalRevenue, TotalProfit sum the field's allocations.
func (fs FieldSchedule) TotalCost() float64 {
	t := 0.0
	for _, a := range fs.Allocations {
		t += a.TotalCost
	}
	return t
}

func (fs FieldSchedule) TotalRevenue() float64 {
	t := 0.0
	for _, a := range fs.Allocations {
		t += a.ExpectedRevenue
	}
	return t
}

func (fs FieldSchedule) TotalProfit() float64 {
	t := 0.0
	for _, a := range fs.Allocations {
		t += a.Profit
	}
	return t
}
