package engine

import (
	"sort"

	"github.com/oleamind/cropplanner/models"
)

// fieldOccupancy tracks the allocations already accepted onto one field
// during greedy construction, enough to answer feasibility checks without
// re-deriving a FieldSchedule on every insertion attempt.
type fieldOccupancy struct {
	accepted []models.AllocationCandidate
}

func (o *fieldOccupancy) fits(field models.Field, cand models.AllocationCandidate) bool {
	return Feasible(field, o.accepted, cand)
}

// precedingGroups returns the crop groups of whichever already-accepted
// allocation on the field ends latest while still finishing at or before
// beforeStart, or nil if there is none.
func precedingGroups(accepted []models.AllocationCandidate, beforeStart models.DateOnly) []string {
	var best *models.AllocationCandidate
	for i := range accepted {
		a := &accepted[i]
		if a.Completion.After(beforeStart) {
			continue
		}
		if best == nil || a.Completion.After(best.Completion) {
			best = a
		}
	}
	if best == nil {
		return nil
	}
	return best.Crop.Groups
}

// SolveGreedy sorts every candidate by
// profit_rate descending, then walks the list once inserting each candidate
// onto its field if doing so keeps the field feasible (no fallow-violating
// overlap, no area overrun), skipping it otherwise. Ties break by Key() for
// determinism. Before the acceptance test, each candidate's
// interaction_impact is recomputed against whatever has already been
// accepted immediately before it on that field, so the temporal penalty of
// the partial schedule built so far is always reflected in the profit
// check, not just the static field-rule impact computed at generation
// time. A candidate is skipped if the recomputed profit is not positive.
// Revenue caps are enforced inline: a candidate is skipped if accepting it
// would push its crop over the season cap.
func SolveGreedy(fields []models.Field, candidates []models.AllocationCandidate, crops map[string]models.Crop, rules *RuleIndex) []models.AllocationCandidate {
	fieldsByID := make(map[string]models.Field, len(fields))
	for _, f := range fields {
		fieldsByID[f.ID] = f
	}

	sorted := make([]models.AllocationCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].ProfitRate(), sorted[j].ProfitRate()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].Key() < sorted[j].Key()
	})

	occupancy := make(map[string]*fieldOccupancy)
	cropRevenue := make(map[string]float64)

	var chosen []models.AllocationCandidate
	for _, cand := range sorted {
		field, ok := fieldsByID[cand.Field.ID]
		if !ok {
			continue
		}
		occ, ok := occupancy[field.ID]
		if !ok {
			occ = &fieldOccupancy{}
			occupancy[field.ID] = occ
		}
		if !occ.fits(field, cand) {
			continue
		}
		prevGroups := precedingGroups(occ.accepted, cand.Start)
		cand.InteractionImpact = rules.InteractionImpact(field, *cand.Crop, prevGroups)
		if cand.Profit() <= 0 {
			continue
		}
		if crop, ok := crops[cand.Crop.ID]; ok && crop.RevenueCapSeason != nil {
			if cropRevenue[cand.Crop.ID]+cand.Revenue() > *crop.RevenueCapSeason+1e-9 {
				continue
			}
		}
		occ.accepted = append(occ.accepted, cand)
		cropRevenue[cand.Crop.ID] += cand.Revenue()
		chosen = append(chosen, cand)
	}
	return chosen
}
