package engine

import (
	"context"
	"sort"

	"github.com/oleamind/cropplanner/models"
)

// SolveFieldDP implements the per-field weighted-interval-scheduling
// recursion:
//
//	p(i)    = largest index j < i such that
//	          candidate[j].completion + fallow <= candidate[i].start
//	opt(i)  = max(opt(i-1), candidate[i].profit + opt(p(i)))
//
// candidates must all belong to the same field; they are sorted internally
// by completion_date (ties by start_date, then lexically by Key() for
// determinism). Returns the backtracked optimal subset and its total
// profit. This is optimal for a single field, the per-field consistency
// property the whole-plan solver relies on.
func SolveFieldDP(field models.Field, candidates []models.AllocationCandidate) ([]models.AllocationCandidate, float64) {
	if len(candidates) == 0 {
		return nil, 0
	}

	sorted := make([]models.AllocationCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Completion.Before(sorted[j].Completion) && !sorted[j].Completion.Before(sorted[i].Completion) {
			if !sorted[i].Start.Before(sorted[j].Start) && !sorted[j].Start.Before(sorted[i].Start) {
				return sorted[i].Key() < sorted[j].Key()
			}
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].Completion.Before(sorted[j].Completion)
	})

	n := len(sorted)
	compatible := func(j, i int) bool {
		return sorted[j].Completion.AddDays(field.FallowPeriodDays).DaysUntil(sorted[i].Start) >= 0
	}
	predecessorCount := func(i int) int {
		// Compatibility with i is monotonically non-increasing in j
		// (completions ascend with j), so the compatible prefix [0, m)
		// can be found by binary search.
		return sort.Search(i, func(j int) bool { return !compatible(j, i) })
	}

	opt := make([]float64, n+1)
	include := make([]bool, n+1)
	predAt := make([]int, n+1)

	for i := 0; i < n; i++ {
		m := predecessorCount(i)
		withI := sorted[i].Profit() + opt[m]
		if withI > opt[i] {
			opt[i+1] = withI
			include[i+1] = true
			predAt[i+1] = m
		} else {
			opt[i+1] = opt[i]
			include[i+1] = false
		}
	}

	var chosen []models.AllocationCandidate
	for k := n; k > 0; {
		if include[k] {
			chosen = append(chosen, sorted[k-1])
			k = predAt[k]
		} else {
			k--
		}
	}
	// Reverse into chronological order.
	for i, j := 0, len(chosen)-1; i < j; i, j = i+1, j-1 {
		chosen[i], chosen[j] = chosen[j], chosen[i]
	}
	return chosen, opt[n]
}

// SolveDP implements the whole-plan DP path: solve each field
// independently (in parallel over a worker pool), then run the revenue-cap
// reconciliation pass across the union of chosen allocations. The result
// is optimal per field but only heuristic globally when caps bind.
func SolveDP(ctx context.Context, fields []models.Field, candidatesByField map[string][]models.AllocationCandidate, crops map[string]models.Crop, cfg models.AlgorithmConfig) ([]models.AllocationCandidate, error) {
	results := make([][]models.AllocationCandidate, len(fields))
	pool := NewWorkerPool(cfg.WorkerCount)
	err := pool.Run(ctx, len(fields), func(_ context.Context, i int) error {
		field := fields[i]
		chosen, _ := SolveFieldDP(field, candidatesByField[field.ID])
		results[i] = chosen
		return nil
	})
	if err != nil {
		return nil, err
	}

	var all []models.AllocationCandidate
	for _, r := range results {
		all = append(all, r...)
	}
	return ReconcileRevenueCaps(all, crops), nil
}

// ReconcileRevenueCaps runs a post-hoc global pass: for
// each crop with a cap, walk its allocations in decreasing profit order,
// keep until cumulative revenue would exceed the cap, then trim the next
// allocation's revenue to fit (dropping it entirely if that makes it
// unprofitable).
func ReconcileRevenueCaps(candidates []models.AllocationCandidate, crops map[string]models.Crop) []models.AllocationCandidate {
	byCrop := make(map[string][]int)
	for i, c := range candidates {
		byCrop[c.Crop.ID] = append(byCrop[c.Crop.ID], i)
	}

	keep := make([]bool, len(candidates))
	trimmedRevenue := make([]float64, len(candidates))
	for i := range candidates {
		keep[i] = true
		trimmedRevenue[i] = candidates[i].Revenue()
	}

	for cropID, idxs := range byCrop {
		crop, ok := crops[cropID]
		if !ok || crop.RevenueCapSeason == nil {
			continue
		}
		cap := *crop.RevenueCapSeason

		sort.SliceStable(idxs, func(a, b int) bool {
			return candidates[idxs[a]].Profit() > candidates[idxs[b]].Profit()
		})

		cumulative := 0.0
		for _, idx := range idxs {
			rev := candidates[idx].Revenue()
			if cumulative+rev <= cap {
				cumulative += rev
				continue
			}
			room := cap - cumulative
			if room <= 0 {
				keep[idx] = false
				continue
			}
			trimmedCost := candidates[idx].Cost()
			if room-trimmedCost <= 0 {
				keep[idx] = false
				continue
			}
			trimmedRevenue[idx] = room
			cumulative = cap
		}
	}

	var out []models.AllocationCandidate
	for i, c := range candidates {
		if !keep[i] {
			continue
		}
		if trimmedRevenue[i] != c.Revenue() {
			// Re-derive a candidate whose revenue-per-area yields the
			// trimmed revenue, by scaling interaction_impact (the only
			// multiplicative knob left once area/yield are fixed); this
			// keeps Metrics() internally consistent for the trimmed
			// allocation.
			orig := c.Revenue()
			if orig > 0 {
				c.InteractionImpact *= trimmedRevenue[i] / orig
			}
		}
		out = append(out, c)
	}
	return out
}
