package engine

import "github.com/oleamind/cropplanner/models"

// datesOverlap reports whether two [start, completion) intervals share any
// day, with Completion treated as exclusive throughout this package.
func datesOverlap(aStart, aEnd, bStart, bEnd models.DateOnly) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Feasible reports whether cand can be added to field alongside existing,
// honoring both the fallow-adjacency invariant and the area budget for
// allocations that share an overlapping window. existing must contain only
// allocations already placed on the same field; cand itself must not be
// present in it.
func Feasible(field models.Field, existing []models.AllocationCandidate, cand models.AllocationCandidate) bool {
	var areaAtOverlap float64
	for _, a := range existing {
		if cand.OverlapsWithFallow(a.Start, a.Completion, field.FallowPeriodDays) {
			if datesOverlap(cand.Start, cand.Completion, a.Start, a.Completion) {
				areaAtOverlap += a.AreaUsed
				continue
			}
			return false
		}
	}
	return areaAtOverlap+cand.AreaUsed <= field.AreaSqMeters+1e-9
}
