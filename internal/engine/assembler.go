package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/oleamind/cropplanner/internal/planerr"
	"github.com/oleamind/cropplanner/models"
)

// Assemble groups accepted candidates by field, sorts each
// field's allocations by start date, assigns stable allocation ids, verifies
// the fallow-period invariant between every adjacent pair, computes
// per-field and global totals, and emits a Plan tagged with a fresh
// optimization_id and the given algorithm label. Returns InvariantViolation
// if any check fails, since that indicates a solver bug rather than a
// recoverable input problem.
func Assemble(chosen []models.AllocationCandidate, fields []models.Field, algorithmUsed string, rejected []models.RejectedCandidateSummary, windowStart, windowEnd models.DateOnly, timedOut bool) (models.Plan, error) {
	fieldsByID := make(map[string]models.Field, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		fieldsByID[f.ID] = f
		order = append(order, f.ID)
	}

	byField := make(map[string][]models.CropAllocation)
	for _, c := range chosen {
		alloc := models.FromCandidate(c, uuid.NewString())
		byField[c.Field.ID] = append(byField[c.Field.ID], alloc)
	}

	plan := models.Plan{
		OptimizationID:            uuid.NewString(),
		AlgorithmUsed:             algorithmUsed,
		RejectedCandidatesSummary: rejected,
		TimedOut:                  timedOut,
	}

	for _, fieldID := range order {
		allocs := byField[fieldID]
		if len(allocs) == 0 {
			continue
		}
		sort.SliceStable(allocs, func(i, j int) bool {
			return allocs[i].Start.Before(allocs[j].Start)
		})
		field := fieldsByID[fieldID]
		fs := models.FieldSchedule{FieldID: field.ID, FieldName: field.Name, Allocations: allocs}
		if err := fs.ValidateFallow(field.FallowPeriodDays); err != nil {
			return models.Plan{}, planerr.InvariantViolation(fmt.Sprintf("assembler: %v", err))
		}
		plan.FieldSchedules = append(plan.FieldSchedules, fs)
	}

	plan.Recompute()

	cropsSeen := make(map[string]models.Crop)
	for _, c := range chosen {
		cropsSeen[c.Crop.ID] = *c.Crop
	}
	if err := plan.ValidateInvariants(fieldsByID, cropsSeen, windowStart, windowEnd); err != nil {
		return models.Plan{}, planerr.InvariantViolation(fmt.Sprintf("assembler: %v", err))
	}

	return plan, nil
}
