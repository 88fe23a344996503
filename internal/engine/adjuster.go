package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

// AdjustInputs bundles everything the adjuster needs beyond the current
// plan and move list: the full problem instance and config, so it can
// regenerate candidates for `add` instructions and re-run a solver over the
// residual.
type AdjustInputs struct {
	Fields      []models.Field
	Profiles    []models.CropProfile
	Weather     models.WeatherSeries
	Rules       []models.InteractionRule
	WindowStart models.DateOnly
	WindowEnd   models.DateOnly
	Config      models.AlgorithmConfig
}

// Adjust validates each move instruction,
// applies accepted ones to produce a residual plan, re-optimizes that
// residual (existing untouched allocations held mandatory, new candidates
// for `add` folded into the pool), and re-asserts plan invariants on the
// result. A post-optimization invariant failure on an `add` demotes it to
// rejected rather than failing the whole run.
func Adjust(ctx context.Context, current models.Plan, moves []models.MoveInstruction, in AdjustInputs, pool []models.AllocationCandidate, rules *RuleIndex, stream *randstream.Stream, deadline time.Time) (models.AdjustResult, error) {
	fieldsByID := make(map[string]models.Field, len(in.Fields))
	for _, f := range in.Fields {
		fieldsByID[f.ID] = f
	}
	profilesByCrop := make(map[string]models.CropProfile, len(in.Profiles))
	for _, p := range in.Profiles {
		profilesByCrop[p.Crop.ID] = p
	}

	var applied []models.MoveInstruction
	var rejected []models.RejectedMove

	removedIDs := make(map[string]bool)
	var addRequests []models.MoveInstruction

	for _, m := range moves {
		if err := m.Validate(); err != nil {
			rejected = append(rejected, models.RejectedMove{Instruction: m, Reason: err.Error()})
			continue
		}
		switch m.Action {
		case models.MoveActionRemove, models.MoveActionMove:
			if _, _, ok := current.FindAllocation(m.AllocationID); !ok {
				rejected = append(rejected, models.RejectedMove{Instruction: m, Reason: "allocation_id not found"})
				continue
			}
			removedIDs[m.AllocationID] = true
			applied = append(applied, m)
		case models.MoveActionAdd:
			if _, ok := fieldsByID[*m.TargetFieldID]; !ok {
				rejected = append(rejected, models.RejectedMove{Instruction: m, Reason: "target_field_id not found"})
				continue
			}
			if _, ok := profilesByCrop[*m.TargetCropID]; !ok {
				rejected = append(rejected, models.RejectedMove{Instruction: m, Reason: "target_crop_id not found"})
				continue
			}
			if m.TargetStart.Before(in.WindowStart) || m.TargetStart.After(in.WindowEnd) {
				rejected = append(rejected, models.RejectedMove{Instruction: m, Reason: "target_start_date outside planning window"})
				continue
			}
			addRequests = append(addRequests, m)
			applied = append(applied, m)
		}
	}

	// Residual: every allocation from the current plan not removed/moved,
	// converted back into a mandatory candidate so the solver cannot drop it.
	var mandatory []models.AllocationCandidate
	for _, a := range current.AllAllocations() {
		if removedIDs[a.AllocationID] {
			continue
		}
		field := fieldsByID[a.FieldID]
		profile := profilesByCrop[a.CropID]
		mandatory = append(mandatory, models.AllocationCandidate{
			Field:             &field,
			Crop:              &profile.Crop,
			Start:             a.Start,
			Completion:        a.Completion,
			GrowthDays:        a.GrowthDays,
			AreaUsed:          a.AreaUsed,
			Quantity:          a.Quantity,
			YieldFactor:       a.YieldFactor,
			InteractionImpact: a.InteractionImpact,
		})
	}

	// Synthesize candidates for each accepted `add` by running the period
	// optimizer over [requested start date, window end]; take its single
	// top-scoring candidate, whose start may be later than the request.
	addCandidatesByMove := make(map[string]models.AllocationCandidate)
	for _, m := range addRequests {
		field := fieldsByID[*m.TargetFieldID]
		profile := profilesByCrop[*m.TargetCropID]
		area := field.AreaSqMeters
		if m.TargetArea != nil {
			area = *m.TargetArea
		}
		result, err := OptimizePeriod(field, profile, in.Weather, *m.TargetStart, in.WindowEnd, area, 1)
		if err != nil || result.Infeasible || len(result.TopK) == 0 {
			rejected = append(rejected, models.RejectedMove{Instruction: m, Reason: "infeasible at requested start date"})
			continue
		}
		pc := result.TopK[0]
		addCandidatesByMove[m.AllocationID] = models.AllocationCandidate{
			Field:             &field,
			Crop:              &profile.Crop,
			Start:             pc.Start,
			Completion:        pc.Completion,
			GrowthDays:        pc.GrowthDays,
			AreaUsed:          area,
			Quantity:          profile.Crop.CapacityUnits(area),
			YieldFactor:       pc.YieldFactor,
			InteractionImpact: 1.0,
		}
	}

	augmentedPool := make([]models.AllocationCandidate, 0, len(pool)+len(mandatory)+len(addCandidatesByMove))
	augmentedPool = append(augmentedPool, pool...)
	augmentedPool = append(augmentedPool, mandatory...)
	for _, c := range addCandidatesByMove {
		augmentedPool = append(augmentedPool, c)
	}

	crops := make(map[string]models.Crop, len(in.Profiles))
	for _, p := range in.Profiles {
		crops[p.Crop.ID] = p.Crop
	}

	chosen, algorithmTag, err := reoptimizeResidual(ctx, in, mandatory, augmentedPool, crops, rules, stream, deadline)
	if err != nil {
		return models.AdjustResult{}, err
	}
	chosen = RecomputeChosenInteractions(chosen, rules)

	// Demote any `add` whose synthesized candidate did not survive
	// re-optimization to a rejected move.
	chosenKeys := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		chosenKeys[c.Key()] = true
	}
	var finalApplied []models.MoveInstruction
	for _, m := range applied {
		if m.Action != models.MoveActionAdd {
			finalApplied = append(finalApplied, m)
			continue
		}
		cand, ok := addCandidatesByMove[m.AllocationID]
		if !ok || !chosenKeys[cand.Key()] {
			rejected = append(rejected, models.RejectedMove{Instruction: m, Reason: "infeasible after optimization"})
			continue
		}
		finalApplied = append(finalApplied, m)
	}

	plan, err := Assemble(chosen, in.Fields, algorithmTag, current.RejectedCandidatesSummary, in.WindowStart, in.WindowEnd, false)
	if err != nil {
		return models.AdjustResult{}, fmt.Errorf("adjust: %w", err)
	}

	if len(finalApplied) == 0 {
		return models.AdjustResult{Success: false, AppliedMoves: nil, RejectedMoves: rejected, Plan: current}, nil
	}

	return models.AdjustResult{Success: true, AppliedMoves: finalApplied, RejectedMoves: rejected, Plan: plan}, nil
}

// reoptimizeResidual re-optimizes the candidate pool while treating
// `mandatory` (the untouched allocations carried over from the current
// plan) as non-negotiable: they are force-included into the returned set
// rather than handed to the solver as just another candidate, and any
// other candidate that would conflict with one of them on its field (area
// overrun or a fallow-violating overlap) is filtered out of the pool
// before the solver ever sees it. This is what keeps adjust(plan, []) from
// silently dropping allocations the caller never asked to touch.
func reoptimizeResidual(ctx context.Context, in AdjustInputs, mandatory, pool []models.AllocationCandidate, crops map[string]models.Crop, rules *RuleIndex, stream *randstream.Stream, deadline time.Time) ([]models.AllocationCandidate, string, error) {
	mandatoryKeys := make(map[string]bool, len(mandatory))
	mandatoryByField := make(map[string][]models.AllocationCandidate)
	for _, m := range mandatory {
		mandatoryKeys[m.Key()] = true
		mandatoryByField[m.Field.ID] = append(mandatoryByField[m.Field.ID], m)
	}

	feasiblePool := make([]models.AllocationCandidate, 0, len(pool))
	for _, c := range pool {
		if mandatoryKeys[c.Key()] {
			continue
		}
		if !Feasible(*c.Field, mandatoryByField[c.Field.ID], c) {
			continue
		}
		feasiblePool = append(feasiblePool, c)
	}

	var solved []models.AllocationCandidate
	var tag string
	switch in.Config.Algorithm {
	case models.AlgorithmDP:
		byField := make(map[string][]models.AllocationCandidate)
		for _, c := range feasiblePool {
			byField[c.Field.ID] = append(byField[c.Field.ID], c)
		}
		var err error
		solved, err = SolveDP(ctx, in.Fields, byField, crops, in.Config)
		if err != nil {
			return nil, "", err
		}
		tag = "adjust+dp"
	default:
		solved = SolveGreedy(in.Fields, feasiblePool, crops, rules)
		tag = "adjust+greedy"
		if in.Config.EnableALNS {
			solved = RunALNS(ctx, solved, in.Fields, feasiblePool, in.Config, stream, deadline)
		} else if in.Config.EnableLocalSearch {
			solved = HillClimb(ctx, solved, in.Fields, feasiblePool, in.Config, stream, deadline)
		}
	}

	chosen := make([]models.AllocationCandidate, 0, len(mandatory)+len(solved))
	chosen = append(chosen, mandatory...)
	chosen = append(chosen, solved...)
	return chosen, tag, nil
}
