package engine

import (
	"context"
	"time"

	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

// operatorKind names the neighborhood moves the local search chooses between,
// also used as the key into AlgorithmConfig.OperatorWeights for ALNS's
// adaptive weighting.
type operatorKind string

const (
	opMove           operatorKind = "move"
	opFieldSwap      operatorKind = "field_swap"
	opReplace        operatorKind = "replace"
	opCropChange     operatorKind = "crop_change"
	opCropInsert     operatorKind = "crop_insert"
	opPeriodShift    operatorKind = "period_shift"
	opQuantityAdjust operatorKind = "quantity_adjust"
)

var allOperatorKinds = []operatorKind{
	opMove, opFieldSwap, opReplace, opCropChange, opCropInsert, opPeriodShift, opQuantityAdjust,
}

// applyOperator dispatches to one of the neighborhood operators, uniformly
// returning (candidate solution, accepted).
func applyOperator(kind operatorKind, sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, i int, cfg models.AlgorithmConfig, objective models.Objective, stream *randstream.Stream) ([]models.AllocationCandidate, bool) {
	switch kind {
	case opMove:
		return MoveOperator(sol, fields, idx, i, stream)
	case opFieldSwap:
		if len(sol) < 2 {
			return nil, false
		}
		j := stream.Intn(len(sol))
		if j == i {
			j = (j + 1) % len(sol)
		}
		return FieldSwapOperator(sol, fields, i, j)
	case opReplace:
		return ReplaceOperator(sol, fields, idx, i, objective)
	case opCropChange:
		return CropChangeOperator(sol, fields, idx, i, stream)
	case opCropInsert:
		return CropInsertOperator(sol, fields, idx, stream, 20)
	case opPeriodShift:
		shift := cfg.PeriodShiftDays
		if shift <= 0 {
			shift = 7
		}
		return PeriodShiftOperator(sol, fields, idx, i, shift)
	case opQuantityAdjust:
		return QuantityAdjustOperator(sol, fields, idx, i, objective)
	default:
		return nil, false
	}
}

func totalScore(sol []models.AllocationCandidate, objective models.Objective) float64 {
	total := 0.0
	for _, c := range sol {
		total += CandidateScore(c, objective)
	}
	return total
}

// HillClimb repeatedly tries every operator against every
// current allocation, keep the first improving move found (first-
// improvement, scanned in deterministic operator/index order for
// reproducibility), and stop when a full pass yields no improvement or
// local_search_max_iterations/deadline is reached.
func HillClimb(ctx context.Context, sol []models.AllocationCandidate, fields []models.Field, pool []models.AllocationCandidate, cfg models.AlgorithmConfig, stream *randstream.Stream, deadline time.Time) []models.AllocationCandidate {
	if !cfg.EnableLocalSearch || len(sol) == 0 {
		return sol
	}
	idx := BuildPoolIndex(pool)
	current := make([]models.AllocationCandidate, len(sol))
	copy(current, sol)
	currentScore := totalScore(current, cfg.Objective)

	maxIter := cfg.LocalSearchMaxIterations
	if maxIter <= 0 {
		maxIter = 1000
	}

	for iter := 0; iter < maxIter; iter++ {
		if ctx.Err() != nil || (!deadline.IsZero() && time.Now().After(deadline)) {
			break
		}
		improved := false
		for i := 0; i < len(current); i++ {
			for _, kind := range allOperatorKinds {
				candidate, ok := applyOperator(kind, current, fields, idx, i, cfg, cfg.Objective, stream)
				if !ok {
					continue
				}
				score := totalScore(candidate, cfg.Objective)
				if score > currentScore+1e-9 {
					current, currentScore = candidate, score
					improved = true
					break
				}
			}
			if improved {
				break
			}
		}
		if !improved {
			break
		}
	}
	return current
}
