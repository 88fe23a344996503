package engine

import (
	"context"
	"math"
	"time"

	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

// destroyRepair performs one ALNS iteration's destroy phase (remove a
// random fraction of the current solution) followed by a repair phase
// (up to three CropInsertOperator attempts per removed allocation to
// refill the freed capacity).
func destroyRepair(sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, removalRate float64, stream *randstream.Stream) []models.AllocationCandidate {
	if len(sol) == 0 {
		return sol
	}
	removeCount := int(math.Ceil(float64(len(sol)) * removalRate))
	if removeCount < 1 {
		removeCount = 1
	}
	if removeCount > len(sol) {
		removeCount = len(sol)
	}

	order := make([]int, len(sol))
	for i := range order {
		order[i] = i
	}
	stream.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	removeSet := make(map[int]bool, removeCount)
	for _, i := range order[:removeCount] {
		removeSet[i] = true
	}

	remaining := make([]models.AllocationCandidate, 0, len(sol)-removeCount)
	for i, c := range sol {
		if !removeSet[i] {
			remaining = append(remaining, c)
		}
	}

	repaired := remaining
	for attempt := 0; attempt < removeCount*3; attempt++ {
		next, ok := CropInsertOperator(repaired, fields, idx, stream, 10)
		if ok {
			repaired = next
		}
	}
	return repaired
}

// adaptiveWeights holds the roulette-wheel operator weights, updated after
// every iteration: +1.0 when that operator's move improved the incumbent,
// otherwise multiplied by 0.98 with a floor of 0.01.
type adaptiveWeights struct {
	kinds   []operatorKind
	weights []float64
}

func newAdaptiveWeights(cfg models.AlgorithmConfig) *adaptiveWeights {
	w := &adaptiveWeights{kinds: allOperatorKinds}
	w.weights = make([]float64, len(w.kinds))
	for i, k := range w.kinds {
		if v, ok := cfg.OperatorWeights[string(k)]; ok && v > 0 {
			w.weights[i] = v
		} else {
			w.weights[i] = 1.0
		}
	}
	return w
}

func (w *adaptiveWeights) pick(stream *randstream.Stream) (operatorKind, int) {
	i := stream.WeightedChoice(w.weights)
	return w.kinds[i], i
}

func (w *adaptiveWeights) reward(i int, improved bool) {
	if improved {
		w.weights[i] += 1.0
	} else {
		w.weights[i] *= 0.98
		if w.weights[i] < 0.01 {
			w.weights[i] = 0.01
		}
	}
}

// RunALNS runs adaptive large neighborhood search with
// simulated-annealing acceptance. Each iteration destroys a
// random fraction of the incumbent, repairs it, then optionally refines the
// repaired solution with one operator drawn from the adaptive weights.
// The move is accepted outright if it improves on the current solution, or
// probabilistically per the Metropolis criterion exp(delta/temperature)
// otherwise; temperature cools geometrically by sa_cooling_rate each
// iteration. The best solution seen is tracked and returned regardless of
// where the walk ends up.
func RunALNS(ctx context.Context, initial []models.AllocationCandidate, fields []models.Field, pool []models.AllocationCandidate, cfg models.AlgorithmConfig, stream *randstream.Stream, deadline time.Time) []models.AllocationCandidate {
	if !cfg.EnableALNS || len(initial) == 0 {
		return initial
	}
	idx := BuildPoolIndex(pool)
	weights := newAdaptiveWeights(cfg)

	current := make([]models.AllocationCandidate, len(initial))
	copy(current, initial)
	currentScore := totalScore(current, cfg.Objective)

	best := make([]models.AllocationCandidate, len(current))
	copy(best, current)
	bestScore := currentScore

	temperature := cfg.SAInitialTemperature
	if temperature <= 0 {
		temperature = 1
	}
	cooling := cfg.SACoolingRate
	if cooling <= 0 || cooling >= 1 {
		cooling = 0.99
	}
	removalRate := cfg.ALNSRemovalRate
	if removalRate <= 0 || removalRate >= 1 {
		removalRate = 0.3
	}

	iterations := cfg.ALNSIterations
	if iterations <= 0 {
		iterations = 200
	}

	for iter := 0; iter < iterations; iter++ {
		if ctx.Err() != nil || (!deadline.IsZero() && time.Now().After(deadline)) {
			break
		}

		candidate := destroyRepair(current, fields, idx, removalRate, stream)
		kind, weightIdx := weights.pick(stream)
		if len(candidate) > 0 {
			i := stream.Intn(len(candidate))
			refined, ok := applyOperator(kind, candidate, fields, idx, i, cfg, cfg.Objective, stream)
			if ok {
				candidate = refined
			}
		}

		candidateScore := totalScore(candidate, cfg.Objective)
		delta := candidateScore - currentScore
		accept := delta > 0
		if !accept && temperature > 0 {
			accept = stream.Float64() < math.Exp(delta/temperature)
		}

		weights.reward(weightIdx, delta > 0)

		if accept {
			current, currentScore = candidate, candidateScore
			if currentScore > bestScore {
				best = make([]models.AllocationCandidate, len(current))
				copy(best, current)
				bestScore = currentScore
			}
		}
		temperature *= cooling
	}

	return best
}
