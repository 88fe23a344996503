package engine

import "github.com/oleamind/cropplanner/models"

// Score returns the scalar value solvers compare under the configured
// Objective. This is the single formula-evaluation point every solver in
// this package calls through.
func Score(metrics models.OptimizationMetrics, objective models.Objective) float64 {
	switch objective {
	case models.ObjectiveMinimizeCost:
		return -metrics.Cost()
	case models.ObjectiveMaximizeRevenue:
		rev, _ := metrics.Revenue()
		return rev
	case models.ObjectiveMaximizeProfit:
		fallthrough
	default:
		return metrics.Profit()
	}
}

// CandidateScore scores an AllocationCandidate under the configured
// objective.
func CandidateScore(c models.AllocationCandidate, objective models.Objective) float64 {
	return Score(c.Metrics(), objective)
}

// SelectBest picks the best candidate: argmax under
// MAXIMIZE_PROFIT/MAXIMIZE_REVENUE, argmin-of-negated-cost under
// MINIMIZE_COST (modeled uniformly as "highest Score wins" since
// MinimizeCost's Score is already negated cost). Ties break by lexically
// smaller candidate Key() for determinism. Returns false if candidates is
// empty.
func SelectBest(candidates []models.AllocationCandidate, objective models.Objective) (models.AllocationCandidate, bool) {
	if len(candidates) == 0 {
		return models.AllocationCandidate{}, false
	}
	best := candidates[0]
	bestScore := CandidateScore(best, objective)
	for _, c := range candidates[1:] {
		score := CandidateScore(c, objective)
		if score > bestScore || (score == bestScore && c.Key() < best.Key()) {
			best = c
			bestScore = score
		}
	}
	return best, true
}
