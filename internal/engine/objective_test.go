package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oleamind/cropplanner/models"
)

func TestScore_MinimizeCostIsNegatedCost(t *testing.T) {
	metrics := models.OptimizationMetrics{GrowthDays: 10, DailyFixedCost: 4}
	assert.Equal(t, -40.0, Score(metrics, models.ObjectiveMinimizeCost))
}

func TestScore_MaximizeRevenueUsesRevenueComponent(t *testing.T) {
	revPerArea := 10.0
	metrics := models.OptimizationMetrics{AreaUsed: 10, RevenuePerArea: &revPerArea, YieldFactor: 1, GrowthDays: 10, DailyFixedCost: 6}
	assert.Equal(t, 100.0, Score(metrics, models.ObjectiveMaximizeRevenue))
}

func TestScore_MaximizeProfitIsDefault(t *testing.T) {
	revPerArea := 10.0
	metrics := models.OptimizationMetrics{AreaUsed: 10, RevenuePerArea: &revPerArea, YieldFactor: 1, GrowthDays: 10, DailyFixedCost: 6}
	assert.Equal(t, 40.0, Score(metrics, models.ObjectiveMaximizeProfit))
	assert.Equal(t, 40.0, Score(metrics, models.Objective("")))
}

func TestSelectBest_PicksHighestScoreBreakingTiesByKey(t *testing.T) {
	field := models.Field{ID: "f1"}
	crop := models.Crop{ID: "c1"}
	low := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 1)
	high := candidate(t, &field, &crop, "2026-03-01", "2026-04-01", 10, 50)

	best, ok := SelectBest([]models.AllocationCandidate{low, high}, models.ObjectiveMaximizeProfit)
	assert.True(t, ok)
	assert.Equal(t, high.Key(), best.Key())
}

func TestSelectBest_EmptyReturnsFalse(t *testing.T) {
	_, ok := SelectBest(nil, models.ObjectiveMaximizeProfit)
	assert.False(t, ok)
}
