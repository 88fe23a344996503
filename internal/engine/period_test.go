package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleamind/cropplanner/models"
)

func TestOptimizePeriod_ErrorsWithoutWeatherCoverage(t *testing.T) {
	profile := simpleProfile(t, 100)
	field := models.Field{ID: "f1"}
	weather := seriesOfConstantTemp(t, "2026-01-01", 5, 20)

	_, err := OptimizePeriod(field, profile, weather, date(t, "2026-03-01"), date(t, "2026-03-10"), 10, 1)
	assert.Error(t, err)
}

func TestOptimizePeriod_ReturnsBestAndTopK(t *testing.T) {
	revPerArea := 5.0
	profile := simpleProfile(t, 60) // 15 GDD/day at 20C => 4 days
	profile.Crop.RevenuePerArea = &revPerArea
	field := models.Field{ID: "f1", DailyFixedCost: 1}
	weather := seriesOfConstantTemp(t, "2026-03-01", 30, 20)

	result, err := OptimizePeriod(field, profile, weather, date(t, "2026-03-01"), date(t, "2026-03-20"), 10, 3)
	require.NoError(t, err)
	assert.False(t, result.Infeasible)
	require.NotNil(t, result.Best)
	assert.LessOrEqual(t, len(result.TopK), 3)
	assert.Equal(t, result.Best.Start.String(), result.TopK[0].Start.String())
}

func TestOptimizePeriod_InfeasibleWhenNoStartCompletesInWindow(t *testing.T) {
	profile := simpleProfile(t, 10000)
	field := models.Field{ID: "f1"}
	weather := seriesOfConstantTemp(t, "2026-03-01", 10, 20)

	result, err := OptimizePeriod(field, profile, weather, date(t, "2026-03-01"), date(t, "2026-03-10"), 10, 1)
	require.NoError(t, err)
	assert.True(t, result.Infeasible)
}
