package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

func TestHillClimb_DisabledReturnsInputUnchanged(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 1000}
	crop := models.Crop{ID: "c1"}
	sol := []models.AllocationCandidate{candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 1)}

	cfg := models.DefaultAlgorithmConfig()
	cfg.EnableLocalSearch = false
	stream := randstream.New(1)

	out := HillClimb(context.Background(), sol, []models.Field{field}, sol, cfg, stream, time.Time{})
	assert.Equal(t, sol[0].Key(), out[0].Key())
}

func TestHillClimb_EmptySolutionIsNoop(t *testing.T) {
	cfg := models.DefaultAlgorithmConfig()
	stream := randstream.New(1)
	out := HillClimb(context.Background(), nil, nil, nil, cfg, stream, time.Time{})
	assert.Empty(t, out)
}

func TestHillClimb_ImprovesWhenBetterCandidateExists(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 1000}
	crop := models.Crop{ID: "c1"}
	cur := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 1)
	better := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 50)

	sol := []models.AllocationCandidate{cur}
	pool := []models.AllocationCandidate{cur, better}

	cfg := models.DefaultAlgorithmConfig()
	cfg.EnableLocalSearch = true
	stream := randstream.New(1)

	out := HillClimb(context.Background(), sol, []models.Field{field}, pool, cfg, stream, time.Time{})
	require.NotEmpty(t, out)
	assert.GreaterOrEqual(t, totalScore(out, cfg.Objective), totalScore(sol, cfg.Objective))
}

func TestTotalScore_SumsAcrossSolution(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 1000}
	crop := models.Crop{ID: "c1"}
	a := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 1)
	b := candidate(t, &field, &crop, "2026-03-01", "2026-04-01", 10, 1)

	total := totalScore([]models.AllocationCandidate{a, b}, models.ObjectiveMaximizeProfit)
	assert.InDelta(t, a.Profit()+b.Profit(), total, 1e-9)
}
