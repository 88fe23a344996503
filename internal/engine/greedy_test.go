package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleamind/cropplanner/models"
)

func noRules(t *testing.T) *RuleIndex {
	t.Helper()
	idx, err := BuildRuleIndex(nil)
	require.NoError(t, err)
	return idx
}

func TestSolveGreedy_PrefersHigherProfitRateAndRespectsArea(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 100, FallowPeriodDays: 0}
	fields := []models.Field{field}
	crop := models.Crop{ID: "c1"}
	crops := map[string]models.Crop{"c1": crop}

	high := candidate(t, &field, &crop, "2026-01-01", "2026-01-11", 80, 10)
	low := candidate(t, &field, &crop, "2026-01-01", "2026-01-11", 80, 1)

	chosen := SolveGreedy(fields, []models.AllocationCandidate{low, high}, crops, noRules(t))
	require.Len(t, chosen, 1)
	assert.Equal(t, high.Key(), chosen[0].Key())
}

func TestSolveGreedy_EnforcesRevenueCapInline(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 1000, FallowPeriodDays: 0}
	fields := []models.Field{field}
	cap := 100.0
	crop := models.Crop{ID: "c1", RevenueCapSeason: &cap}
	crops := map[string]models.Crop{"c1": crop}

	a := candidate(t, &field, &crop, "2026-01-01", "2026-01-11", 100, 10)
	a.Crop.RevenueCapSeason = &cap
	b := candidate(t, &field, &crop, "2026-02-01", "2026-02-11", 100, 10)
	b.Crop.RevenueCapSeason = &cap

	chosen := SolveGreedy(fields, []models.AllocationCandidate{a, b}, crops, noRules(t))
	// a's revenue (100*10 = 1000, capped per candidate at 100) uses up the
	// whole 100 cap once accepted, so b must be skipped.
	assert.Len(t, chosen, 1)
}

func TestSolveGreedy_SkipsFeasibilityViolations(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 50, FallowPeriodDays: 0}
	fields := []models.Field{field}
	crop := models.Crop{ID: "c1"}
	crops := map[string]models.Crop{"c1": crop}

	a := candidate(t, &field, &crop, "2026-01-01", "2026-01-11", 40, 10)
	b := candidate(t, &field, &crop, "2026-01-05", "2026-01-15", 40, 9)

	chosen := SolveGreedy(fields, []models.AllocationCandidate{a, b}, crops, noRules(t))
	require.Len(t, chosen, 1)
	assert.Equal(t, a.Key(), chosen[0].Key())
}

func TestSolveGreedy_RecomputesInteractionImpactAgainstPartialSchedule(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 100, FallowPeriodDays: 0}
	fields := []models.Field{field}
	solanaceae := models.Crop{ID: "c1", Groups: []string{"solanaceae"}}
	crops := map[string]models.Crop{"c1": solanaceae}

	rules, err := BuildRuleIndex([]models.InteractionRule{
		{ID: "r1", Type: models.RuleContinuousCultivation, SourceGroup: "solanaceae", TargetGroup: "solanaceae", ImpactRatio: 0.5, Directional: true},
	})
	require.NoError(t, err)

	first := candidate(t, &field, &solanaceae, "2026-01-01", "2026-02-01", 100, 10)
	second := candidate(t, &field, &solanaceae, "2026-02-01", "2026-03-01", 100, 10)

	chosen := SolveGreedy(fields, []models.AllocationCandidate{first, second}, crops, rules)
	require.Len(t, chosen, 2)
	byKey := map[string]models.AllocationCandidate{chosen[0].Key(): chosen[0], chosen[1].Key(): chosen[1]}
	assert.InDelta(t, 1.0, byKey[first.Key()].InteractionImpact, 1e-9)
	assert.InDelta(t, 0.5, byKey[second.Key()].InteractionImpact, 1e-9)
}
