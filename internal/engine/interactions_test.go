package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleamind/cropplanner/models"
)

func TestBuildRuleIndex_RejectsUnknownRuleType(t *testing.T) {
	_, err := BuildRuleIndex([]models.InteractionRule{{ID: "r1", Type: "bogus", SourceGroup: "a", TargetGroup: "b", ImpactRatio: 1}})
	assert.Error(t, err)
}

func TestRuleIndex_InteractionImpact_CompoundsMultiplicatively(t *testing.T) {
	rules := []models.InteractionRule{
		{ID: "r1", Type: models.RuleSoilCompatibility, SourceGroup: "acidic_soil", TargetGroup: "nightshade", ImpactRatio: 1.1},
		{ID: "r2", Type: models.RuleCompanionPlanting, SourceGroup: "acidic_soil", TargetGroup: "nightshade", ImpactRatio: 1.2},
	}
	idx, err := BuildRuleIndex(rules)
	require.NoError(t, err)

	field := models.Field{Groups: []string{"acidic_soil"}}
	crop := models.Crop{Groups: []string{"nightshade"}}

	impact := idx.InteractionImpact(field, crop, nil)
	assert.InDelta(t, 1.1*1.2, impact, 1e-9)
}

func TestRuleIndex_InteractionImpact_TemporalRuleNeedsPreviousCrop(t *testing.T) {
	rules := []models.InteractionRule{
		{ID: "r1", Type: models.RuleAllelopathy, SourceGroup: "brassica", TargetGroup: "nightshade", ImpactRatio: 0.7},
	}
	idx, err := BuildRuleIndex(rules)
	require.NoError(t, err)

	field := models.Field{}
	crop := models.Crop{Groups: []string{"nightshade"}}

	assert.Equal(t, 1.0, idx.InteractionImpact(field, crop, nil))
	assert.InDelta(t, 0.7, idx.InteractionImpact(field, crop, []string{"brassica"}), 1e-9)
}

func TestRuleIndex_InteractionImpact_NonDirectionalMatchesBothWays(t *testing.T) {
	rules := []models.InteractionRule{
		{ID: "r1", Type: models.RuleCompanionPlanting, SourceGroup: "a", TargetGroup: "b", ImpactRatio: 1.5, Directional: false},
	}
	idx, err := BuildRuleIndex(rules)
	require.NoError(t, err)

	field := models.Field{Groups: []string{"b"}}
	crop := models.Crop{Groups: []string{"a"}}
	assert.InDelta(t, 1.5, idx.InteractionImpact(field, crop, nil), 1e-9)
}

func TestPreviousCropGroups_FindsNearestPriorAllocation(t *testing.T) {
	schedule := models.FieldSchedule{Allocations: []models.CropAllocation{
		{CropID: "c1", Completion: date(t, "2026-01-10")},
		{CropID: "c2", Completion: date(t, "2026-02-10")},
	}}
	crops := map[string]models.Crop{
		"c1": {Groups: []string{"brassica"}},
		"c2": {Groups: []string{"legume"}},
	}

	groups := PreviousCropGroups(schedule, date(t, "2026-03-01"), crops)
	assert.Equal(t, []string{"legume"}, groups)
}

func TestPreviousCropGroups_NoneBeforeStart(t *testing.T) {
	schedule := models.FieldSchedule{Allocations: []models.CropAllocation{
		{CropID: "c1", Completion: date(t, "2026-05-10")},
	}}
	crops := map[string]models.Crop{"c1": {Groups: []string{"brassica"}}}

	groups := PreviousCropGroups(schedule, date(t, "2026-01-01"), crops)
	assert.Nil(t, groups)
}
