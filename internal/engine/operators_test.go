package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

func TestBuildPoolIndex_GroupsByFieldCropAndSortsByStart(t *testing.T) {
	field := models.Field{ID: "f1"}
	crop := models.Crop{ID: "c1"}
	later := candidate(t, &field, &crop, "2026-02-01", "2026-03-01", 10, 5)
	earlier := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 5)

	idx := BuildPoolIndex([]models.AllocationCandidate{later, earlier})
	group := idx.byFieldCrop["f1|c1"]
	require.Len(t, group, 2)
	assert.Equal(t, earlier.Start.String(), group[0].Start.String())
	assert.Equal(t, later.Start.String(), group[1].Start.String())
}

func TestFieldSwapOperator_RejectsSameField(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 100}
	crop := models.Crop{ID: "c1"}
	a := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 5)
	b := candidate(t, &field, &crop, "2026-03-01", "2026-04-01", 10, 5)

	_, ok := FieldSwapOperator([]models.AllocationCandidate{a, b}, []models.Field{field}, 0, 1)
	assert.False(t, ok)
}

func TestFieldSwapOperator_SwapsWhenBothSidesFeasible(t *testing.T) {
	f1 := models.Field{ID: "f1", AreaSqMeters: 100}
	f2 := models.Field{ID: "f2", AreaSqMeters: 100}
	crop := models.Crop{ID: "c1"}
	a := candidate(t, &f1, &crop, "2026-01-01", "2026-02-01", 10, 5)
	b := candidate(t, &f2, &crop, "2026-03-01", "2026-04-01", 10, 5)

	out, ok := FieldSwapOperator([]models.AllocationCandidate{a, b}, []models.Field{f1, f2}, 0, 1)
	require.True(t, ok)
	assert.Equal(t, "f2", out[0].Field.ID)
	assert.Equal(t, "f1", out[1].Field.ID)
}

func TestReplaceOperator_PicksHighestProfitAlternative(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 1000}
	crop := models.Crop{ID: "c1"}
	cur := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 1)
	better := candidate(t, &field, &crop, "2026-03-01", "2026-04-01", 10, 50)

	idx := BuildPoolIndex([]models.AllocationCandidate{cur, better})
	out, ok := ReplaceOperator([]models.AllocationCandidate{cur}, []models.Field{field}, idx, 0, models.ObjectiveMaximizeProfit)
	require.True(t, ok)
	assert.Equal(t, better.Key(), out[0].Key())
}

func TestCropInsertOperator_InsertsFeasibleCandidate(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 1000}
	crop := models.Crop{ID: "c1"}
	cand := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 5)
	idx := BuildPoolIndex([]models.AllocationCandidate{cand})

	stream := randstream.New(1)
	out, ok := CropInsertOperator(nil, []models.Field{field}, idx, stream, 10)
	require.True(t, ok)
	assert.Len(t, out, 1)
}

func TestCropInsertOperator_EmptyPoolFails(t *testing.T) {
	idx := BuildPoolIndex(nil)
	stream := randstream.New(1)
	_, ok := CropInsertOperator(nil, nil, idx, stream, 5)
	assert.False(t, ok)
}

func TestQuantityAdjustOperator_PicksDifferentQuantitySameStart(t *testing.T) {
	field := models.Field{ID: "f1", AreaSqMeters: 1000}
	crop := models.Crop{ID: "c1"}
	cur := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 10, 1)
	cur.Quantity = 10
	better := candidate(t, &field, &crop, "2026-01-01", "2026-02-01", 20, 5)
	better.Quantity = 20

	idx := BuildPoolIndex([]models.AllocationCandidate{cur, better})
	out, ok := QuantityAdjustOperator([]models.AllocationCandidate{cur}, []models.Field{field}, idx, 0, models.ObjectiveMaximizeProfit)
	require.True(t, ok)
	assert.Equal(t, better.Key(), out[0].Key())
}
