package engine

import (
	"sort"

	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

// PoolIndex groups the full candidate pool along the axes the neighborhood
// operators search over, so each operator can find its substitution
// options without rescanning the whole pool.
type PoolIndex struct {
	all         []models.AllocationCandidate
	byFieldCrop map[string][]models.AllocationCandidate // fieldID|cropID, sorted by Start
	byCrop      map[string][]models.AllocationCandidate // cropID, any field
	byField     map[string][]models.AllocationCandidate // fieldID, any crop
}

func BuildPoolIndex(pool []models.AllocationCandidate) *PoolIndex {
	idx := &PoolIndex{
		all:         pool,
		byFieldCrop: make(map[string][]models.AllocationCandidate),
		byCrop:      make(map[string][]models.AllocationCandidate),
		byField:     make(map[string][]models.AllocationCandidate),
	}
	for _, c := range pool {
		fcKey := c.Field.ID + "|" + c.Crop.ID
		idx.byFieldCrop[fcKey] = append(idx.byFieldCrop[fcKey], c)
		idx.byCrop[c.Crop.ID] = append(idx.byCrop[c.Crop.ID], c)
		idx.byField[c.Field.ID] = append(idx.byField[c.Field.ID], c)
	}
	for k := range idx.byFieldCrop {
		sort.SliceStable(idx.byFieldCrop[k], func(i, j int) bool {
			return idx.byFieldCrop[k][i].Start.Before(idx.byFieldCrop[k][j].Start)
		})
	}
	return idx
}

// solutionFieldAllocations returns every allocation in sol currently on
// field, excluding the one keyed by excludeKey (if any).
func solutionFieldAllocations(sol []models.AllocationCandidate, fieldID, excludeKey string) []models.AllocationCandidate {
	var out []models.AllocationCandidate
	for _, a := range sol {
		if a.Field.ID != fieldID || a.Key() == excludeKey {
			continue
		}
		out = append(out, a)
	}
	return out
}

// replaceAt returns a copy of sol with the element at position i replaced
// by repl (sol is never mutated in place, per §9's side-effect-free
// operator contract).
func replaceAt(sol []models.AllocationCandidate, i int, repl models.AllocationCandidate) []models.AllocationCandidate {
	out := make([]models.AllocationCandidate, len(sol))
	copy(out, sol)
	out[i] = repl
	return out
}

// insertCandidate returns a copy of sol with cand appended.
func insertCandidate(sol []models.AllocationCandidate, cand models.AllocationCandidate) []models.AllocationCandidate {
	out := make([]models.AllocationCandidate, len(sol), len(sol)+1)
	copy(out, sol)
	return append(out, cand)
}

func fieldByID(fields []models.Field, id string) (models.Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return models.Field{}, false
}

// MoveOperator relocates the allocation at position i onto a different
// field, keeping its crop. It picks a random feasible candidate for
// (different field, same crop) from the pool (spec §4.9's "move"); the
// start date is not constrained, so timing is not preserved and the pick
// is not the best-scoring option.
func MoveOperator(sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, i int, stream *randstream.Stream) ([]models.AllocationCandidate, bool) {
	cur := sol[i]
	options := idx.byCrop[cur.Crop.ID]
	var feasible []models.AllocationCandidate
	for _, opt := range options {
		if opt.Field.ID == cur.Field.ID {
			continue
		}
		field, ok := fieldByID(fields, opt.Field.ID)
		if !ok {
			continue
		}
		existing := solutionFieldAllocations(sol, opt.Field.ID, "")
		if Feasible(field, existing, opt) {
			feasible = append(feasible, opt)
		}
	}
	if len(feasible) == 0 {
		return nil, false
	}
	pick := feasible[stream.Intn(len(feasible))]
	return replaceAt(sol, i, pick), true
}

// FieldSwapOperator exchanges the fields of two allocations i and j
// (different fields), accepting the swap only when both resulting
// placements are feasible .
func FieldSwapOperator(sol []models.AllocationCandidate, fields []models.Field, i, j int) ([]models.AllocationCandidate, bool) {
	a, b := sol[i], sol[j]
	if a.Field.ID == b.Field.ID {
		return nil, false
	}
	fieldA, okA := fieldByID(fields, a.Field.ID)
	fieldB, okB := fieldByID(fields, b.Field.ID)
	if !okA || !okB {
		return nil, false
	}

	movedA := a
	movedA.Field = &fieldB
	movedB := b
	movedB.Field = &fieldA

	existingB := solutionFieldAllocations(sol, fieldB.ID, b.Key())
	existingA := solutionFieldAllocations(sol, fieldA.ID, a.Key())
	if !Feasible(fieldB, existingB, movedA) || !Feasible(fieldA, existingA, movedB) {
		return nil, false
	}

	out := make([]models.AllocationCandidate, len(sol))
	copy(out, sol)
	out[i], out[j] = movedA, movedB
	return out, true
}

// ReplaceOperator substitutes the allocation at i with the highest-scoring
// (CandidateScore under objective) feasible candidate sharing its (field, crop) pair but a different start
// date or quantity .
func ReplaceOperator(sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, i int, objective models.Objective) ([]models.AllocationCandidate, bool) {
	cur := sol[i]
	field, ok := fieldByID(fields, cur.Field.ID)
	if !ok {
		return nil, false
	}
	existing := solutionFieldAllocations(sol, cur.Field.ID, cur.Key())

	best, bestScore, found := models.AllocationCandidate{}, 0.0, false
	for _, opt := range idx.byFieldCrop[cur.Field.ID+"|"+cur.Crop.ID] {
		if opt.Key() == cur.Key() {
			continue
		}
		if !Feasible(field, existing, opt) {
			continue
		}
		score := CandidateScore(opt, objective)
		if !found || score > bestScore {
			best, bestScore, found = opt, score, true
		}
	}
	if !found {
		return nil, false
	}
	return replaceAt(sol, i, best), true
}

// CropChangeOperator substitutes the allocation at i with a random feasible
// candidate on the same field with a different crop. The start date is not
// constrained to stay near the current one, and the pick is not the
// best-scoring option.
func CropChangeOperator(sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, i int, stream *randstream.Stream) ([]models.AllocationCandidate, bool) {
	cur := sol[i]
	field, ok := fieldByID(fields, cur.Field.ID)
	if !ok {
		return nil, false
	}
	existing := solutionFieldAllocations(sol, cur.Field.ID, cur.Key())

	var feasible []models.AllocationCandidate
	for _, opt := range idx.byField[cur.Field.ID] {
		if opt.Crop.ID == cur.Crop.ID {
			continue
		}
		if Feasible(field, existing, opt) {
			feasible = append(feasible, opt)
		}
	}
	if len(feasible) == 0 {
		return nil, false
	}
	pick := feasible[stream.Intn(len(feasible))]
	return replaceAt(sol, i, pick), true
}

// CropInsertOperator tries to add a brand-new candidate into a currently
// unused gap, without displacing anything already in sol ( // "crop-insert"). It samples a bounded number of pool candidates rather
// than scanning exhaustively, since the pool can be large.
func CropInsertOperator(sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, stream *randstream.Stream, maxAttempts int) ([]models.AllocationCandidate, bool) {
	if len(idx.all) == 0 {
		return nil, false
	}
	inUse := make(map[string]bool, len(sol))
	for _, a := range sol {
		inUse[a.Key()] = true
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cand := idx.all[stream.Intn(len(idx.all))]
		if inUse[cand.Key()] {
			continue
		}
		field, ok := fieldByID(fields, cand.Field.ID)
		if !ok {
			continue
		}
		existing := solutionFieldAllocations(sol, cand.Field.ID, "")
		if Feasible(field, existing, cand) {
			return insertCandidate(sol, cand), true
		}
	}
	return nil, false
}

// PeriodShiftOperator substitutes the allocation at i with the nearest
// (same field, same crop) candidate whose start date falls within
// maxShiftDays, preferring the closest match, breaking ties by profit.
func PeriodShiftOperator(sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, i, maxShiftDays int) ([]models.AllocationCandidate, bool) {
	cur := sol[i]
	field, ok := fieldByID(fields, cur.Field.ID)
	if !ok {
		return nil, false
	}
	existing := solutionFieldAllocations(sol, cur.Field.ID, cur.Key())

	candidates := idx.byFieldCrop[cur.Field.ID+"|"+cur.Crop.ID]
	best, bestDist, bestProfit, found := models.AllocationCandidate{}, 0, 0.0, false
	for _, opt := range candidates {
		if opt.Key() == cur.Key() {
			continue
		}
		dist := opt.Start.DaysUntil(cur.Start)
		if dist < 0 {
			dist = -dist
		}
		if dist > maxShiftDays {
			continue
		}
		if !Feasible(field, existing, opt) {
			continue
		}
		profit := opt.Profit()
		if !found || dist < bestDist || (dist == bestDist && profit > bestProfit) {
			best, bestDist, bestProfit, found = opt, dist, profit, true
		}
	}
	if !found {
		return nil, false
	}
	return replaceAt(sol, i, best), true
}

// QuantityAdjustOperator substitutes the allocation at i with the
// highest-scoring (CandidateScore under objective) candidate sharing its (field, crop, start date) but a
// different quantity level .
func QuantityAdjustOperator(sol []models.AllocationCandidate, fields []models.Field, idx *PoolIndex, i int, objective models.Objective) ([]models.AllocationCandidate, bool) {
	cur := sol[i]
	field, ok := fieldByID(fields, cur.Field.ID)
	if !ok {
		return nil, false
	}
	existing := solutionFieldAllocations(sol, cur.Field.ID, cur.Key())

	best, bestScore, found := models.AllocationCandidate{}, 0.0, false
	for _, opt := range idx.byFieldCrop[cur.Field.ID+"|"+cur.Crop.ID] {
		if opt.Key() == cur.Key() || opt.Start.DaysUntil(cur.Start) != 0 {
			continue
		}
		if !Feasible(field, existing, opt) {
			continue
		}
		score := CandidateScore(opt, objective)
		if !found || score > bestScore {
			best, bestScore, found = opt, score, true
		}
	}
	if !found {
		return nil, false
	}
	return replaceAt(sol, i, best), true
}
