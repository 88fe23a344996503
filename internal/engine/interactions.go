package engine

import (
	"sort"

	"github.com/oleamind/cropplanner/models"
)

// RuleIndex is an index keyed by (source_group, target_group): relationships
// are represented by group-name lookup keys rather than pointer cycles.
type RuleIndex struct {
	bySource map[string][]models.InteractionRule
}

// BuildRuleIndex validates and indexes a rule set. Unknown rule types are
// rejected at this boundary.
func BuildRuleIndex(rules []models.InteractionRule) (*RuleIndex, error) {
	idx := &RuleIndex{bySource: make(map[string][]models.InteractionRule)}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		idx.bySource[r.SourceGroup] = append(idx.bySource[r.SourceGroup], r)
		if !r.Directional && r.SourceGroup != r.TargetGroup {
			idx.bySource[r.TargetGroup] = append(idx.bySource[r.TargetGroup], r)
		}
	}
	return idx, nil
}

// candidateRules returns every rule whose source side matches
// sourceGroups, filtered down to those whose target side matches
// targetGroups.
func (idx *RuleIndex) candidateRules(sourceGroups, targetGroups []string) []models.InteractionRule {
	var out []models.InteractionRule
	seen := make(map[string]bool)
	for _, sg := range sourceGroups {
		for _, r := range idx.bySource[sg] {
			for _, tg := range targetGroups {
				if r.Matches(sg, tg) && !seen[r.ID] {
					out = append(out, r)
					seen[r.ID] = true
				}
			}
		}
	}
	return out
}

// InteractionImpact computes the combined multiplicative impact_ratio for
// placing `crop` on `field`, given the field's current schedule (for
// temporal rules against the immediately prior allocation) and the field's
// own groups (for spatial/soil/climate-compatibility rules). Multiple
// matching rules compound multiplicatively.
//
// previousCropGroups is nil when there is no prior allocation on the
// field, in which case only field-compatibility rules apply.
func (idx *RuleIndex) InteractionImpact(field models.Field, crop models.Crop, previousCropGroups []string) float64 {
	impact := 1.0

	// Spatial/soil/climate compatibility: field groups -> crop groups.
	for _, r := range idx.candidateRules(field.Groups, crop.Groups) {
		if !r.Type.IsTemporal() {
			impact *= r.ImpactRatio
		}
	}

	// Temporal rules: previous crop's groups -> this crop's groups.
	if previousCropGroups != nil {
		for _, r := range idx.candidateRules(previousCropGroups, crop.Groups) {
			if r.Type.IsTemporal() {
				impact *= r.ImpactRatio
			}
		}
	}

	return impact
}

// PreviousCropGroups finds the crop groups of the allocation immediately
// preceding `beforeStart` on the given field schedule, or nil if there is
// none . cropsByID resolves
// a crop id to its Crop value (for Groups).
func PreviousCropGroups(schedule models.FieldSchedule, beforeStart models.DateOnly, cropsByID map[string]models.Crop) []string {
	var best *models.CropAllocation
	for i := range schedule.Allocations {
		a := &schedule.Allocations[i]
		if a.Completion.After(beforeStart) {
			continue
		}
		if best == nil || a.Completion.After(best.Completion) {
			best = a
		}
	}
	if best == nil {
		return nil
	}
	if crop, ok := cropsByID[best.CropID]; ok {
		return crop.Groups
	}
	return nil
}

// RecomputeChosenInteractions re-evaluates InteractionImpact on a final
// chosen set of allocations, once the solver has actually committed to
// them: within each field, sorted by start date, every allocation's impact
// is recomputed against its true predecessor's crop groups. Candidate
// generation (applyInteractions) only approximates this against the
// generation-time pool, since the chosen set is not known yet; this pass
// makes interaction_impact exact on the plan that is actually assembled.
func RecomputeChosenInteractions(chosen []models.AllocationCandidate, rules *RuleIndex) []models.AllocationCandidate {
	out := make([]models.AllocationCandidate, len(chosen))
	copy(out, chosen)

	byField := make(map[string][]int)
	for i, c := range out {
		byField[c.Field.ID] = append(byField[c.Field.ID], i)
	}
	for _, idxs := range byField {
		sort.SliceStable(idxs, func(a, b int) bool {
			return out[idxs[a]].Start.Before(out[idxs[b]].Start)
		})
		var prevGroups []string
		for _, idx := range idxs {
			out[idx].InteractionImpact = rules.InteractionImpact(*out[idx].Field, *out[idx].Crop, prevGroups)
			prevGroups = out[idx].Crop.Groups
		}
	}
	return out
}
