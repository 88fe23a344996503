package engine

import (
	"context"
	"time"

	"github.com/oleamind/cropplanner/internal/planerr"
	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

// ProblemInstance bundles the immutable inputs every core operation needs.
type ProblemInstance struct {
	Fields      []models.Field
	Profiles    []models.CropProfile
	Weather     models.WeatherSeries
	Rules       []models.InteractionRule
	WindowStart models.DateOnly
	WindowEnd   models.DateOnly
}

// Validate checks the instance-level invariants that must be surfaced
// immediately: a malformed profile, an inconsistent window, or weather that
// does not cover it.
func (p ProblemInstance) Validate() error {
	if p.WindowStart.After(p.WindowEnd) {
		return planerr.InvalidInput("window_start must not be after window_end")
	}
	for _, f := range p.Fields {
		if err := f.Validate(); err != nil {
			return planerr.InvalidInput(err.Error())
		}
	}
	for _, prof := range p.Profiles {
		if err := prof.Validate(); err != nil {
			return planerr.InvalidInput(err.Error())
		}
	}
	if err := p.Weather.Validate(); err != nil {
		return planerr.InvalidInput(err.Error())
	}
	if !p.Weather.Covers(p.WindowStart, p.WindowEnd) {
		return planerr.MissingWeather("weather series does not cover the planning window")
	}
	for _, r := range p.Rules {
		if err := r.Validate(); err != nil {
			return planerr.InvalidInput(err.Error())
		}
	}
	return nil
}

// OptimizePeriodOp is the first core operation: returns the best
// (and top-K) cultivation period for one (field, crop) pair.
func OptimizePeriodOp(field models.Field, profile models.CropProfile, weather models.WeatherSeries, windowStart, windowEnd models.DateOnly, areaUsed float64, cfg models.AlgorithmConfig) (PeriodResult, error) {
	return OptimizePeriod(field, profile, weather, windowStart, windowEnd, areaUsed, cfg.TopPeriodCandidates)
}

// OptimizeAllocation is the second core operation: runs candidate
// generation, the configured solver (DP, or greedy+local-search/ALNS), and
// the result assembler, producing a full Plan.
func OptimizeAllocation(ctx context.Context, instance ProblemInstance, cfg models.AlgorithmConfig) (models.Plan, error) {
	if err := instance.Validate(); err != nil {
		return models.Plan{}, err
	}
	if err := cfg.Validate(); err != nil {
		return models.Plan{}, err
	}

	rules, err := BuildRuleIndex(instance.Rules)
	if err != nil {
		return models.Plan{}, planerr.InvalidInput(err.Error())
	}

	genResult, err := GenerateCandidates(ctx, instance.Fields, instance.Profiles, instance.Weather, instance.WindowStart, instance.WindowEnd, cfg)
	if err != nil {
		return models.Plan{}, err
	}

	crops := make(map[string]models.Crop, len(instance.Profiles))
	for _, p := range instance.Profiles {
		crops[p.Crop.ID] = p.Crop
	}

	applyInteractions(genResult.Candidates, rules)

	stream := randstream.New(cfg.Seed)
	deadline, hasDeadline := cfg.Deadline(deadlineNow())
	if !hasDeadline {
		deadline = time.Time{}
	}

	var chosen []models.AllocationCandidate
	var algorithmTag string
	timedOut := false

	switch cfg.Algorithm {
	case models.AlgorithmDP:
		byField := make(map[string][]models.AllocationCandidate)
		for _, c := range genResult.Candidates {
			byField[c.Field.ID] = append(byField[c.Field.ID], c)
		}
		chosen, err = SolveDP(ctx, instance.Fields, byField, crops, cfg)
		if err != nil {
			return models.Plan{}, err
		}
		algorithmTag = "dp"
	default:
		chosen = SolveGreedy(instance.Fields, genResult.Candidates, crops, rules)
		algorithmTag = "greedy"
		if cfg.EnableALNS {
			chosen = RunALNS(ctx, chosen, instance.Fields, genResult.Candidates, cfg, stream, deadline)
			algorithmTag = "greedy+alns"
		} else if cfg.EnableLocalSearch {
			chosen = HillClimb(ctx, chosen, instance.Fields, genResult.Candidates, cfg, stream, deadline)
		}
	}

	if hasDeadline && timeNowAfter(deadline) {
		timedOut = true
	}

	chosen = RecomputeChosenInteractions(chosen, rules)

	return Assemble(chosen, instance.Fields, algorithmTag, genResult.Rejected, instance.WindowStart, instance.WindowEnd, timedOut)
}

// AdjustAllocation is the third core operation, delegating to the
// allocation adjuster.
func AdjustAllocation(ctx context.Context, current models.Plan, moves []models.MoveInstruction, instance ProblemInstance, cfg models.AlgorithmConfig) (models.AdjustResult, error) {
	if err := instance.Validate(); err != nil {
		return models.AdjustResult{}, err
	}
	if err := cfg.Validate(); err != nil {
		return models.AdjustResult{}, err
	}

	rules, err := BuildRuleIndex(instance.Rules)
	if err != nil {
		return models.AdjustResult{}, planerr.InvalidInput(err.Error())
	}

	genResult, err := GenerateCandidates(ctx, instance.Fields, instance.Profiles, instance.Weather, instance.WindowStart, instance.WindowEnd, cfg)
	if err != nil {
		return models.AdjustResult{}, err
	}
	applyInteractions(genResult.Candidates, rules)

	stream := randstream.New(cfg.Seed)
	deadline, hasDeadline := cfg.Deadline(deadlineNow())
	if !hasDeadline {
		deadline = time.Time{}
	}

	in := AdjustInputs{
		Fields:      instance.Fields,
		Profiles:    instance.Profiles,
		Weather:     instance.Weather,
		Rules:       instance.Rules,
		WindowStart: instance.WindowStart,
		WindowEnd:   instance.WindowEnd,
		Config:      cfg,
	}
	return Adjust(ctx, current, moves, in, genResult.Candidates, rules, stream, deadline)
}

// applyInteractions sets InteractionImpact on every candidate in place,
// from the field-level (non-temporal) rules only: no previous crop is
// passed, so temporal rules do not contribute here. This is an
// approximation: the true previous crop depends on which candidates the
// solver actually keeps, which is not known yet at candidate-generation
// time. It is enough to rank candidates consistently during generation;
// callers that need exact interaction impact on the final plan should
// recompute it against the chosen allocations directly.
func applyInteractions(candidates []models.AllocationCandidate, rules *RuleIndex) {
	for i := range candidates {
		candidates[i].InteractionImpact = rules.InteractionImpact(*candidates[i].Field, *candidates[i].Crop, nil)
	}
}

// deadlineNow and timeNowAfter isolate the two time.Now() call sites so the
// rest of the package stays easy to reason about; kept as the package's
// only place that reads wall-clock time outside of tests.
func deadlineNow() time.Time { return time.Now() }
func timeNowAfter(t time.Time) bool { return time.Now().After(t) }
