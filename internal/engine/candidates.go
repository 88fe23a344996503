package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oleamind/cropplanner/internal/planerr"
	"github.com/oleamind/cropplanner/internal/randstream"
	"github.com/oleamind/cropplanner/models"
)

// CandidateGenerationResult bundles the immutable candidate pool with a
// summary of skipped (field, crop) combinations.
type CandidateGenerationResult struct {
	Candidates []models.AllocationCandidate
	Rejected   []models.RejectedCandidateSummary
}

// quantityTask is one (field, crop) unit of work, the grain at which the
// candidate generator's worker pool parallelizes.
type quantityTask struct {
	field   *models.Field
	profile *models.CropProfile
}

// GenerateCandidates calls OptimizePeriod once per (field, crop) pair, at
// the first configured quantity level, then rescales the resulting top-K
// periods across every other quantity level. Work fans out over a worker
// pool, one task per (field, crop) pair — rescaling across quantity levels
// is cheap arithmetic done inline once the period is known, so it is not
// worth a separate task per level.
func GenerateCandidates(ctx context.Context, fields []models.Field, profiles []models.CropProfile, weather models.WeatherSeries, windowStart, windowEnd models.DateOnly, cfg models.AlgorithmConfig) (CandidateGenerationResult, error) {
	if len(cfg.QuantityLevels) == 0 {
		return CandidateGenerationResult{}, planerr.InvalidInput("quantity_levels must not be empty")
	}

	var tasks []quantityTask
	for i := range fields {
		for j := range profiles {
			tasks = append(tasks, quantityTask{field: &fields[i], profile: &profiles[j]})
		}
	}

	type taskResult struct {
		candidates []models.AllocationCandidate
		rejected   *models.RejectedCandidateSummary
		err        error
	}

	results := make([]taskResult, len(tasks))
	pool := NewWorkerPool(cfg.WorkerCount)
	err := pool.Run(ctx, len(tasks), func(ctx context.Context, i int) error {
		task := tasks[i]
		cands, rejected, err := candidatesForPair(*task.field, *task.profile, weather, windowStart, windowEnd, cfg)
		results[i] = taskResult{candidates: cands, rejected: rejected, err: err}
		return nil // per-pair Infeasible is recovered locally, never aborts the pool
	})
	if err != nil {
		return CandidateGenerationResult{}, err
	}

	out := CandidateGenerationResult{}
	for _, r := range results {
		if r.err != nil {
			return CandidateGenerationResult{}, r.err
		}
		out.Candidates = append(out.Candidates, r.candidates...)
		if r.rejected != nil {
			out.Rejected = append(out.Rejected, *r.rejected)
		}
	}
	return out, nil
}

func candidatesForPair(field models.Field, profile models.CropProfile, weather models.WeatherSeries, windowStart, windowEnd models.DateOnly, cfg models.AlgorithmConfig) ([]models.AllocationCandidate, *models.RejectedCandidateSummary, error) {
	capacity := profile.Crop.CapacityUnits(field.AreaSqMeters)
	referenceLevel := cfg.QuantityLevels[0]
	referenceArea := capacity * referenceLevel * profile.Crop.AreaPerUnit

	result, err := OptimizePeriod(field, profile, weather, windowStart, windowEnd, referenceArea, cfg.TopPeriodCandidates)
	if err != nil {
		if err == errMissingWeather {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("field %s crop %s: %w", field.ID, profile.Crop.ID, err)
	}
	if result.Infeasible {
		slog.Debug("no feasible period found", "field_id", field.ID, "crop_id", profile.Crop.ID)
		return nil, &models.RejectedCandidateSummary{
			FieldID: field.ID, CropID: profile.Crop.ID, Reason: "infeasible", Count: 1,
		}, nil
	}

	var out []models.AllocationCandidate
	for _, level := range cfg.QuantityLevels {
		area := capacity * level * profile.Crop.AreaPerUnit
		if area > field.AreaSqMeters {
			area = field.AreaSqMeters
		}
		quantity := capacity * level
		for _, pc := range result.TopK {
			cand := models.AllocationCandidate{
				Field:             &field,
				Crop:              &profile.Crop,
				Start:             pc.Start,
				Completion:        pc.Completion,
				GrowthDays:        pc.GrowthDays,
				AreaUsed:          area,
				Quantity:          quantity,
				YieldFactor:       pc.YieldFactor,
				InteractionImpact: 1.0,
			}
			if cfg.EnableCandidateFiltering {
				m := cand.Metrics()
				if m.Profit() < 0 || m.ProfitRate() < cfg.MinProfitRateThreshold {
					continue
				}
			}
			out = append(out, cand)
		}
	}
	return out, nil, nil
}

// SubStreamsFor allocates one deterministic PRNG substream per worker,
// indexed 0..n-1, from the run's root stream, so each worker gets its own
// sub-stream and results stay reproducible under parallel execution.
func SubStreamsFor(root *randstream.Stream, n int) []*randstream.Stream {
	out := make([]*randstream.Stream, n)
	for i := 0; i < n; i++ {
		out[i] = root.SubStream(i)
	}
	return out
}

// keyIndex builds a lookup from AllocationCandidate.Key() to its slice
// index, used throughout the operators' nearest-match substitution.
func keyIndex(candidates []models.AllocationCandidate) map[string]int {
	m := make(map[string]int, len(candidates))
	for i, c := range candidates {
		m[c.Key()] = i
	}
	return m
}
