// Package engine implements the planning engine's components: the thermal
// model, growth-progress evaluator, period optimizer, candidate generator,
// interaction-rule service, objective kernel, the two solvers (per-field DP
// and greedy+ALNS/hill-climbing), neighborhood operators, the allocation
// adjuster, and the result assembler.
package engine

import (
	"fmt"

	"github.com/oleamind/cropplanner/models"
)

// DailyGDD computes one day's growing-degree-day contribution under a
// trapezoidal temperature-efficiency curve. A missing
// temperature (handled by the caller passing NaN-free zero value paths)
// is not modeled here — callers skip missing days entirely per §4.2.
func DailyGDD(tempMean float64, p models.TemperatureProfile) float64 {
	eps := temperatureEfficiency(tempMean, p)
	linear := tempMean - p.BaseT
	if linear < 0 {
		linear = 0
	}
	return linear * eps
}

// temperatureEfficiency computes epsilon(T) per the trapezoidal piecewise
// definition.
func temperatureEfficiency(t float64, p models.TemperatureProfile) float64 {
	switch {
	case t <= p.BaseT || t >= p.MaxT:
		return 0
	case t < p.OptimalMin:
		return (t - p.BaseT) / (p.OptimalMin - p.BaseT)
	case t <= p.OptimalMax:
		return 1
	default: // optimalMax < t < maxT
		return (p.MaxT - t) / (p.MaxT - p.OptimalMax)
	}
}

// DayStress flags which stress types a day's weather triggers under a
// TemperatureProfile.
type DayStress struct {
	Low        bool
	High       bool
	Frost      bool
	Sterility  bool
}

// ClassifyStress evaluates a single day's stress flags.
func ClassifyStress(day models.WeatherDay, p models.TemperatureProfile) DayStress {
	s := DayStress{
		Low:   day.TempMean < p.LowStressT,
		High:  day.TempMean > p.HighStressT,
		Frost: day.TempMin <= p.FrostT,
	}
	if p.SterilityRiskT != nil {
		s.Sterility = day.TempMax >= *p.SterilityRiskT
	}
	return s
}

// StressAccumulator tallies stress-day counts per (stage, stress type),
// keyed by stage order. Index 0 is unused; stage orders are 1-based.
type StressAccumulator struct {
	counts map[int]map[models.StressType]int
}

// NewStressAccumulator creates an empty accumulator.
func NewStressAccumulator() *StressAccumulator {
	return &StressAccumulator{counts: make(map[int]map[models.StressType]int)}
}

// Add records one stress day for the given stage order.
func (a *StressAccumulator) Add(stageOrder int, s DayStress) {
	bucket, ok := a.counts[stageOrder]
	if !ok {
		bucket = make(map[models.StressType]int)
		a.counts[stageOrder] = bucket
	}
	if s.Low {
		bucket[models.StressLowTemp]++
	}
	if s.High {
		bucket[models.StressHighTemp]++
	}
	if s.Frost {
		bucket[models.StressFrost]++
	}
	if s.Sterility {
		bucket[models.StressSterility]++
	}
}

// Count returns the accumulated day count for a (stage, stress type) pair.
func (a *StressAccumulator) Count(stageOrder int, st models.StressType) int {
	bucket, ok := a.counts[stageOrder]
	if !ok {
		return 0
	}
	return bucket[st]
}

// YieldFactor computes the multiplicative [0,1] yield penalty from
// accumulated stress:
//
//	factor starts at 1.0; for each (stress type, stage, count),
//	factor *= max(0, 1 - daily_impact * count * stage_sensitivity)
//
// stages supplies the stage list to look up sensitivities and temperature
// profiles by order; each stage's daily impact comes from its own
// temperature profile (DailyImpactFor, which honors per-profile overrides).
func (a *StressAccumulator) YieldFactor(stages []models.StageRequirement) float64 {
	factor := 1.0
	for _, stage := range stages {
		for _, st := range models.AllStressTypes {
			count := a.Count(stage.Order, st)
			if count == 0 {
				continue
			}
			impact := stage.Temperature.DailyImpactFor(st)
			sensitivity := stage.SensitivityFor(st)
			term := 1 - impact*float64(count)*sensitivity
			if term < 0 {
				term = 0
			}
			factor *= term
		}
	}
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return factor
}

// ValidateProfile mirrors InvalidProfile failure: any stage
// whose TemperatureProfile violates base < optimal_min <= optimal_max <
// max is rejected before simulation begins.
func ValidateProfile(profile models.CropProfile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errInvalidProfile, err)
	}
	return nil
}
