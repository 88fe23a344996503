package engine

import (
	"sort"

	"github.com/oleamind/cropplanner/models"
)

// PeriodCandidate is one feasible (start, completion) period found by the
// period optimizer, before quantity/area is attached.
type PeriodCandidate struct {
	Start       models.DateOnly
	Completion  models.DateOnly
	GrowthDays  int
	YieldFactor float64
	Timeline    []StageProgress
}

// dailyGDDTable precomputes, for every day in the series and every stage of
// the profile, the daily GDD and stress flags that day would contribute if
// it fell within that stage: epsilon(T) and stress classification are
// computed once per (day, stage) pair rather than re-derived for every
// candidate start date, since the same weather day is revisited by every
// start whose growth window overlaps it.
type dailyGDDTable struct {
	dates   []models.DateOnly
	index   map[string]int
	gdd     [][]float64    // [dayIdx][stageIdx]
	stress  [][]DayStress  // [dayIdx][stageIdx] (stage-specific thresholds)
	present []bool
}

func buildDailyGDDTable(weather models.WeatherSeries, profile models.CropProfile) *dailyGDDTable {
	t := &dailyGDDTable{
		index: make(map[string]int, len(weather.Days)),
	}
	numStages := len(profile.Stages)
	t.dates = make([]models.DateOnly, len(weather.Days))
	t.gdd = make([][]float64, len(weather.Days))
	t.stress = make([][]DayStress, len(weather.Days))
	t.present = make([]bool, len(weather.Days))

	for i, day := range weather.Days {
		t.dates[i] = day.Date
		t.index[day.Date.String()] = i
		t.present[i] = true
		row := make([]float64, numStages)
		srow := make([]DayStress, numStages)
		for s, stage := range profile.Stages {
			row[s] = DailyGDD(day.TempMean, stage.Temperature)
			srow[s] = ClassifyStress(day, stage.Temperature)
		}
		t.gdd[i] = row
		t.stress[i] = srow
	}
	return t
}

// simulateFrom replays growth starting at `start` using the precomputed
// table, returning the same semantics as EvaluateGrowth but without
// recomputing temperature-efficiency per call.
func (t *dailyGDDTable) simulateFrom(profile models.CropProfile, start, windowEnd models.DateOnly) (PeriodCandidate, error) {
	totalRequired := profile.TotalRequiredGDD()
	acc := NewStressAccumulator()
	cumulative := 0.0
	var timeline []StageProgress

	date := start
	for !date.After(windowEnd) {
		stage, ok := profile.StageAt(cumulative)
		if !ok {
			break
		}
		idx, found := t.index[date.String()]
		dailyGDD := 0.0
		if found {
			dailyGDD = t.gdd[idx][stage.Order-1]
			acc.Add(stage.Order, t.stress[idx][stage.Order-1])
		}
		cumulative += dailyGDD
		timeline = append(timeline, StageProgress{
			Date: date, StageOrder: stage.Order, StageName: stage.Name,
			DailyGDD: dailyGDD, CumulativeGDD: cumulative,
		})

		if cumulative >= totalRequired {
			growthDays := start.DaysUntil(date) + 1
			return PeriodCandidate{
				Start:       start,
				Completion:  date.AddDays(1),
				GrowthDays:  growthDays,
				YieldFactor: acc.YieldFactor(profile.Stages),
				Timeline:    timeline,
			}, nil
		}
		date = date.AddDays(1)
	}
	return PeriodCandidate{}, errIncompleteGrowth
}

// PeriodResult is the output of optimize_period.
type PeriodResult struct {
	Best        *PeriodCandidate
	TopK        []PeriodCandidate
	Infeasible  bool
}

// OptimizePeriod enumerates every start date in [windowStart, windowEnd]
// for one (field, crop) pair, evaluates each via the precomputed
// sliding-window table, and returns the top-K feasible candidates sorted by
// profit descending (or -cost when revenue is undefined), ties broken by
// the earlier start date. Start dates whose growth does not complete by
// windowEnd are discarded.
func OptimizePeriod(field models.Field, profile models.CropProfile, weather models.WeatherSeries, windowStart, windowEnd models.DateOnly, areaUsed float64, topK int) (PeriodResult, error) {
	if err := ValidateProfile(profile); err != nil {
		return PeriodResult{}, err
	}
	if !weather.Covers(windowStart, windowEnd) {
		return PeriodResult{}, errMissingWeather
	}
	if topK < 1 {
		topK = 1
	}

	table := buildDailyGDDTable(weather, profile)

	type scored struct {
		pc    PeriodCandidate
		score float64
	}
	var all []scored

	for start := windowStart; !start.After(windowEnd); start = start.AddDays(1) {
		pc, err := table.simulateFrom(profile, start, windowEnd)
		if err != nil {
			continue // Incomplete: discard this start date
		}
		metrics := models.OptimizationMetrics{
			AreaUsed:          areaUsed,
			RevenuePerArea:    profile.Crop.RevenuePerArea,
			RevenueCap:        profile.Crop.RevenueCapSeason,
			GrowthDays:        pc.GrowthDays,
			DailyFixedCost:    field.DailyFixedCost,
			YieldFactor:       pc.YieldFactor,
			InteractionImpact: 1.0,
		}
		score := metrics.Profit()
		if profile.Crop.RevenuePerArea == nil {
			score = -metrics.Cost()
		}
		all = append(all, scored{pc: pc, score: score})
	}

	if len(all) == 0 {
		return PeriodResult{Infeasible: true}, nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].pc.Start.Before(all[j].pc.Start)
	})

	if len(all) > topK {
		all = all[:topK]
	}

	result := PeriodResult{TopK: make([]PeriodCandidate, 0, len(all))}
	for _, s := range all {
		pc := s.pc
		result.TopK = append(result.TopK, pc)
	}
	best := result.TopK[0]
	result.Best = &best
	return result, nil
}
