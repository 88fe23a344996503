package engine

import (
	"github.com/oleamind/cropplanner/models"
)

// StageProgress is one day's entry in a GrowthResult's timeline, kept for
// tests and display.
type StageProgress struct {
	Date          models.DateOnly
	StageOrder    int
	StageName     string
	DailyGDD      float64
	CumulativeGDD float64
}

// GrowthResult is the full output of evaluating one candidate start date.
type GrowthResult struct {
	Start         models.DateOnly
	Completion    models.DateOnly
	GrowthDays    int
	Timeline      []StageProgress
	Stress        *StressAccumulator
	YieldFactor   float64
}

// EvaluateGrowth walks forward day by day from start, accumulating GDD via
// DailyGDD and stress via ClassifyStress, until cumulative GDD reaches
// profile.TotalRequiredGDD() or windowEnd is passed. Missing weather days
// are treated as zero-GDD, the conservative choice. Returns
// errIncompleteGrowth if completion does not occur by windowEnd.
func EvaluateGrowth(profile models.CropProfile, start models.DateOnly, weather models.WeatherSeries, windowEnd models.DateOnly) (GrowthResult, error) {
	if err := ValidateProfile(profile); err != nil {
		return GrowthResult{}, err
	}
	totalRequired := profile.TotalRequiredGDD()
	acc := NewStressAccumulator()

	cumulative := 0.0
	var timeline []StageProgress

	date := start
	for !date.After(windowEnd) {
		stage, ok := profile.StageAt(cumulative)
		if !ok {
			// Shouldn't happen while cumulative < totalRequired, but guard
			// defensively against an empty stage list.
			break
		}

		day, found := weather.DayAt(date)
		dailyGDD := 0.0
		if found {
			dailyGDD = DailyGDD(day.TempMean, stage.Temperature)
			acc.Add(stage.Order, ClassifyStress(day, stage.Temperature))
		}
		cumulative += dailyGDD

		timeline = append(timeline, StageProgress{
			Date:          date,
			StageOrder:    stage.Order,
			StageName:     stage.Name,
			DailyGDD:      dailyGDD,
			CumulativeGDD: cumulative,
		})

		if cumulative >= totalRequired {
			// Completion is exclusive: the first day the field is free
			// again if fallow_period_days is 0 (see models.FieldSchedule
			// and DESIGN.md's resolution of the completion-date
			// convention). growth_days counts the days the field is
			// actually occupied, i.e. [start, date] inclusive.
			growthDays := start.DaysUntil(date) + 1
			return GrowthResult{
				Start:       start,
				Completion:  date.AddDays(1),
				GrowthDays:  growthDays,
				Timeline:    timeline,
				Stress:      acc,
				YieldFactor: acc.YieldFactor(profile.Stages),
			}, nil
		}

		date = date.AddDays(1)
	}

	return GrowthResult{}, errIncompleteGrowth
}
