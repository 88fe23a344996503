package models

import (
	"fmt"
	"math"
	"time"
)

// Algorithm selects the main solver.
type Algorithm string

const (
	AlgorithmDP     Algorithm = "dp"
	AlgorithmGreedy Algorithm = "greedy"
)

// Objective selects the quantity the objective kernel optimizes.
type Objective string

const (
	ObjectiveMaximizeProfit  Objective = "maximize_profit"
	ObjectiveMinimizeCost    Objective = "minimize_cost"
	ObjectiveMaximizeRevenue Objective = "maximize_revenue"
)

// AlgorithmConfig is the full configuration surface for the solver.
type AlgorithmConfig struct {
	Algorithm                Algorithm            `yaml:"algorithm" json:"algorithm"`
	EnableLocalSearch        bool                 `yaml:"enable_local_search" json:"enable_local_search"`
	EnableALNS               bool                 `yaml:"enable_alns" json:"enable_alns"`
	ALNSIterations           int                  `yaml:"alns_iterations" json:"alns_iterations"`
	ALNSRemovalRate          float64              `yaml:"alns_removal_rate" json:"alns_removal_rate"`
	SAInitialTemperature     float64              `yaml:"sa_initial_temperature" json:"sa_initial_temperature"`
	SACoolingRate            float64              `yaml:"sa_cooling_rate" json:"sa_cooling_rate"`
	LocalSearchMaxIterations int                  `yaml:"local_search_max_iterations" json:"local_search_max_iterations"`
	TimeLimit                time.Duration        `yaml:"time_limit" json:"time_limit"` // 0 == no limit
	QuantityLevels           []float64            `yaml:"quantity_levels" json:"quantity_levels"`
	TopPeriodCandidates      int                  `yaml:"top_period_candidates" json:"top_period_candidates"`
	EnableCandidateFiltering bool                 `yaml:"enable_candidate_filtering" json:"enable_candidate_filtering"`
	MinProfitRateThreshold   float64              `yaml:"min_profit_rate_threshold" json:"min_profit_rate_threshold"`
	PeriodShiftDays          int                  `yaml:"period_shift_days" json:"period_shift_days"`
	OperatorWeights          map[string]float64   `yaml:"operator_weights" json:"operator_weights"`
	Seed                     int64                `yaml:"seed" json:"seed"`
	Objective                Objective            `yaml:"objective" json:"objective"`
	WorkerCount              int                  `yaml:"worker_count" json:"worker_count"` // 0 == GOMAXPROCS
}

// DefaultAlgorithmConfig returns the configuration with every documented
// default value pre-filled.
func DefaultAlgorithmConfig() AlgorithmConfig {
	return AlgorithmConfig{
		Algorithm:                AlgorithmGreedy,
		EnableLocalSearch:        true,
		EnableALNS:               false,
		ALNSIterations:           200,
		ALNSRemovalRate:          0.3,
		SAInitialTemperature:     10000,
		SACoolingRate:            0.99,
		LocalSearchMaxIterations: 1000,
		TimeLimit:                0,
		QuantityLevels:           []float64{1.0, 0.75, 0.5, 0.25},
		TopPeriodCandidates:      3,
		EnableCandidateFiltering: false,
		MinProfitRateThreshold:   0,
		PeriodShiftDays:          7,
		OperatorWeights:          map[string]float64{},
		Seed:                     1,
		Objective:                ObjectiveMaximizeProfit,
		WorkerCount:              0,
	}
}

// Validate checks every domain constraint on the configuration.
func (c AlgorithmConfig) Validate() error {
	if c.Algorithm != AlgorithmDP && c.Algorithm != AlgorithmGreedy {
		return fmt.Errorf("algorithm must be %q or %q, got %q", AlgorithmDP, AlgorithmGreedy, c.Algorithm)
	}
	if c.ALNSIterations < 0 {
		return fmt.Errorf("alns_iterations must be >= 0")
	}
	if c.ALNSRemovalRate <= 0 || c.ALNSRemovalRate >= 1 {
		return fmt.Errorf("alns_removal_rate must be in (0,1), got %v", c.ALNSRemovalRate)
	}
	if c.SAInitialTemperature <= 0 {
		return fmt.Errorf("sa_initial_temperature must be > 0")
	}
	if c.SACoolingRate <= 0 || c.SACoolingRate >= 1 {
		return fmt.Errorf("sa_cooling_rate must be in (0,1), got %v", c.SACoolingRate)
	}
	if c.LocalSearchMaxIterations < 0 {
		return fmt.Errorf("local_search_max_iterations must be >= 0")
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("time_limit must be >= 0")
	}
	if len(c.QuantityLevels) == 0 {
		return fmt.Errorf("quantity_levels must not be empty")
	}
	for _, q := range c.QuantityLevels {
		if q <= 0 || q > 1 {
			return fmt.Errorf("quantity_levels entries must be in (0,1], got %v", q)
		}
	}
	if c.TopPeriodCandidates < 1 {
		return fmt.Errorf("top_period_candidates must be >= 1")
	}
	if c.PeriodShiftDays < 1 {
		return fmt.Errorf("period_shift_days must be >= 1")
	}
	switch c.Objective {
	case ObjectiveMaximizeProfit, ObjectiveMinimizeCost, ObjectiveMaximizeRevenue:
	default:
		return fmt.Errorf("unknown objective %q", c.Objective)
	}
	return nil
}

// Deadline converts a TimeLimit into an absolute time.Time from "now",
// or the zero value (no deadline) when TimeLimit is 0.
func (c AlgorithmConfig) Deadline(now time.Time) (time.Time, bool) {
	if c.TimeLimit <= 0 {
		return time.Time{}, false
	}
	return now.Add(c.TimeLimit), true
}

// DurationFromSeconds converts an external time_limit_seconds value (a
// positive float or +Inf) into a TimeLimit; +Inf and values <= 0 map to 0,
// meaning no limit.
func DurationFromSeconds(seconds float64) time.Duration {
	if math.IsInf(seconds, 1) || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
