package models

import "fmt"

// StressType enumerates the kinds of temperature stress the thermal model
// tallies per growth stage.
type StressType string

const (
	StressLowTemp    StressType = "low_temp"
	StressHighTemp   StressType = "high_temp"
	StressFrost      StressType = "frost"
	StressSterility  StressType = "sterility"
)

// AllStressTypes lists every StressType in a fixed, deterministic order —
// used wherever stress accumulators are iterated for reproducibility.
var AllStressTypes = []StressType{StressLowTemp, StressHighTemp, StressFrost, StressSterility}

// DefaultDailyImpact is the fallback multiplicative daily impact for a
// stress type, used when a TemperatureProfile does not override it.
var DefaultDailyImpact = map[StressType]float64{
	StressHighTemp:  0.05,
	StressLowTemp:   0.08,
	StressFrost:     0.15,
	StressSterility: 0.20,
}

// TemperatureProfile defines the trapezoidal temperature-efficiency curve
// and stress thresholds for one growth stage. Immutable.
type TemperatureProfile struct {
	BaseT            float64  `json:"base_t"`
	OptimalMin       float64  `json:"optimal_min"`
	OptimalMax       float64  `json:"optimal_max"`
	MaxT             float64  `json:"max_t"`
	LowStressT       float64  `json:"low_stress_t"`
	HighStressT      float64  `json:"high_stress_t"`
	FrostT           float64  `json:"frost_t"`
	SterilityRiskT   *float64 `json:"sterility_risk_t,omitempty"`

	// DailyImpact overrides DefaultDailyImpact per stress type, if set.
	DailyImpact map[StressType]float64 `json:"daily_impact,omitempty"`
}

// Validate enforces base < optimal_min <= optimal_max < max.
func (p TemperatureProfile) Validate() error {
	if !(p.BaseT < p.OptimalMin) {
		return fmt.Errorf("base_t (%.2f) must be < optimal_min (%.2f)", p.BaseT, p.OptimalMin)
	}
	if !(p.OptimalMin <= p.OptimalMax) {
		return fmt.Errorf("optimal_min (%.2f) must be <= optimal_max (%.2f)", p.OptimalMin, p.OptimalMax)
	}
	if !(p.OptimalMax < p.MaxT) {
		return fmt.Errorf("optimal_max (%.2f) must be < max_t (%.2f)", p.OptimalMax, p.MaxT)
	}
	return nil
}

// DailyImpactFor returns the configured (or default) daily impact for a
// stress type.
func (p TemperatureProfile) DailyImpactFor(st StressType) float64 {
	if p.DailyImpact != nil {
		if v, ok := p.DailyImpact[st]; ok {
			return v
		}
	}
	return DefaultDailyImpact[st]
}

// StageSensitivity holds per-stress sensitivity coefficients for one stage,
// each in [0,1]. Unset entries default to 0.5 (see
// StageRequirement.SensitivityFor).
type StageSensitivity map[StressType]float64

// StageRequirement is one ordered growth stage of a CropProfile.
type StageRequirement struct {
	Name               string              `json:"name"`
	Order              int                 `json:"order"` // 1-based
	RequiredGDD        float64             `json:"required_gdd"` // > 0
	Temperature        TemperatureProfile  `json:"temperature"`
	StressSensitivity  StageSensitivity    `json:"stress_sensitivity,omitempty"`
}

// Validate checks a single stage's invariants.
func (s StageRequirement) Validate() error {
	if s.Order < 1 {
		return fmt.Errorf("stage %q order must be >= 1", s.Name)
	}
	if s.RequiredGDD <= 0 {
		return fmt.Errorf("stage %q required GDD must be > 0", s.Name)
	}
	if err := s.Temperature.Validate(); err != nil {
		return fmt.Errorf("stage %q: %w", s.Name, err)
	}
	for st, v := range s.StressSensitivity {
		if v < 0 || v > 1 {
			return fmt.Errorf("stage %q sensitivity for %s must be in [0,1], got %.2f", s.Name, st, v)
		}
	}
	return nil
}

// SensitivityFor returns the configured sensitivity for a stress type,
// defaulting to 0.5 (moderate) if unspecified.
func (s StageRequirement) SensitivityFor(st StressType) float64 {
	if v, ok := s.StressSensitivity[st]; ok {
		return v
	}
	return 0.5
}

// CropProfile pairs a Crop with its ordered growth-stage requirements.
// Immutable once loaded.
type CropProfile struct {
	Crop   Crop               `json:"crop"`
	Stages []StageRequirement `json:"stages"` // ordered by Order, 1-based
}

// TotalRequiredGDD is the sum of required GDD across all stages.
func (p CropProfile) TotalRequiredGDD() float64 {
	total := 0.0
	for _, s := range p.Stages {
		total += s.RequiredGDD
	}
	return total
}

// Validate checks the crop and every stage, and that stages form a
// contiguous 1-based ordering.
func (p CropProfile) Validate() error {
	if err := p.Crop.Validate(); err != nil {
		return err
	}
	if len(p.Stages) == 0 {
		return fmt.Errorf("crop profile %q must have at least one stage", p.Crop.ID)
	}
	for i, s := range p.Stages {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("crop profile %q: %w", p.Crop.ID, err)
		}
		if s.Order != i+1 {
			return fmt.Errorf("crop profile %q: stages must be ordered 1..N contiguously, got order %d at position %d", p.Crop.ID, s.Order, i)
		}
	}
	return nil
}

// StageAt returns the stage whose cumulative GDD window contains
// cumulativeGDD, and whether one was found (false once cumulativeGDD meets
// or exceeds TotalRequiredGDD).
func (p CropProfile) StageAt(cumulativeGDD float64) (StageRequirement, bool) {
	running := 0.0
	for _, s := range p.Stages {
		running += s.RequiredGDD
		if cumulativeGDD < running {
			return s, true
		}
	}
	if len(p.Stages) == 0 {
		return StageRequirement{}, false
	}
	return p.Stages[len(p.Stages)-1], true
}
