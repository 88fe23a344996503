package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureProfile_Validate(t *testing.T) {
	valid := TemperatureProfile{BaseT: 5, OptimalMin: 15, OptimalMax: 25, MaxT: 35}
	assert.NoError(t, valid.Validate())

	assert.Error(t, TemperatureProfile{BaseT: 15, OptimalMin: 10, OptimalMax: 25, MaxT: 35}.Validate())
	assert.Error(t, TemperatureProfile{BaseT: 5, OptimalMin: 30, OptimalMax: 25, MaxT: 35}.Validate())
	assert.Error(t, TemperatureProfile{BaseT: 5, OptimalMin: 15, OptimalMax: 40, MaxT: 35}.Validate())
}

func TestTemperatureProfile_DailyImpactFor(t *testing.T) {
	p := TemperatureProfile{}
	assert.Equal(t, DefaultDailyImpact[StressFrost], p.DailyImpactFor(StressFrost))

	p.DailyImpact = map[StressType]float64{StressFrost: 0.5}
	assert.Equal(t, 0.5, p.DailyImpactFor(StressFrost))
	assert.Equal(t, DefaultDailyImpact[StressHighTemp], p.DailyImpactFor(StressHighTemp))
}

func TestStageRequirement_SensitivityForDefault(t *testing.T) {
	s := StageRequirement{}
	assert.Equal(t, 0.5, s.SensitivityFor(StressFrost))

	s.StressSensitivity = StageSensitivity{StressFrost: 0.9}
	assert.Equal(t, 0.9, s.SensitivityFor(StressFrost))
}

func validProfile(t *testing.T) CropProfile {
	return CropProfile{
		Crop: Crop{ID: "c1", AreaPerUnit: 1},
		Stages: []StageRequirement{
			{Name: "germination", Order: 1, RequiredGDD: 100, Temperature: TemperatureProfile{BaseT: 5, OptimalMin: 15, OptimalMax: 25, MaxT: 35}},
			{Name: "vegetative", Order: 2, RequiredGDD: 200, Temperature: TemperatureProfile{BaseT: 5, OptimalMin: 15, OptimalMax: 25, MaxT: 35}},
		},
	}
}

func TestCropProfile_Validate(t *testing.T) {
	p := validProfile(t)
	assert.NoError(t, p.Validate())

	noStages := p
	noStages.Stages = nil
	assert.Error(t, noStages.Validate())

	badOrder := p
	badOrder.Stages = append([]StageRequirement{}, p.Stages...)
	badOrder.Stages[1].Order = 5
	assert.Error(t, badOrder.Validate())
}

func TestCropProfile_TotalRequiredGDDAndStageAt(t *testing.T) {
	p := validProfile(t)
	assert.Equal(t, 300.0, p.TotalRequiredGDD())

	stage, ok := p.StageAt(50)
	assert.True(t, ok)
	assert.Equal(t, "germination", stage.Name)

	stage, ok = p.StageAt(150)
	assert.True(t, ok)
	assert.Equal(t, "vegetative", stage.Name)

	// At/after total required GDD, StageAt still returns the last stage
	// (growth considered complete by the caller, not by this lookup).
	stage, ok = p.StageAt(500)
	assert.True(t, ok)
	assert.Equal(t, "vegetative", stage.Name)
}
