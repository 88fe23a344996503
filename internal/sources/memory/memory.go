// Package memory provides in-memory implementations of every sources
// interface, for tests and for CLI runs fed from a single loaded file.
// Each store is responsible for its own backing slice or map.
package memory

import (
	"context"

	"github.com/oleamind/cropplanner/models"
)

// FieldStore implements sources.FieldSource over a static slice.
type FieldStore struct{ Fields []models.Field }

func (s FieldStore) GetAll(ctx context.Context) ([]models.Field, error) { return s.Fields, nil }

// ProfileStore implements sources.CropProfileSource over a static slice.
type ProfileStore struct{ Profiles []models.CropProfile }

func (s ProfileStore) GetAll(ctx context.Context) ([]models.CropProfile, error) {
	return s.Profiles, nil
}

// WeatherStore implements sources.WeatherSource over a static series.
type WeatherStore struct{ Series models.WeatherSeries }

func (s WeatherStore) Get(ctx context.Context) (models.WeatherSeries, error) { return s.Series, nil }

// RuleStore implements sources.InteractionRuleSource over a static slice.
type RuleStore struct{ Rules []models.InteractionRule }

func (s RuleStore) GetRules(ctx context.Context) ([]models.InteractionRule, error) {
	return s.Rules, nil
}

// PlanStore implements sources.PlanSource over a static plan.
type PlanStore struct{ Plan models.Plan }

func (s PlanStore) Get(ctx context.Context) (models.Plan, error) { return s.Plan, nil }

// MoveStore implements sources.MoveInstructionSource over a static slice.
type MoveStore struct{ Moves []models.MoveInstruction }

func (s MoveStore) GetAll(ctx context.Context) ([]models.MoveInstruction, error) {
	return s.Moves, nil
}

// Snapshot bundles one of each store, the common case for a CLI run that
// loads a single input document.
type Snapshot struct {
	FieldStore
	ProfileStore
	WeatherStore
	RuleStore
	PlanStore
	MoveStore
}
