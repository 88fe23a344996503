// Package sources declares the abstract collaborator interfaces the engine
// consumes: the core is constructed against these interfaces and
// never reasons about whether a concrete implementation is backed by a
// file, a database, or an in-memory fixture.
package sources

import (
	"context"

	"github.com/oleamind/cropplanner/models"
)

// FieldSource supplies the immutable set of fields under management.
type FieldSource interface {
	GetAll(ctx context.Context) ([]models.Field, error)
}

// CropProfileSource supplies the crop growth profiles available for
// planning.
type CropProfileSource interface {
	GetAll(ctx context.Context) ([]models.CropProfile, error)
}

// WeatherSource supplies the weather series covering (at least) the
// planning window.
type WeatherSource interface {
	Get(ctx context.Context) (models.WeatherSeries, error)
}

// InteractionRuleSource supplies the interaction-rule set.
type InteractionRuleSource interface {
	GetRules(ctx context.Context) ([]models.InteractionRule, error)
}

// PlanSource supplies the current plan, for the adjust operation.
type PlanSource interface {
	Get(ctx context.Context) (models.Plan, error)
}

// MoveInstructionSource supplies the pending move instructions to apply
// during an adjust run.
type MoveInstructionSource interface {
	GetAll(ctx context.Context) ([]models.MoveInstruction, error)
}
