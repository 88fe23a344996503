// Package postgres adapts the sources interfaces onto a Postgres database
// via GORM (gorm.io/gorm, gorm.io/driver/postgres). The engine itself
// performs no I/O; this package is how a caller wires real persistence in
// behind the abstract Field/CropProfile/Weather/InteractionRule/Plan/
// MoveInstruction sources.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and migrates the schema this package owns.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := db.AutoMigrate(
		&fieldRow{}, &cropRow{}, &cropProfileRow{}, &weatherDayRow{},
		&interactionRuleRow{}, &planRow{}, &fieldScheduleRow{}, &allocationRow{},
		&moveInstructionRow{},
	); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return db, nil
}

// Store is the shared DB handle every per-interface adapter wraps. Its
// methods are deliberately not named GetAll/Get/GetRules so one struct can
// back every adapter without ambiguous method sets (each sources interface
// uses a different signature for a same-looking name).
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

// FieldAdapter implements sources.FieldSource against a Store.
type FieldAdapter struct{ *Store }

// ProfileAdapter implements sources.CropProfileSource against a Store.
type ProfileAdapter struct{ *Store }

// WeatherAdapter implements sources.WeatherSource against a Store.
type WeatherAdapter struct{ *Store }

// RuleAdapter implements sources.InteractionRuleSource against a Store.
type RuleAdapter struct{ *Store }

// PlanAdapter implements sources.PlanSource against a Store.
type PlanAdapter struct{ *Store }

// MoveAdapter implements sources.MoveInstructionSource against a Store.
type MoveAdapter struct{ *Store }
