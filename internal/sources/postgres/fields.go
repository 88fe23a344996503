package postgres

import (
	"context"
	"fmt"

	"github.com/oleamind/cropplanner/models"
)

type fieldRow struct {
	ID               string `gorm:"primaryKey"`
	Name             string
	AreaSqMeters     float64
	DailyFixedCost   float64
	FallowPeriodDays int
	Groups           StringSlice
}

func (r fieldRow) toModel() models.Field {
	return models.Field{
		ID: r.ID, Name: r.Name, AreaSqMeters: r.AreaSqMeters,
		DailyFixedCost: r.DailyFixedCost, FallowPeriodDays: r.FallowPeriodDays, Groups: r.Groups.Value,
	}
}

func fieldRowFromModel(f models.Field) fieldRow {
	return fieldRow{
		ID: f.ID, Name: f.Name, AreaSqMeters: f.AreaSqMeters,
		DailyFixedCost: f.DailyFixedCost, FallowPeriodDays: f.FallowPeriodDays, Groups: strSlice(f.Groups),
	}
}

// LoadFields returns every field under management.
func (s *Store) LoadFields(ctx context.Context) ([]models.Field, error) {
	var rows []fieldRow
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: load fields: %w", err)
	}
	out := make([]models.Field, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// SaveFields upserts the given fields.
func (s *Store) SaveFields(ctx context.Context, fields []models.Field) error {
	for _, f := range fields {
		row := fieldRowFromModel(f)
		if err := s.DB.WithContext(ctx).Save(&row).Error; err != nil {
			return fmt.Errorf("postgres: save field %s: %w", f.ID, err)
		}
	}
	return nil
}

func (a FieldAdapter) GetAll(ctx context.Context) ([]models.Field, error) { return a.LoadFields(ctx) }
