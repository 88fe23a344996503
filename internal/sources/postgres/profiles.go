package postgres

import (
	"context"
	"fmt"

	"github.com/oleamind/cropplanner/models"
)

type cropRow struct {
	ID               string `gorm:"primaryKey"`
	Name             string
	Variety          string
	AreaPerUnit      float64
	RevenuePerArea   *float64
	RevenueCapSeason *float64
	Groups           StringSlice
}

func (r cropRow) toModel() models.Crop {
	return models.Crop{
		ID: r.ID, Name: r.Name, Variety: r.Variety, AreaPerUnit: r.AreaPerUnit,
		RevenuePerArea: r.RevenuePerArea, RevenueCapSeason: r.RevenueCapSeason, Groups: r.Groups.Value,
	}
}

func cropRowFromModel(c models.Crop) cropRow {
	return cropRow{
		ID: c.ID, Name: c.Name, Variety: c.Variety, AreaPerUnit: c.AreaPerUnit,
		RevenuePerArea: c.RevenuePerArea, RevenueCapSeason: c.RevenueCapSeason, Groups: strSlice(c.Groups),
	}
}

// cropProfileRow holds the ordered stage requirements for one crop; stored
// as a single JSON column rather than a child table, since stages are
// always read and written as one unit.
type cropProfileRow struct {
	CropID string `gorm:"primaryKey"`
	Stages JSONColumn[[]models.StageRequirement]
}

// LoadCropProfiles returns every crop profile available for planning.
func (s *Store) LoadCropProfiles(ctx context.Context) ([]models.CropProfile, error) {
	var crops []cropRow
	if err := s.DB.WithContext(ctx).Find(&crops).Error; err != nil {
		return nil, fmt.Errorf("postgres: load crops: %w", err)
	}
	var profiles []cropProfileRow
	if err := s.DB.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("postgres: load crop profiles: %w", err)
	}
	stagesByCrop := make(map[string][]models.StageRequirement, len(profiles))
	for _, p := range profiles {
		stagesByCrop[p.CropID] = p.Stages.Value
	}
	out := make([]models.CropProfile, 0, len(crops))
	for _, c := range crops {
		out = append(out, models.CropProfile{Crop: c.toModel(), Stages: stagesByCrop[c.ID]})
	}
	return out, nil
}

// SaveCropProfiles upserts the given crop profiles.
func (s *Store) SaveCropProfiles(ctx context.Context, profiles []models.CropProfile) error {
	for _, p := range profiles {
		cr := cropRowFromModel(p.Crop)
		if err := s.DB.WithContext(ctx).Save(&cr).Error; err != nil {
			return fmt.Errorf("postgres: save crop %s: %w", p.Crop.ID, err)
		}
		pr := cropProfileRow{CropID: p.Crop.ID, Stages: JSONColumn[[]models.StageRequirement]{Value: p.Stages}}
		if err := s.DB.WithContext(ctx).Save(&pr).Error; err != nil {
			return fmt.Errorf("postgres: save crop profile %s: %w", p.Crop.ID, err)
		}
	}
	return nil
}

func (a ProfileAdapter) GetAll(ctx context.Context) ([]models.CropProfile, error) {
	return a.LoadCropProfiles(ctx)
}
