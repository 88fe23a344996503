package postgres

import (
	"context"
	"fmt"

	"github.com/oleamind/cropplanner/models"
)

type interactionRuleRow struct {
	ID          string `gorm:"primaryKey"`
	Type        string
	SourceGroup string
	TargetGroup string
	ImpactRatio float64
	Directional bool
}

func (r interactionRuleRow) toModel() models.InteractionRule {
	return models.InteractionRule{
		ID: r.ID, Type: models.RuleType(r.Type), SourceGroup: r.SourceGroup,
		TargetGroup: r.TargetGroup, ImpactRatio: r.ImpactRatio, Directional: r.Directional,
	}
}

func interactionRuleRowFromModel(r models.InteractionRule) interactionRuleRow {
	return interactionRuleRow{
		ID: r.ID, Type: string(r.Type), SourceGroup: r.SourceGroup,
		TargetGroup: r.TargetGroup, ImpactRatio: r.ImpactRatio, Directional: r.Directional,
	}
}

// LoadRules returns the full interaction-rule set.
func (s *Store) LoadRules(ctx context.Context) ([]models.InteractionRule, error) {
	var rows []interactionRuleRow
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: load interaction rules: %w", err)
	}
	out := make([]models.InteractionRule, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// SaveRules upserts the given interaction rules.
func (s *Store) SaveRules(ctx context.Context, rules []models.InteractionRule) error {
	for _, r := range rules {
		row := interactionRuleRowFromModel(r)
		if err := s.DB.WithContext(ctx).Save(&row).Error; err != nil {
			return fmt.Errorf("postgres: save interaction rule %s: %w", r.ID, err)
		}
	}
	return nil
}

func (a RuleAdapter) GetRules(ctx context.Context) ([]models.InteractionRule, error) {
	return a.LoadRules(ctx)
}
