package postgres

import (
	"context"
	"fmt"

	"github.com/oleamind/cropplanner/models"
)

type moveInstructionRow struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	AllocationID  string `gorm:"index"`
	Action        string
	TargetFieldID *string
	TargetCropID  *string
	TargetStart   *models.DateOnly
	TargetArea    *float64
}

func (r moveInstructionRow) toModel() models.MoveInstruction {
	return models.MoveInstruction{
		AllocationID: r.AllocationID, Action: models.MoveAction(r.Action),
		TargetFieldID: r.TargetFieldID, TargetCropID: r.TargetCropID,
		TargetStart: r.TargetStart, TargetArea: r.TargetArea,
	}
}

func moveInstructionRowFromModel(m models.MoveInstruction) moveInstructionRow {
	return moveInstructionRow{
		AllocationID: m.AllocationID, Action: string(m.Action),
		TargetFieldID: m.TargetFieldID, TargetCropID: m.TargetCropID,
		TargetStart: m.TargetStart, TargetArea: m.TargetArea,
	}
}

// LoadMoves returns the pending move instructions queued for the next
// adjust run.
func (s *Store) LoadMoves(ctx context.Context) ([]models.MoveInstruction, error) {
	var rows []moveInstructionRow
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: load move instructions: %w", err)
	}
	out := make([]models.MoveInstruction, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// QueueMoves appends move instructions to the pending queue.
func (s *Store) QueueMoves(ctx context.Context, moves []models.MoveInstruction) error {
	for _, m := range moves {
		row := moveInstructionRowFromModel(m)
		if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("postgres: queue move instruction: %w", err)
		}
	}
	return nil
}

// ClearMoves deletes every pending move instruction, called after a
// successful adjust run has consumed them.
func (s *Store) ClearMoves(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).Where("1 = 1").Delete(&moveInstructionRow{}).Error; err != nil {
		return fmt.Errorf("postgres: clear move instructions: %w", err)
	}
	return nil
}

func (a MoveAdapter) GetAll(ctx context.Context) ([]models.MoveInstruction, error) {
	return a.LoadMoves(ctx)
}
