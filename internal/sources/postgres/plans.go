package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oleamind/cropplanner/models"
	"gorm.io/gorm"
)

func isRecordNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

type planRow struct {
	OptimizationID string `gorm:"primaryKey"`
	CreatedAt      time.Time
	AlgorithmUsed  string
	TotalProfit    float64
	TotalCost      float64
	TotalRevenue   float64
	TimedOut       bool
	CropTotals     JSONColumn[[]models.CropTotal]
	RejectedSummary JSONColumn[[]models.RejectedCandidateSummary]
}

type fieldScheduleRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	PlanID    string `gorm:"index"`
	FieldID   string
	FieldName string
}

type allocationRow struct {
	AllocationID      string `gorm:"primaryKey"`
	FieldScheduleID   uint   `gorm:"index"`
	FieldID           string
	FieldName         string
	CropID            string
	CropName          string
	Start             models.DateOnly
	Completion        models.DateOnly
	GrowthDays        int
	AreaUsed          float64
	Quantity          float64
	YieldFactor       float64
	InteractionImpact float64
	TotalCost         float64
	ExpectedRevenue   float64
	Profit            float64
}

func (r allocationRow) toModel() models.CropAllocation {
	return models.CropAllocation{
		AllocationID: r.AllocationID, FieldID: r.FieldID, FieldName: r.FieldName,
		CropID: r.CropID, CropName: r.CropName, Start: r.Start, Completion: r.Completion,
		GrowthDays: r.GrowthDays, AreaUsed: r.AreaUsed, Quantity: r.Quantity,
		YieldFactor: r.YieldFactor, InteractionImpact: r.InteractionImpact,
		TotalCost: r.TotalCost, ExpectedRevenue: r.ExpectedRevenue, Profit: r.Profit,
	}
}

func allocationRowFromModel(scheduleID uint, a models.CropAllocation) allocationRow {
	return allocationRow{
		AllocationID: a.AllocationID, FieldScheduleID: scheduleID, FieldID: a.FieldID, FieldName: a.FieldName,
		CropID: a.CropID, CropName: a.CropName, Start: a.Start, Completion: a.Completion,
		GrowthDays: a.GrowthDays, AreaUsed: a.AreaUsed, Quantity: a.Quantity,
		YieldFactor: a.YieldFactor, InteractionImpact: a.InteractionImpact,
		TotalCost: a.TotalCost, ExpectedRevenue: a.ExpectedRevenue, Profit: a.Profit,
	}
}

// LoadPlan returns the most recently saved plan, for the adjust operation's
// "current plan" input. Returns a zero Plan if none has been saved yet.
func (s *Store) LoadPlan(ctx context.Context) (models.Plan, error) {
	var pr planRow
	if err := s.DB.WithContext(ctx).Order("created_at desc").First(&pr).Error; err != nil {
		if isRecordNotFound(err) {
			return models.Plan{}, nil
		}
		return models.Plan{}, fmt.Errorf("postgres: load plan: %w", err)
	}

	var scheduleRows []fieldScheduleRow
	if err := s.DB.WithContext(ctx).Where("plan_id = ?", pr.OptimizationID).Find(&scheduleRows).Error; err != nil {
		return models.Plan{}, fmt.Errorf("postgres: load field schedules: %w", err)
	}

	schedules := make([]models.FieldSchedule, 0, len(scheduleRows))
	for _, sr := range scheduleRows {
		var allocRows []allocationRow
		if err := s.DB.WithContext(ctx).Where("field_schedule_id = ?", sr.ID).Order("start asc").Find(&allocRows).Error; err != nil {
			return models.Plan{}, fmt.Errorf("postgres: load allocations for field %s: %w", sr.FieldID, err)
		}
		allocations := make([]models.CropAllocation, len(allocRows))
		for i, ar := range allocRows {
			allocations[i] = ar.toModel()
		}
		schedules = append(schedules, models.FieldSchedule{FieldID: sr.FieldID, FieldName: sr.FieldName, Allocations: allocations})
	}

	return models.Plan{
		OptimizationID: pr.OptimizationID, AlgorithmUsed: pr.AlgorithmUsed,
		TotalProfit: pr.TotalProfit, TotalCost: pr.TotalCost, TotalRevenue: pr.TotalRevenue,
		TimedOut: pr.TimedOut, FieldSchedules: schedules,
		CropTotals: pr.CropTotals.Value, RejectedCandidatesSummary: pr.RejectedSummary.Value,
	}, nil
}

// SavePlan persists a plan and its full tree of field schedules and
// allocations, replacing any existing rows for the same optimization id.
func (s *Store) SavePlan(ctx context.Context, plan models.Plan) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pr := planRow{
			OptimizationID: plan.OptimizationID, AlgorithmUsed: plan.AlgorithmUsed,
			TotalProfit: plan.TotalProfit, TotalCost: plan.TotalCost, TotalRevenue: plan.TotalRevenue,
			TimedOut: plan.TimedOut,
			CropTotals: JSONColumn[[]models.CropTotal]{Value: plan.CropTotals},
			RejectedSummary: JSONColumn[[]models.RejectedCandidateSummary]{Value: plan.RejectedCandidatesSummary},
		}
		if err := tx.Save(&pr).Error; err != nil {
			return fmt.Errorf("postgres: save plan %s: %w", plan.OptimizationID, err)
		}

		var staleSchedules []fieldScheduleRow
		if err := tx.Where("plan_id = ?", plan.OptimizationID).Find(&staleSchedules).Error; err != nil {
			return fmt.Errorf("postgres: load prior field schedules: %w", err)
		}
		for _, st := range staleSchedules {
			if err := tx.Where("field_schedule_id = ?", st.ID).Delete(&allocationRow{}).Error; err != nil {
				return fmt.Errorf("postgres: clear allocations for schedule %d: %w", st.ID, err)
			}
		}
		if err := tx.Where("plan_id = ?", plan.OptimizationID).Delete(&fieldScheduleRow{}).Error; err != nil {
			return fmt.Errorf("postgres: clear field schedules: %w", err)
		}

		for _, fs := range plan.FieldSchedules {
			sr := fieldScheduleRow{PlanID: plan.OptimizationID, FieldID: fs.FieldID, FieldName: fs.FieldName}
			if err := tx.Create(&sr).Error; err != nil {
				return fmt.Errorf("postgres: save field schedule %s: %w", fs.FieldID, err)
			}
			for _, a := range fs.Allocations {
				row := allocationRowFromModel(sr.ID, a)
				if err := tx.Save(&row).Error; err != nil {
					return fmt.Errorf("postgres: save allocation %s: %w", a.AllocationID, err)
				}
			}
		}
		return nil
	})
}

func (a PlanAdapter) Get(ctx context.Context) (models.Plan, error) { return a.LoadPlan(ctx) }
