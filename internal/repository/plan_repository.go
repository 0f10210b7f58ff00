package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"monthlyzen/internal/model"
)

// PlanRepository persists generated plans together with their tasks.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// CreateWithTasks stores the plan and its tasks in one transaction so a
// failed insert never leaves a half-written plan behind.
func (r *PlanRepository) CreateWithTasks(ctx context.Context, plan *model.Plan, tasks []model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		for i := range tasks {
			tasks[i].PlanID = &plan.ID
			tasks[i].UserID = plan.UserID
			if tasks[i].ResolutionIDs == nil {
				tasks[i].ResolutionIDs = []int64{}
			}
		}
		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return fmt.Errorf("create plan tasks: %w", err)
			}
		}
		return nil
	})
}

// FindLatest returns the user's most recent plan, nil when none exists.
func (r *PlanRepository) FindLatest(ctx context.Context, userID uint) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").First(&plan).Error
	switch {
	case err == nil:
		return &plan, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("find plan: %w", err)
	}
}
