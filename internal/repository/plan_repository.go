package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"planbot/internal/model"
)

// PlanRepository handles CRUD and reminder queries for plans.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// CreateBatch stores a set of confirmed plans in one transaction.
func (r *PlanRepository) CreateBatch(ctx context.Context, plans []*model.Plan) error {
	if len(plans) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, plan := range plans {
			if err := tx.Create(plan).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create plans: %w", err)
	}
	return nil
}

// ListByDate returns a user's plans for one calendar day, timed ones first.
func (r *PlanRepository) ListByDate(ctx context.Context, userID uint, date time.Time) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND plan_date = ?", userID, model.DateOf(date)).
		Order("scheduled_time ASC, id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) ListByUser(ctx context.Context, userID uint) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) FindByID(ctx context.Context, planID uint) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).First(&plan, planID).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// DueForReminder returns pending, not-yet-notified plans scheduled for the
// given day and wall-clock minute.
func (r *PlanRepository) DueForReminder(ctx context.Context, date time.Time, clock string) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).
		Where("status = ? AND plan_date = ? AND scheduled_time = ? AND notified_at IS NULL",
			model.PlanPending, model.DateOf(date), clock).
		Order("id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// PendingByDate returns every still-pending plan for the day, across users.
func (r *PlanRepository) PendingByDate(ctx context.Context, date time.Time) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).
		Where("status = ? AND plan_date = ?", model.PlanPending, model.DateOf(date)).
		Order("user_id ASC, id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// MarkNotified stamps the reminder time once a notification was delivered.
func (r *PlanRepository) MarkNotified(ctx context.Context, plan *model.Plan, at time.Time) error {
	plan.NotifiedAt = &at
	if err := r.db.WithContext(ctx).Model(plan).Update("notified_at", at).Error; err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// MoveToTomorrow forks a pending plan: the original is forced to failed and a
// fresh pending copy is created for the next day. No score entry is written.
func (r *PlanRepository) MoveToTomorrow(ctx context.Context, plan *model.Plan) (*model.Plan, error) {
	next := &model.Plan{
		UserID:        plan.UserID,
		Title:         plan.Title,
		Description:   plan.Description,
		ScheduledTime: plan.ScheduledTime,
		PlanDate:      plan.PlanDate.AddDate(0, 0, 1),
		Status:        model.PlanPending,
		ScoreValue:    plan.ScoreValue,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(next).Error; err != nil {
			return err
		}
		plan.Status = model.PlanFailed
		return tx.Model(plan).Update("status", model.PlanFailed).Error
	})
	if err != nil {
		return nil, fmt.Errorf("move plan to tomorrow: %w", err)
	}
	return next, nil
}

// Delete removes a plan together with its score-log rows. The user's total
// score is deliberately left untouched; the ledger entries already applied
// stay authoritative.
func (r *PlanRepository) Delete(ctx context.Context, plan *model.Plan) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&model.ScoreLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(plan).Error
	})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// CountByStatus returns per-status totals for one user across all days.
func (r *PlanRepository) CountByStatus(ctx context.Context, userID uint) (map[model.PlanStatus]int64, error) {
	type row struct {
		Status model.PlanStatus
		Total  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Plan{}).
		Select("status, count(*) as total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.PlanStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// UserIDsWithPlans returns the distinct set of users that ever created a plan.
func (r *PlanRepository) UserIDsWithPlans(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Plan{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
