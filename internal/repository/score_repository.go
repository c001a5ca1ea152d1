package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"planbot/internal/model"
)

// ScoreRepository owns the score ledger and the denormalized running total.
type ScoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// ApplyResolution commits a plan resolution atomically: the status flip, the
// ledger row and the total-score bump land in one transaction so the ledger
// sum can never diverge from User.TotalScore.
func (r *ScoreRepository) ApplyResolution(ctx context.Context, user *model.User, plan *model.Plan, status model.PlanStatus, scoreChange int, reason string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan.Status = status
		if err := tx.Model(plan).Update("status", status).Error; err != nil {
			return err
		}
		planID := plan.ID
		entry := model.ScoreLog{
			UserID:      user.ID,
			PlanID:      &planID,
			ScoreChange: scoreChange,
			Reason:      reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		user.TotalScore += scoreChange
		user.LastActive = time.Now()
		return tx.Model(user).Updates(map[string]interface{}{
			"total_score": user.TotalScore,
			"last_active": user.LastActive,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("apply resolution: %w", err)
	}
	return nil
}

// SumByUser returns the ledger total for a user.
func (r *ScoreRepository) SumByUser(ctx context.Context, userID uint) (int, error) {
	var sum *int
	if err := r.db.WithContext(ctx).Model(&model.ScoreLog{}).
		Select("sum(score_change)").
		Where("user_id = ?", userID).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// SumByUserBetween returns the ledger total for entries created in [from, to).
func (r *ScoreRepository) SumByUserBetween(ctx context.Context, userID uint, from, to time.Time) (int, error) {
	var sum *int
	if err := r.db.WithContext(ctx).Model(&model.ScoreLog{}).
		Select("sum(score_change)").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// ListByUser returns a user's ledger entries, newest first.
func (r *ScoreRepository) ListByUser(ctx context.Context, userID uint) ([]model.ScoreLog, error) {
	var logs []model.ScoreLog
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
