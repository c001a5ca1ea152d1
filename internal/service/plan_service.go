package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planbot/internal/ai"
	"planbot/internal/model"
	"planbot/internal/repository"
)

// ErrAlreadyResolved marks an action that is only valid on a pending plan.
var ErrAlreadyResolved = errors.New("plan already resolved")

// PlanService wraps plan-related business logic.
type PlanService struct {
	planRepo *repository.PlanRepository
	loc      *time.Location
}

func NewPlanService(planRepo *repository.PlanRepository, loc *time.Location) *PlanService {
	return &PlanService{planRepo: planRepo, loc: loc}
}

// CreateFromDrafts persists confirmed candidates. Each draft is dated to
// today or tomorrow in the bot timezone according to its ForTomorrow flag.
func (s *PlanService) CreateFromDrafts(ctx context.Context, user *model.User, drafts []ai.PlanDraft, now time.Time) ([]*model.Plan, error) {
	today := model.DateOf(now.In(s.loc))
	plans := make([]*model.Plan, 0, len(drafts))
	for _, draft := range drafts {
		if draft.Title == "" {
			return nil, fmt.Errorf("draft title is required")
		}
		date := today
		if draft.ForTomorrow {
			date = today.AddDate(0, 0, 1)
		}
		score := draft.ScoreValue
		if score <= 0 {
			score = ai.DefaultScoreValue
		}
		plans = append(plans, &model.Plan{
			UserID:        user.ID,
			Title:         draft.Title,
			Description:   draft.Description,
			ScheduledTime: draft.ScheduledTime,
			PlanDate:      date,
			Status:        model.PlanPending,
			ScoreValue:    score,
		})
	}
	if err := s.planRepo.CreateBatch(ctx, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// TodayPlans lists the user's plans for the current day in the bot timezone.
func (s *PlanService) TodayPlans(ctx context.Context, user *model.User, now time.Time) ([]model.Plan, error) {
	return s.planRepo.ListByDate(ctx, user.ID, now.In(s.loc))
}

func (s *PlanService) GetPlan(ctx context.Context, planID uint) (*model.Plan, error) {
	return s.planRepo.FindByID(ctx, planID)
}

// MoveToTomorrow forks a pending plan onto the next day, failing the
// original. Resolved plans cannot be moved.
func (s *PlanService) MoveToTomorrow(ctx context.Context, plan *model.Plan) (*model.Plan, error) {
	if plan.Status != model.PlanPending {
		return nil, ErrAlreadyResolved
	}
	return s.planRepo.MoveToTomorrow(ctx, plan)
}

// DeletePlan removes the plan and its ledger rows. Already-applied score
// changes stay on the user's total.
func (s *PlanService) DeletePlan(ctx context.Context, plan *model.Plan) error {
	return s.planRepo.Delete(ctx, plan)
}
