package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"planbot/internal/model"
	"planbot/internal/repository"
	"planbot/pkg/logger"
)

// DailyStats are the per-user counts pushed with the evening summary.
type DailyStats struct {
	Done    int
	Failed  int
	Pending int
}

// Notifier delivers reminder messages. The Telegram bot implements it;
// tests substitute a fake.
type Notifier interface {
	SendPlanReminder(ctx context.Context, user *model.User, plan *model.Plan) error
	SendDailySummary(ctx context.Context, user *model.User, stats DailyStats) error
	SendPendingPrompt(ctx context.Context, user *model.User, plan *model.Plan) error
}

// ReminderService runs the three timer jobs: the minute tick, the evening
// summary and the end-of-day pending check. All evaluate in one timezone.
type ReminderService struct {
	userRepo *repository.UserRepository
	planRepo *repository.PlanRepository
	notifier Notifier
	loc      *time.Location
	log      *zap.Logger
}

func NewReminderService(userRepo *repository.UserRepository, planRepo *repository.PlanRepository, notifier Notifier, loc *time.Location, log *zap.Logger) *ReminderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReminderService{
		userRepo: userRepo,
		planRepo: planRepo,
		notifier: notifier,
		loc:      loc,
		log:      log,
	}
}

// MinuteTick notifies users whose plan time equals the current minute.
// NotifiedAt is stamped only after the send succeeds; a failed delivery
// leaves the plan eligible for the next tick, which in practice means it is
// dropped once the minute passes.
func (s *ReminderService) MinuteTick(ctx context.Context, now time.Time) error {
	local := now.In(s.loc)
	plans, err := s.planRepo.DueForReminder(ctx, local, local.Format("15:04"))
	if err != nil {
		return err
	}

	for i := range plans {
		plan := &plans[i]
		user, err := s.userRepo.FindByID(ctx, plan.UserID)
		if err != nil {
			s.log.Warn("reminder user lookup failed",
				zap.Uint(logger.FieldPlanID, plan.ID), zap.Error(err))
			continue
		}
		if err := s.notifier.SendPlanReminder(ctx, user, plan); err != nil {
			s.log.Warn("reminder delivery failed",
				zap.Int64(logger.FieldUserID, user.TelegramID),
				zap.Uint(logger.FieldPlanID, plan.ID), zap.Error(err))
			continue
		}
		if err := s.planRepo.MarkNotified(ctx, plan, now); err != nil {
			s.log.Error("mark notified failed",
				zap.Uint(logger.FieldPlanID, plan.ID), zap.Error(err))
		}
	}
	return nil
}

// DailySummary pushes the evening report to every active user with at least
// one plan dated today, updating the streak first so a failed send cannot
// lose the streak change. Streak rules: any done plan increments; a
// failed-only day resets to zero; otherwise unchanged.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) error {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	local := now.In(s.loc)
	for i := range users {
		user := &users[i]
		plans, err := s.planRepo.ListByDate(ctx, user.ID, local)
		if err != nil {
			s.log.Warn("summary plan lookup failed",
				zap.Int64(logger.FieldUserID, user.TelegramID), zap.Error(err))
			continue
		}
		if len(plans) == 0 {
			continue
		}

		var stats DailyStats
		for _, plan := range plans {
			switch plan.Status {
			case model.PlanDone:
				stats.Done++
			case model.PlanFailed:
				stats.Failed++
			case model.PlanPending:
				stats.Pending++
			}
		}

		switch {
		case stats.Done > 0:
			if err := s.userRepo.SetStreak(ctx, user, user.Streak+1); err != nil {
				s.log.Error("streak update failed",
					zap.Int64(logger.FieldUserID, user.TelegramID), zap.Error(err))
				continue
			}
		case stats.Failed > 0:
			if err := s.userRepo.SetStreak(ctx, user, 0); err != nil {
				s.log.Error("streak reset failed",
					zap.Int64(logger.FieldUserID, user.TelegramID), zap.Error(err))
				continue
			}
		}

		if err := s.notifier.SendDailySummary(ctx, user, stats); err != nil {
			s.log.Warn("summary delivery failed",
				zap.Int64(logger.FieldUserID, user.TelegramID), zap.Error(err))
		}
	}
	return nil
}

// PendingCheck prompts manual resolution for every plan still pending today.
// It mutates nothing itself; state changes come from the user's button press.
func (s *ReminderService) PendingCheck(ctx context.Context, now time.Time) error {
	plans, err := s.planRepo.PendingByDate(ctx, now.In(s.loc))
	if err != nil {
		return err
	}

	for i := range plans {
		plan := &plans[i]
		user, err := s.userRepo.FindByID(ctx, plan.UserID)
		if err != nil {
			s.log.Warn("pending check user lookup failed",
				zap.Uint(logger.FieldPlanID, plan.ID), zap.Error(err))
			continue
		}
		if err := s.notifier.SendPendingPrompt(ctx, user, plan); err != nil {
			s.log.Warn("pending prompt delivery failed",
				zap.Int64(logger.FieldUserID, user.TelegramID),
				zap.Uint(logger.FieldPlanID, plan.ID), zap.Error(err))
		}
	}
	return nil
}
