package service

import (
	"context"
	"fmt"
	"time"

	"planbot/internal/model"
	"planbot/internal/repository"
)

// ScoreService applies score rules to plan resolutions and reads the ledger.
type ScoreService struct {
	scoreRepo   *repository.ScoreRepository
	scoreFailed int
	loc         *time.Location
}

func NewScoreService(scoreRepo *repository.ScoreRepository, scoreFailed int, loc *time.Location) *ScoreService {
	return &ScoreService{scoreRepo: scoreRepo, scoreFailed: scoreFailed, loc: loc}
}

// ResolvePlan settles a pending plan as done or failed and returns the
// applied score change. A plan that is no longer pending yields zero and no
// ledger entry, so duplicate button presses stay harmless. Done rewards the
// plan's own score value; failed costs the fixed penalty regardless of it.
func (s *ScoreService) ResolvePlan(ctx context.Context, user *model.User, plan *model.Plan, done bool) (int, error) {
	if plan.Status != model.PlanPending {
		return 0, nil
	}

	var (
		status model.PlanStatus
		change int
		reason string
	)
	if done {
		status = model.PlanDone
		change = plan.ScoreValue
		reason = fmt.Sprintf("✅ '%s' bajarildi", plan.Title)
	} else {
		status = model.PlanFailed
		change = s.scoreFailed
		reason = fmt.Sprintf("❌ '%s' bajarilmadi", plan.Title)
	}

	if err := s.scoreRepo.ApplyResolution(ctx, user, plan, status, change, reason); err != nil {
		return 0, err
	}
	return change, nil
}

// TodayScore sums the ledger for the current day in the bot timezone.
func (s *ScoreService) TodayScore(ctx context.Context, user *model.User, now time.Time) (int, error) {
	local := now.In(s.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return s.scoreRepo.SumByUserBetween(ctx, user.ID, from, from.AddDate(0, 0, 1))
}

// LedgerSum returns the full ledger total for a user, for reconciliation
// against TotalScore.
func (s *ScoreService) LedgerSum(ctx context.Context, user *model.User) (int, error) {
	return s.scoreRepo.SumByUser(ctx, user.ID)
}

// StatusTitle maps score and streak onto a rank shown in status screens.
func StatusTitle(totalScore, streak int) string {
	switch {
	case totalScore >= 500 && streak >= 14:
		return "🏆 Ustoz"
	case totalScore >= 300 && streak >= 7:
		return "💎 Intizomli"
	case totalScore >= 150 && streak >= 3:
		return "🔥 Focused"
	case totalScore >= 50:
		return "📈 O'sishda"
	case totalScore > 0:
		return "🌱 Yangi boshlovchi"
	default:
		return "😴 Harakatsiz"
	}
}
