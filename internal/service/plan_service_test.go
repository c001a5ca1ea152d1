package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbot/internal/ai"
	"planbot/internal/model"
	"planbot/internal/repository"
	"planbot/internal/service"
	"planbot/internal/testutil"
)

func TestPlanService_CreateFromDrafts(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewPlanService(repository.NewPlanRepository(db), time.UTC)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	plans, err := svc.CreateFromDrafts(ctx, user, []ai.PlanDraft{
		{Title: "Erta turish", ScheduledTime: "06:00", ScoreValue: 5},
		{Title: "Kitob o'qish", ScoreValue: 0},
		{Title: "Sport qilish", ScheduledTime: "18:00", ScoreValue: 8, ForTomorrow: true},
	}, now)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	today := model.DateOf(now)
	assert.Equal(t, today, plans[0].PlanDate)
	assert.Equal(t, model.PlanPending, plans[0].Status)

	// Unset score falls back to the default.
	assert.Equal(t, ai.DefaultScoreValue, plans[1].ScoreValue)
	assert.Equal(t, "", plans[1].ScheduledTime)

	assert.Equal(t, today.AddDate(0, 0, 1), plans[2].PlanDate)
	assert.Equal(t, 8, plans[2].ScoreValue)

	todayPlans, err := svc.TodayPlans(ctx, user, now)
	require.NoError(t, err)
	assert.Len(t, todayPlans, 2)
}

func TestPlanService_CreateFromDrafts_EmptyTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewPlanService(repository.NewPlanRepository(db), time.UTC)

	user := testutil.CreateUser(t, db, 100)
	_, err := svc.CreateFromDrafts(context.Background(), user, []ai.PlanDraft{{Title: ""}}, time.Now())
	assert.Error(t, err)
}

func TestPlanService_MoveToTomorrow_OnlyPending(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewPlanService(repository.NewPlanRepository(db), time.UTC)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	plan := testutil.CreatePlan(t, db, user, "Kitob o'qish", "21:00", time.Now().UTC())

	moved, err := svc.MoveToTomorrow(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPending, moved.Status)
	assert.Equal(t, model.PlanFailed, plan.Status)

	// The failed original cannot be moved again.
	_, err = svc.MoveToTomorrow(ctx, plan)
	assert.ErrorIs(t, err, service.ErrAlreadyResolved)
}
