package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbot/internal/model"
	"planbot/internal/repository"
	"planbot/internal/service"
	"planbot/internal/testutil"
)

func TestScoreService_ResolvePlan_Done(t *testing.T) {
	db := testutil.NewTestDB(t)
	scoreRepo := repository.NewScoreRepository(db)
	svc := service.NewScoreService(scoreRepo, -3, time.UTC)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	plan := testutil.CreatePlan(t, db, user, "Erta turish", "06:00", time.Now().UTC())
	plan.ScoreValue = 7
	require.NoError(t, db.Model(plan).Update("score_value", 7).Error)

	change, err := svc.ResolvePlan(ctx, user, plan, true)
	require.NoError(t, err)
	assert.Equal(t, 7, change)
	assert.Equal(t, model.PlanDone, plan.Status)

	logs, err := scoreRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 7, logs[0].ScoreChange)
	assert.Contains(t, logs[0].Reason, "Erta turish")
}

func TestScoreService_ResolvePlan_Failed_FixedPenalty(t *testing.T) {
	db := testutil.NewTestDB(t)
	scoreRepo := repository.NewScoreRepository(db)
	svc := service.NewScoreService(scoreRepo, -3, time.UTC)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	plan := testutil.CreatePlan(t, db, user, "Sport qilish", "18:00", time.Now().UTC())
	require.NoError(t, db.Model(plan).Update("score_value", 10).Error)
	plan.ScoreValue = 10

	change, err := svc.ResolvePlan(ctx, user, plan, false)
	require.NoError(t, err)
	// The penalty ignores the plan's own score value.
	assert.Equal(t, -3, change)
	assert.Equal(t, model.PlanFailed, plan.Status)
}

func TestScoreService_ResolvePlan_SecondPressIsHarmless(t *testing.T) {
	db := testutil.NewTestDB(t)
	scoreRepo := repository.NewScoreRepository(db)
	svc := service.NewScoreService(scoreRepo, -3, time.UTC)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	plan := testutil.CreatePlan(t, db, user, "Erta turish", "06:00", time.Now().UTC())

	change, err := svc.ResolvePlan(ctx, user, plan, true)
	require.NoError(t, err)
	assert.Equal(t, 5, change)

	change, err = svc.ResolvePlan(ctx, user, plan, false)
	require.NoError(t, err)
	assert.Equal(t, 0, change)

	logs, err := scoreRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	reloaded, err := repository.NewUserRepository(db).FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.TotalScore)
}

func TestScoreService_LedgerMatchesTotal(t *testing.T) {
	db := testutil.NewTestDB(t)
	scoreRepo := repository.NewScoreRepository(db)
	svc := service.NewScoreService(scoreRepo, -3, time.UTC)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	today := time.Now().UTC()
	outcomes := []bool{true, false, true, true, false}
	for i, done := range outcomes {
		plan := testutil.CreatePlan(t, db, user, "Reja", "", today.AddDate(0, 0, -i))
		_, err := svc.ResolvePlan(ctx, user, plan, done)
		require.NoError(t, err)
	}

	sum, err := svc.LedgerSum(ctx, user)
	require.NoError(t, err)

	reloaded, err := repository.NewUserRepository(db).FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, reloaded.TotalScore, sum)
	assert.Equal(t, 5+5+5-3-3, sum)
}

func TestScoreService_TodayScore(t *testing.T) {
	db := testutil.NewTestDB(t)
	scoreRepo := repository.NewScoreRepository(db)
	svc := service.NewScoreService(scoreRepo, -3, time.UTC)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	now := time.Now().UTC()
	first := testutil.CreatePlan(t, db, user, "Erta turish", "06:00", now)
	second := testutil.CreatePlan(t, db, user, "Sport qilish", "18:00", now)

	_, err := svc.ResolvePlan(ctx, user, first, true)
	require.NoError(t, err)
	_, err = svc.ResolvePlan(ctx, user, second, false)
	require.NoError(t, err)

	score, err := svc.TodayScore(ctx, user, now)
	require.NoError(t, err)
	assert.Equal(t, 2, score)
}

func TestStatusTitle(t *testing.T) {
	assert.Equal(t, "😴 Harakatsiz", service.StatusTitle(0, 0))
	assert.Equal(t, "🌱 Yangi boshlovchi", service.StatusTitle(10, 0))
	assert.Equal(t, "📈 O'sishda", service.StatusTitle(60, 0))
	assert.Equal(t, "🔥 Focused", service.StatusTitle(200, 5))
	assert.Equal(t, "💎 Intizomli", service.StatusTitle(350, 8))
	assert.Equal(t, "🏆 Ustoz", service.StatusTitle(600, 20))
	// Score alone is not enough for the streak-gated ranks.
	assert.Equal(t, "📈 O'sishda", service.StatusTitle(600, 0))
}
