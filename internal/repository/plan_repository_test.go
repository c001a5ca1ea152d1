package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbot/internal/model"
	"planbot/internal/repository"
	"planbot/internal/testutil"
)

func TestPlanRepository_ListByDate_OrdersByTime(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPlanRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	today := time.Now().UTC()
	testutil.CreatePlan(t, db, user, "Sport qilish", "18:00", today)
	testutil.CreatePlan(t, db, user, "Erta turish", "06:00", today)
	testutil.CreatePlan(t, db, user, "Kitob o'qish", "09:00", today.AddDate(0, 0, 1))

	plans, err := repo.ListByDate(ctx, user.ID, today)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Erta turish", plans[0].Title)
	assert.Equal(t, "Sport qilish", plans[1].Title)
}

func TestPlanRepository_DueForReminder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPlanRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	today := time.Now().UTC()

	due := testutil.CreatePlan(t, db, user, "Erta turish", "07:00", today)
	testutil.CreatePlan(t, db, user, "Boshqa vaqt", "08:00", today)
	testutil.CreatePlan(t, db, user, "Vaqtsiz", "", today)
	testutil.CreatePlan(t, db, user, "Ertaga", "07:00", today.AddDate(0, 0, 1))

	resolved := testutil.CreatePlan(t, db, user, "Bajarilgan", "07:00", today)
	require.NoError(t, db.Model(resolved).Update("status", model.PlanDone).Error)

	plans, err := repo.DueForReminder(ctx, today, "07:00")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, due.ID, plans[0].ID)

	// Once notified, the plan drops out of the due set.
	require.NoError(t, repo.MarkNotified(ctx, due, time.Now()))
	plans, err = repo.DueForReminder(ctx, today, "07:00")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlanRepository_MoveToTomorrow_ForksPlan(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPlanRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	today := time.Now().UTC()
	original := testutil.CreatePlan(t, db, user, "Kitob o'qish", "21:00", today)

	moved, err := repo.MoveToTomorrow(ctx, original)
	require.NoError(t, err)
	require.NotEqual(t, original.ID, moved.ID)

	assert.Equal(t, "Kitob o'qish", moved.Title)
	assert.Equal(t, "21:00", moved.ScheduledTime)
	assert.Equal(t, model.PlanPending, moved.Status)
	assert.Equal(t, model.DateOf(today).AddDate(0, 0, 1), moved.PlanDate.UTC())

	reloaded, err := repo.FindByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanFailed, reloaded.Status)
}

func TestPlanRepository_Delete_RemovesLedgerRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	planRepo := repository.NewPlanRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	plan := testutil.CreatePlan(t, db, user, "Erta turish", "06:00", time.Now().UTC())
	require.NoError(t, scoreRepo.ApplyResolution(ctx, user, plan, model.PlanDone, 5, "bajarildi"))

	require.NoError(t, planRepo.Delete(ctx, plan))

	logs, err := scoreRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	// The applied score stays on the running total.
	reloaded, err := repository.NewUserRepository(db).FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.TotalScore)
}

func TestScoreRepository_ApplyResolution_Atomic(t *testing.T) {
	db := testutil.NewTestDB(t)
	scoreRepo := repository.NewScoreRepository(db)
	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	today := time.Now().UTC()
	first := testutil.CreatePlan(t, db, user, "Erta turish", "06:00", today)
	second := testutil.CreatePlan(t, db, user, "Sport qilish", "18:00", today)

	require.NoError(t, scoreRepo.ApplyResolution(ctx, user, first, model.PlanDone, 5, "bajarildi"))
	require.NoError(t, scoreRepo.ApplyResolution(ctx, user, second, model.PlanFailed, -3, "bajarilmadi"))

	reloaded, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.TotalScore)

	sum, err := scoreRepo.SumByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, reloaded.TotalScore, sum)

	logs, err := scoreRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
}

func TestUserRepository_UpsertFromTelegram(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.UpsertFromTelegram(ctx, 42, "Ali Valiyev", "alivaliyev")
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	// Second upsert refreshes profile info without duplicating the row.
	updated, err := repo.UpsertFromTelegram(ctx, 42, "Ali V.", "alivaliyev")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	reloaded, err := repo.FindByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ali V.", reloaded.FullName)
}
