package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"planbot/internal/model"
	"planbot/internal/repository"
	"planbot/internal/service"
	"planbot/internal/testutil"
)

func newAdminService(t *testing.T, superID int64) (*service.AdminService, *repository.AdminRepository, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	adminRepo := repository.NewAdminRepository(db)
	svc := service.NewAdminService(adminRepo, repository.NewUserRepository(db), repository.NewPlanRepository(db), superID)
	return svc, adminRepo, db
}

func TestAdminService_IsAdmin(t *testing.T) {
	svc, _, _ := newAdminService(t, 777)
	ctx := context.Background()

	ok, err := svc.IsAdmin(ctx, 777)
	require.NoError(t, err)
	assert.True(t, ok, "configured super ID is always an admin")

	ok, err = svc.IsAdmin(ctx, 123)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Add(ctx, 123, "Yordamchi")
	require.NoError(t, err)

	ok, err = svc.IsAdmin(ctx, 123)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdminService_Add_Duplicate(t *testing.T) {
	svc, _, _ := newAdminService(t, 777)
	ctx := context.Background()

	admin, err := svc.Add(ctx, 123, "Yordamchi")
	require.NoError(t, err)
	require.NotNil(t, admin)

	again, err := svc.Add(ctx, 123, "Yordamchi")
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestAdminService_Remove_GuardsSuper(t *testing.T) {
	svc, adminRepo, _ := newAdminService(t, 777)
	ctx := context.Background()

	// Configured super ID cannot be removed even without a row.
	removed, err := svc.Remove(ctx, 777)
	require.NoError(t, err)
	assert.False(t, removed)

	// A stored super-admin row is equally protected.
	require.NoError(t, adminRepo.Create(ctx, &model.Admin{TelegramID: 555, FullName: "Asoschi", IsSuper: true}))
	removed, err = svc.Remove(ctx, 555)
	require.NoError(t, err)
	assert.False(t, removed)

	// Regular admins come and go.
	_, err = svc.Add(ctx, 123, "Yordamchi")
	require.NoError(t, err)
	removed, err = svc.Remove(ctx, 123)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, 999)
	require.NoError(t, err)
	assert.False(t, removed, "unknown ID removes nothing")
}

func TestAdminService_UserStats(t *testing.T) {
	svc, _, db := newAdminService(t, 777)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, 100)
	today := time.Now().UTC()
	testutil.CreatePlan(t, db, user, "Kutilmoqda", "", today)
	done := testutil.CreatePlan(t, db, user, "Bajarilgan", "06:00", today)
	require.NoError(t, db.Model(done).Update("status", model.PlanDone).Error)
	failed := testutil.CreatePlan(t, db, user, "Bajarilmagan", "18:00", today.AddDate(0, 0, -1))
	require.NoError(t, db.Model(failed).Update("status", model.PlanFailed).Error)

	stats, err := svc.UserStats(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.PlanStats{Total: 3, Done: 1, Failed: 1, Pending: 1}, stats)
}

func TestAdminService_Overview(t *testing.T) {
	svc, _, db := newAdminService(t, 777)
	ctx := context.Background()

	today := time.Now().UTC()
	for i, score := range []int{40, 90, 10, 0} {
		user := testutil.CreateUser(t, db, int64(i+1))
		require.NoError(t, db.Model(user).Update("total_score", score).Error)
		if score > 0 {
			testutil.CreatePlan(t, db, user, "Reja", "", today)
		}
	}

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), overview.Total)
	assert.Equal(t, int64(3), overview.Active)
	assert.Equal(t, int64(1), overview.Inactive)

	require.Len(t, overview.TopUsers, 3)
	assert.Equal(t, 90, overview.TopUsers[0].TotalScore)
	assert.Equal(t, 40, overview.TopUsers[1].TotalScore)
	assert.Equal(t, 10, overview.TopUsers[2].TotalScore)
}
