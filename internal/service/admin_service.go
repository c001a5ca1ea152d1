package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"planbot/internal/model"
	"planbot/internal/repository"
)

// PlanStats are lifetime per-user plan counts.
type PlanStats struct {
	Total   int64
	Done    int64
	Failed  int64
	Pending int64
}

// OverviewStats summarize the whole user base for the admin panel.
type OverviewStats struct {
	Total    int64
	Active   int64 // users with at least one plan ever
	Inactive int64
	TopUsers []model.User // top 3 by total score
}

// AdminService manages the allowlist and admin-facing statistics. The
// configured super ID is always an admin and can never be removed.
type AdminService struct {
	adminRepo *repository.AdminRepository
	userRepo  *repository.UserRepository
	planRepo  *repository.PlanRepository
	superID   int64
}

func NewAdminService(adminRepo *repository.AdminRepository, userRepo *repository.UserRepository, planRepo *repository.PlanRepository, superID int64) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		planRepo:  planRepo,
		superID:   superID,
	}
}

func (s *AdminService) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	if s.superID != 0 && telegramID == s.superID {
		return true, nil
	}
	return s.adminRepo.Exists(ctx, telegramID)
}

// Add puts a Telegram ID on the allowlist. Returns nil if already present.
func (s *AdminService) Add(ctx context.Context, telegramID int64, fullName string) (*model.Admin, error) {
	exists, err := s.adminRepo.Exists(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	admin := &model.Admin{TelegramID: telegramID, FullName: fullName}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Remove drops an admin from the allowlist. The super admin and the
// configured super ID are not removable.
func (s *AdminService) Remove(ctx context.Context, telegramID int64) (bool, error) {
	if s.superID != 0 && telegramID == s.superID {
		return false, nil
	}
	admin, err := s.adminRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if admin.IsSuper {
		return false, nil
	}
	if err := s.adminRepo.Delete(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AdminService) List(ctx context.Context) ([]model.Admin, error) {
	return s.adminRepo.ListAll(ctx)
}

// UserStats returns lifetime plan counts for one user.
func (s *AdminService) UserStats(ctx context.Context, user *model.User) (PlanStats, error) {
	counts, err := s.planRepo.CountByStatus(ctx, user.ID)
	if err != nil {
		return PlanStats{}, err
	}
	stats := PlanStats{
		Done:    counts[model.PlanDone],
		Failed:  counts[model.PlanFailed],
		Pending: counts[model.PlanPending],
	}
	stats.Total = stats.Done + stats.Failed + stats.Pending
	return stats, nil
}

// Overview builds the user-base summary for the admin panel.
func (s *AdminService) Overview(ctx context.Context) (OverviewStats, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return OverviewStats{}, err
	}
	withPlans, err := s.planRepo.UserIDsWithPlans(ctx)
	if err != nil {
		return OverviewStats{}, err
	}

	stats := OverviewStats{
		Total:  int64(len(users)),
		Active: int64(len(withPlans)),
	}
	stats.Inactive = stats.Total - stats.Active

	sorted := make([]model.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	stats.TopUsers = sorted
	return stats, nil
}

// BroadcastTargets lists every user for an admin broadcast.
func (s *AdminService) BroadcastTargets(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListAll(ctx)
}
