package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"planbot/internal/model"
)

// AdminRepository manages the admin allowlist.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) Exists(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Admin{}).
		Where("telegram_id = ?", telegramID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AdminRepository) ListAll(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := r.db.WithContext(ctx).Order("added_at DESC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (r *AdminRepository) Delete(ctx context.Context, admin *model.Admin) error {
	if err := r.db.WithContext(ctx).Delete(admin).Error; err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}
