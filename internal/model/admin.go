package model

import "time"

// Admin is an allowlist entry. The super admin cannot be removed.
type Admin struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FullName   string
	IsSuper    bool `gorm:"default:false"`
	AddedAt    time.Time `gorm:"autoCreateTime"`
}
