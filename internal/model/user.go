package model

import "time"

// User stores Telegram user metadata along with the running score and streak.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FullName   string
	Username   string
	Streak     int  `gorm:"default:0"`
	TotalScore int  `gorm:"default:0"`
	IsActive   bool `gorm:"default:true"`
	CreatedAt  time.Time
	LastActive time.Time
	Plans      []Plan     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ScoreLogs  []ScoreLog `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
