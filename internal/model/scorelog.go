package model

import "time"

// ScoreLog is an append-only record of a single point delta.
// The sum of a user's ScoreChange values must equal User.TotalScore.
type ScoreLog struct {
	ID          uint  `gorm:"primaryKey"`
	UserID      uint  `gorm:"index"`
	PlanID      *uint `gorm:"index"`
	ScoreChange int
	Reason      string
	CreatedAt   time.Time
}
