package model

import "time"

// PlanStatus is the lifecycle state of a plan.
type PlanStatus string

const (
	PlanPending PlanStatus = "pending"
	PlanDone    PlanStatus = "done"
	PlanFailed  PlanStatus = "failed"
)

// Plan represents a single user-declared task for a calendar day.
// ScheduledTime is wall clock ("06:00") without a date; PlanDate carries the day.
type Plan struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index"`
	Title         string
	Description   string
	ScheduledTime string     `gorm:"size:10"`
	PlanDate      time.Time  `gorm:"index"`
	Status        PlanStatus `gorm:"size:10;default:pending;index"`
	ScoreValue    int        `gorm:"default:5"`
	NotifiedAt    *time.Time
	CreatedAt     time.Time
	ScoreLogs     []ScoreLog `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}
