// Package testutil provides shared test fixtures: an in-memory database and
// minimal model builders.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"planbot/internal/model"
	"planbot/internal/repository"
)

var dbSeq atomic.Int64

// NewTestDB opens a fresh in-memory SQLite database with all migrations
// applied. Each call gets its own database; it is closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:planbot_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := repository.NewDB(dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	// A single connection keeps the shared-cache memory database alive.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user row directly.
func CreateUser(t *testing.T, db *gorm.DB, telegramID int64) *model.User {
	t.Helper()
	user := &model.User{
		TelegramID: telegramID,
		FullName:   fmt.Sprintf("Test User %d", telegramID),
		IsActive:   true,
		LastActive: time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

// CreatePlan inserts a plan row directly. scheduledTime may be empty.
func CreatePlan(t *testing.T, db *gorm.DB, user *model.User, title, scheduledTime string, date time.Time) *model.Plan {
	t.Helper()
	plan := &model.Plan{
		UserID:        user.ID,
		Title:         title,
		ScheduledTime: scheduledTime,
		PlanDate:      model.DateOf(date),
		Status:        model.PlanPending,
		ScoreValue:    5,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create test plan: %v", err)
	}
	return plan
}
