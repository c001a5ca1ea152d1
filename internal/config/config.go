package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultScoreDone   = 5
	DefaultScoreFailed = -3
	DefaultStreakBonus = 2
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string

	Timezone *time.Location

	// Daily job trigger times, "HH:MM" wall clock in Timezone.
	SummaryTime      string
	PendingCheckTime string

	ScoreDone   int
	ScoreFailed int
	// StreakBonus is declared for parity with the score table but is not
	// applied anywhere in the score mutation path.
	StreakBonus int

	AdminID int64

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:    strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SummaryTime:      strings.TrimSpace(os.Getenv("SUMMARY_TIME")),
		PendingCheckTime: strings.TrimSpace(os.Getenv("PENDING_CHECK_TIME")),
		ScoreDone:        parseInt(os.Getenv("SCORE_DONE"), DefaultScoreDone),
		ScoreFailed:      parseInt(os.Getenv("SCORE_FAILED"), DefaultScoreFailed),
		StreakBonus:      parseInt(os.Getenv("STREAK_BONUS"), DefaultStreakBonus),
		OpenAIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:    strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		OpenAIModel:      strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "planbot.db"
	}
	if cfg.SummaryTime == "" {
		cfg.SummaryTime = "21:00"
	}
	if cfg.PendingCheckTime == "" {
		cfg.PendingCheckTime = "23:00"
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	tzName := strings.TrimSpace(os.Getenv("TIMEZONE"))
	if tzName == "" {
		tzName = "Asia/Tashkent"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return cfg, fmt.Errorf("load timezone %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	if raw := strings.TrimSpace(os.Getenv("ADMIN_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid ADMIN_ID %q", raw)
		}
		cfg.AdminID = id
	}

	if err := validateClock(cfg.SummaryTime); err != nil {
		return cfg, fmt.Errorf("SUMMARY_TIME: %w", err)
	}
	if err := validateClock(cfg.PendingCheckTime); err != nil {
		return cfg, fmt.Errorf("PENDING_CHECK_TIME: %w", err)
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("BOT_TOKEN is required")
	}

	return cfg, nil
}

func validateClock(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute in %q", value)
	}
	return nil
}

func parseInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
