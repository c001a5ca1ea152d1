package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOT_TOKEN", "DATABASE_URL", "TIMEZONE",
		"SUMMARY_TIME", "PENDING_CHECK_TIME",
		"SCORE_DONE", "SCORE_FAILED", "STREAK_BONUS",
		"ADMIN_ID", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "planbot.db", cfg.DatabaseURL)
	assert.Equal(t, "Asia/Tashkent", cfg.Timezone.String())
	assert.Equal(t, "21:00", cfg.SummaryTime)
	assert.Equal(t, "23:00", cfg.PendingCheckTime)
	assert.Equal(t, DefaultScoreDone, cfg.ScoreDone)
	assert.Equal(t, DefaultScoreFailed, cfg.ScoreFailed)
	assert.Equal(t, DefaultStreakBonus, cfg.StreakBonus)
	assert.Equal(t, int64(0), cfg.AdminID)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "data/bot.db")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SUMMARY_TIME", "20:30")
	t.Setenv("PENDING_CHECK_TIME", "22:15")
	t.Setenv("SCORE_DONE", "10")
	t.Setenv("SCORE_FAILED", "-5")
	t.Setenv("ADMIN_ID", "777")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/bot.db", cfg.DatabaseURL)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.Equal(t, "20:30", cfg.SummaryTime)
	assert.Equal(t, "22:15", cfg.PendingCheckTime)
	assert.Equal(t, 10, cfg.ScoreDone)
	assert.Equal(t, -5, cfg.ScoreFailed)
	assert.Equal(t, int64(777), cfg.AdminID)
}

func TestLoad_MissingToken(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_InvalidClock(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SUMMARY_TIME", "25:00")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUMMARY_TIME")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("TIMEZONE", "Not/AZone")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SCORE_DONE", "ko'p")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultScoreDone, cfg.ScoreDone)
}
