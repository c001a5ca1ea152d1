package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbot/internal/ai"
	"planbot/internal/model"
	"planbot/internal/service"
)

func TestFormatDraftConfirm(t *testing.T) {
	text := formatDraftConfirm([]ai.PlanDraft{
		{Title: "Erta turish", ScheduledTime: "06:00", ScoreValue: 5},
		{Title: "Kitob <o'qish>", ScoreValue: 0, ForTomorrow: true},
	})

	assert.Contains(t, text, "Erta turish")
	assert.Contains(t, text, "06:00")
	assert.Contains(t, text, "vaqtsiz")
	assert.Contains(t, text, "(ertaga)")
	// HTML in titles must be escaped, not rendered.
	assert.Contains(t, text, "Kitob &lt;o&#39;qish&gt;")
	assert.NotContains(t, text, "<o'qish>")
	// Unset score shows the default.
	assert.Contains(t, text, "+5 ball")
}

func TestFormatDailySummary_Branches(t *testing.T) {
	user := &model.User{TotalScore: 42, Streak: 3}

	all := formatDailySummary(user, service.DailyStats{Done: 2})
	assert.Contains(t, all, "Hammasini bajardingiz")

	some := formatDailySummary(user, service.DailyStats{Done: 1, Failed: 1})
	assert.Contains(t, some, "Yaxshi harakat")

	none := formatDailySummary(user, service.DailyStats{Failed: 2, Pending: 1})
	assert.Contains(t, none, "qiyin kun")
}

func TestPlansListKeyboard(t *testing.T) {
	kb := plansListKeyboard([]model.Plan{
		{Title: "Erta turish", Status: model.PlanPending},
		{Title: "Sport qilish", Status: model.PlanDone},
	})

	// One row per plan plus the footer row.
	require.Len(t, kb.InlineKeyboard, 3)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	assert.Contains(t, *kb.InlineKeyboard[0][0].CallbackData, cbPlanPrefix)
	assert.Contains(t, kb.InlineKeyboard[1][0].Text, "✅")
}

func TestPlanActionsKeyboard_HidesResolutionForSettledPlans(t *testing.T) {
	pending := planActionsKeyboard(&model.Plan{Status: model.PlanPending})
	assert.Len(t, pending.InlineKeyboard, 3)

	done := planActionsKeyboard(&model.Plan{Status: model.PlanDone})
	assert.Len(t, done.InlineKeyboard, 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "qisqa", truncate("qisqa", 10))
	long := truncate("bu juda ham uzun sarlavha bo'ladi albatta", 12)
	assert.Equal(t, 12, len([]rune(long)))
	assert.Equal(t, "…", string([]rune(long)[11]))
}
