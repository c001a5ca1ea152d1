package bot

import (
	"context"
	"fmt"

	"planbot/internal/model"
	"planbot/internal/service"
)

// Bot implements service.Notifier so the reminder jobs can deliver through
// the same Telegram connection the handlers use.
var _ service.Notifier = (*Bot)(nil)

func (b *Bot) SendPlanReminder(ctx context.Context, user *model.User, plan *model.Plan) error {
	text := fmt.Sprintf(
		"⏰ <b>Vaqt bo'ldi!</b>\n\n📌 <b>%s</b>", escape(plan.Title))
	if plan.Description != "" {
		text += "\n📝 " + escape(plan.Description)
	}
	text += "\n\nBajardingizmi?"
	return b.sendWithMarkup(user.TelegramID, text, doneFailedKeyboard(plan.ID))
}

func (b *Bot) SendDailySummary(ctx context.Context, user *model.User, stats service.DailyStats) error {
	return b.sendText(user.TelegramID, formatDailySummary(user, stats))
}

func (b *Bot) SendPendingPrompt(ctx context.Context, user *model.User, plan *model.Plan) error {
	text := fmt.Sprintf(
		"🌙 <b>Kun tugadi!</b>\n\n📌 <b>%s</b> hali belgilanmagan.", escape(plan.Title))
	if plan.ScheduledTime != "" {
		text += "\n🕐 Rejalashtirilgan vaqt: " + plan.ScheduledTime
	}
	text += "\n\nNatijani belgilang:"
	return b.sendWithMarkup(user.TelegramID, text, pendingPromptKeyboard(plan.ID))
}
