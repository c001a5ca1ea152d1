package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"planbot/internal/model"
)

func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelAddPlan),
			tgbotapi.NewKeyboardButton(menuLabelPlans),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelStatus),
			tgbotapi.NewKeyboardButton(menuLabelReport),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Tasdiqlash", cbConfirmPlans),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Qayta yozish", cbRetryPlans),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bekor qilish", cbCancelPlans),
		),
	)
}

func noTimeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🕐 Vaqtsiz saqlash", cbSaveWithoutTime),
		),
	)
}

func plansListKeyboard(plans []model.Plan) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(plans)+1)
	for _, plan := range plans {
		label := statusEmoji(plan.Status) + " " + truncate(plan.Title, 32)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", cbPlanPrefix, plan.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Reja qo'shish", cbAddPlan),
		tgbotapi.NewInlineKeyboardButtonData("📈 Hisobot", cbReport),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func planActionsKeyboard(plan *model.Plan) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 3)
	if plan.Status == model.PlanPending {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Bajarildi", fmt.Sprintf("%s%d", cbDonePrefix, plan.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bajarilmadi", fmt.Sprintf("%s%d", cbFailedPrefix, plan.ID)),
		))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Ertaga ko'chirish", fmt.Sprintf("%s%d", cbTomorrowPrefix, plan.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🗑 O'chirish", fmt.Sprintf("%s%d", cbDeletePrefix, plan.ID)),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Orqaga", cbMyPlans),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// doneFailedKeyboard is sent with the minute-tick reminder.
func doneFailedKeyboard(planID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Bajardim", fmt.Sprintf("%s%d", cbDonePrefix, planID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bajarmadim", fmt.Sprintf("%s%d", cbFailedPrefix, planID)),
		),
	)
}

// pendingPromptKeyboard is sent with the end-of-day check and adds the
// move-to-tomorrow escape hatch.
func pendingPromptKeyboard(planID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Bajardim", fmt.Sprintf("%s%d", cbDonePrefix, planID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bajarmadim", fmt.Sprintf("%s%d", cbFailedPrefix, planID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Ertaga ko'chirish", fmt.Sprintf("%s%d", cbTomorrowPrefix, planID)),
		),
	)
}

func backToHomeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Bosh menyu", cbHome),
			tgbotapi.NewInlineKeyboardButtonData("📋 Rejalarim", cbMyPlans),
		),
	)
}

func statusEmoji(status model.PlanStatus) string {
	switch status {
	case model.PlanDone:
		return "✅"
	case model.PlanFailed:
		return "❌"
	default:
		return "⏳"
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
