package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"planbot/internal/ai"
	"planbot/internal/model"
	"planbot/internal/service"
)

func escape(s string) string {
	return html.EscapeString(s)
}

// formatDraftConfirm renders the extracted candidate set for the
// confirm/retry/cancel screen.
func formatDraftConfirm(drafts []ai.PlanDraft) string {
	var sb strings.Builder
	sb.WriteString("📋 <b>Quyidagi rejalarni topdim:</b>\n\n")
	for i, draft := range drafts {
		sb.WriteString(fmt.Sprintf("%d. <b>%s</b>", i+1, escape(draft.Title)))
		if draft.ScheduledTime != "" {
			sb.WriteString(" — 🕐 " + draft.ScheduledTime)
		} else {
			sb.WriteString(" — 🕐 vaqtsiz")
		}
		if draft.ForTomorrow {
			sb.WriteString(" (ertaga)")
		}
		sb.WriteString(fmt.Sprintf(" | +%d ball", draftScore(draft)))
		sb.WriteString("\n")
		if draft.Description != "" {
			sb.WriteString("   <i>" + escape(draft.Description) + "</i>\n")
		}
	}
	sb.WriteString("\nTasdiqlaysizmi?")
	return sb.String()
}

func draftScore(draft ai.PlanDraft) int {
	if draft.ScoreValue > 0 {
		return draft.ScoreValue
	}
	return ai.DefaultScoreValue
}

func formatPlanList(plans []model.Plan) string {
	var sb strings.Builder
	sb.WriteString("📋 <b>Bugungi rejalar:</b>\n\n")
	for i, plan := range plans {
		sb.WriteString(fmt.Sprintf("%d. %s <b>%s</b>", i+1, statusEmoji(plan.Status), escape(plan.Title)))
		if plan.ScheduledTime != "" {
			sb.WriteString(" — 🕐 " + plan.ScheduledTime)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatPlanDetail(plan *model.Plan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>%s</b>\n\n", statusEmoji(plan.Status), escape(plan.Title)))
	if plan.Description != "" {
		sb.WriteString("📝 " + escape(plan.Description) + "\n")
	}
	if plan.ScheduledTime != "" {
		sb.WriteString("🕐 Vaqti: " + plan.ScheduledTime + "\n")
	}
	sb.WriteString(fmt.Sprintf("⭐️ Ball: %d\n", plan.ScoreValue))
	sb.WriteString("📆 Sana: " + plan.PlanDate.Format("2006-01-02"))
	return sb.String()
}

func formatStatus(user *model.User, stats service.PlanStats, todayPlans []model.Plan, todayScore int) string {
	var todayDone, todayTotal int
	for _, plan := range todayPlans {
		todayTotal++
		if plan.Status == model.PlanDone {
			todayDone++
		}
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>Mening statusim</b>\n\n")
	sb.WriteString("🏅 Daraja: " + service.StatusTitle(user.TotalScore, user.Streak) + "\n")
	sb.WriteString(fmt.Sprintf("⭐️ Umumiy ball: <b>%d</b>\n", user.TotalScore))
	sb.WriteString(fmt.Sprintf("🔥 Streak: <b>%d kun</b>\n\n", user.Streak))
	sb.WriteString(fmt.Sprintf("📅 Bugun: %d/%d bajarildi, %+d ball\n", todayDone, todayTotal, todayScore))
	sb.WriteString(fmt.Sprintf("📈 Jami: %d reja (✅ %d / ❌ %d / ⏳ %d)",
		stats.Total, stats.Done, stats.Failed, stats.Pending))
	return sb.String()
}

func formatReport(user *model.User, plans []model.Plan, todayScore int, localTime time.Time) string {
	var done, failed, pending int
	for _, plan := range plans {
		switch plan.Status {
		case model.PlanDone:
			done++
		case model.PlanFailed:
			failed++
		default:
			pending++
		}
	}

	var sb strings.Builder
	sb.WriteString("📈 <b>Kunlik hisobot</b>\n")
	sb.WriteString("📆 " + localTime.Format("2006-01-02") + "\n\n")
	if len(plans) == 0 {
		sb.WriteString("📭 Bugun reja tuzilmagan.\n\nErtaga albatta reja tuzing!")
		return sb.String()
	}
	for _, plan := range plans {
		sb.WriteString(statusEmoji(plan.Status) + " " + escape(plan.Title))
		if plan.ScheduledTime != "" {
			sb.WriteString(" (🕐 " + plan.ScheduledTime + ")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\n✅ Bajarildi: %d\n❌ Bajarilmadi: %d\n⏳ Kutilmoqda: %d\n", done, failed, pending))
	sb.WriteString(fmt.Sprintf("\n⭐️ Bugungi ball: %+d\n🔥 Streak: %d kun", todayScore, user.Streak))
	return sb.String()
}

func formatDailySummary(user *model.User, stats service.DailyStats) string {
	total := stats.Done + stats.Failed + stats.Pending

	var sb strings.Builder
	sb.WriteString("🌙 <b>Kunlik hisobot</b>\n\n")
	sb.WriteString(fmt.Sprintf("📋 Rejalar: %d ta\n", total))
	sb.WriteString(fmt.Sprintf("✅ Bajarildi: %d\n❌ Bajarilmadi: %d\n⏳ Belgilanmagan: %d\n\n", stats.Done, stats.Failed, stats.Pending))
	sb.WriteString(fmt.Sprintf("⭐️ Umumiy ball: %d\n🔥 Streak: %d kun\n\n", user.TotalScore, user.Streak))

	switch {
	case total > 0 && stats.Done == total:
		sb.WriteString("🎉 Zo'r! Hammasini bajardingiz!")
	case stats.Done > 0:
		sb.WriteString("👍 Yaxshi harakat! Ertaga yanada zo'r bo'ladi.")
	default:
		sb.WriteString("😔 Bugun qiyin kun bo'ldi. Ertaga yangi imkoniyat!")
	}
	return sb.String()
}
