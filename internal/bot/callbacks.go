package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"planbot/internal/flow"
	"planbot/internal/model"
	"planbot/internal/service"
	"planbot/pkg/logger"
)

const (
	cbConfirmPlans    = "confirm_plans"
	cbRetryPlans      = "retry_plans"
	cbCancelPlans     = "cancel_plans"
	cbSaveWithoutTime = "save_without_time"
	cbMyPlans         = "my_plans"
	cbReport          = "report"
	cbAddPlan         = "add_plan"
	cbHome            = "home"

	cbDonePrefix     = "done:"
	cbFailedPrefix   = "failed:"
	cbTomorrowPrefix = "tomorrow:"
	cbDeletePrefix   = "delete:"
	cbPlanPrefix     = "plan:"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil {
		b.answerCallback(cb.ID, "", false)
		return nil
	}

	b.log.Info("callback",
		zap.Int64(logger.FieldUserID, cb.From.ID),
		zap.String("data", cb.Data))

	data := cb.Data
	switch {
	case data == cbConfirmPlans:
		return b.confirmPlans(ctx, cb)
	case data == cbRetryPlans:
		return b.retryPlans(ctx, cb)
	case data == cbCancelPlans:
		return b.cancelPlans(ctx, cb)
	case data == cbSaveWithoutTime:
		return b.saveWithoutTime(ctx, cb)
	case data == cbMyPlans:
		return b.showPlansScreen(ctx, cb)
	case data == cbReport:
		return b.showReportScreen(ctx, cb)
	case data == cbAddPlan:
		b.answerCallback(cb.ID, "", false)
		b.setSession(cb.From.ID, flow.NewSession(time.Now()))
		return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
			"➕ <b>Yangi reja</b>\n\nBugun nima qilmoqchi ekanligingizni yozing yoki 🎤 ovozli xabar yuboring.", nil)
	case data == cbHome:
		b.answerCallback(cb.ID, "", false)
		return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
			"🏠 Asosiy menyu. Kerakli bo'limni tanlang.", nil)
	case strings.HasPrefix(data, cbDonePrefix):
		return b.resolvePlan(ctx, cb, strings.TrimPrefix(data, cbDonePrefix), true)
	case strings.HasPrefix(data, cbFailedPrefix):
		return b.resolvePlan(ctx, cb, strings.TrimPrefix(data, cbFailedPrefix), false)
	case strings.HasPrefix(data, cbTomorrowPrefix):
		return b.movePlanToTomorrow(ctx, cb, strings.TrimPrefix(data, cbTomorrowPrefix))
	case strings.HasPrefix(data, cbDeletePrefix):
		return b.deletePlan(ctx, cb, strings.TrimPrefix(data, cbDeletePrefix))
	case strings.HasPrefix(data, cbPlanPrefix):
		return b.showPlanDetail(ctx, cb, strings.TrimPrefix(data, cbPlanPrefix))
	default:
		b.answerCallback(cb.ID, "", false)
		return nil
	}
}

func (b *Bot) confirmPlans(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	session := b.getSession(cb.From.ID)
	if session == nil {
		b.answerCallback(cb.ID, "Sessiya topilmadi. Rejalarni qaytadan yuboring.", true)
		return nil
	}
	drafts, ok := session.Accept()
	if !ok {
		b.answerCallback(cb.ID, "Avval savollarga javob bering.", true)
		return nil
	}

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		b.answerCallback(cb.ID, "Xatolik yuz berdi.", true)
		return err
	}
	plans, err := b.planSvc.CreateFromDrafts(ctx, user, drafts, time.Now())
	if err != nil {
		b.answerCallback(cb.ID, "Saqlashda xatolik yuz berdi.", true)
		return err
	}
	b.clearSession(cb.From.ID)
	b.answerCallback(cb.ID, "Saqlandi! ✅", false)

	saved := make([]model.Plan, len(plans))
	for i, p := range plans {
		saved[i] = *p
	}
	text := fmt.Sprintf("✅ <b>%d ta reja saqlandi!</b>\n\n", len(saved)) + formatPlanList(saved) +
		"\n⏰ Vaqti kelganda eslataman!"
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, nil)
}

func (b *Bot) retryPlans(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	session := b.getSession(cb.From.ID)
	if session == nil {
		session = flow.NewSession(time.Now())
		b.setSession(cb.From.ID, session)
	} else {
		session.Retry(time.Now())
	}
	b.answerCallback(cb.ID, "", false)
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		"🔄 Qaytadan yozing yoki 🎤 ovozli xabar yuboring.", nil)
}

func (b *Bot) cancelPlans(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	b.clearSession(cb.From.ID)
	b.answerCallback(cb.ID, "", false)
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		"❌ Bekor qilindi. Yangi reja yuborishingiz mumkin.", nil)
}

func (b *Bot) saveWithoutTime(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	session := b.getSession(cb.From.ID)
	if session == nil {
		b.answerCallback(cb.ID, "Sessiya topilmadi. Rejalarni qaytadan yuboring.", true)
		return nil
	}
	b.answerCallback(cb.ID, "🕐 Vaqtsiz qoldirildi", false)
	return b.handleAskReply(ctx, cb.Message.Chat.ID, session, flow.ButtonReply{Data: cbSaveWithoutTime})
}

func (b *Bot) resolvePlan(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string, done bool) error {
	plan, err := b.lookupPlan(ctx, cb, rawID)
	if plan == nil {
		return err
	}
	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		b.answerCallback(cb.ID, "Xatolik yuz berdi.", true)
		return err
	}

	change, err := b.scoreSvc.ResolvePlan(ctx, user, plan, done)
	if err != nil {
		b.answerCallback(cb.ID, "Xatolik yuz berdi.", true)
		return err
	}
	if change == 0 {
		b.answerCallback(cb.ID, "Bu reja allaqachon belgilangan.", false)
		return nil
	}

	var text string
	if done {
		b.answerCallback(cb.ID, fmt.Sprintf("+%d ball! 🎉", change), false)
		text = fmt.Sprintf("✅ <b>%s</b> bajarildi!\n\n🎉 +%d ball qo'shildi.", escape(plan.Title), change)
	} else {
		b.answerCallback(cb.ID, fmt.Sprintf("%d ball 😔", change), false)
		text = fmt.Sprintf("❌ <b>%s</b> bajarilmadi.\n\n😔 %d ball. Ertaga albatta uddalaysiz!", escape(plan.Title), change)
	}
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, nil)
}

func (b *Bot) movePlanToTomorrow(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string) error {
	plan, err := b.lookupPlan(ctx, cb, rawID)
	if plan == nil {
		return err
	}

	moved, err := b.planSvc.MoveToTomorrow(ctx, plan)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyResolved) {
			b.answerCallback(cb.ID, "Bu reja allaqachon belgilangan.", false)
			return nil
		}
		b.answerCallback(cb.ID, "Xatolik yuz berdi.", true)
		return err
	}

	b.answerCallback(cb.ID, "Ertaga ko'chirildi 📅", false)
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("📅 <b>%s</b> ertaga ko'chirildi.", escape(moved.Title)), nil)
}

func (b *Bot) deletePlan(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string) error {
	plan, err := b.lookupPlan(ctx, cb, rawID)
	if plan == nil {
		return err
	}
	if err := b.planSvc.DeletePlan(ctx, plan); err != nil {
		b.answerCallback(cb.ID, "Xatolik yuz berdi.", true)
		return err
	}
	b.answerCallback(cb.ID, "O'chirildi 🗑", false)
	return b.refreshPlansScreen(ctx, cb)
}

func (b *Bot) showPlanDetail(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string) error {
	plan, err := b.lookupPlan(ctx, cb, rawID)
	if plan == nil {
		return err
	}
	b.answerCallback(cb.ID, "", false)
	markup := planActionsKeyboard(plan)
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID, formatPlanDetail(plan), &markup)
}

func (b *Bot) showPlansScreen(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	b.answerCallback(cb.ID, "", false)
	return b.refreshPlansScreen(ctx, cb)
}

func (b *Bot) refreshPlansScreen(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		return err
	}
	plans, err := b.planSvc.TodayPlans(ctx, user, time.Now())
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
			"📭 <b>Bugun hech qanday reja yo'q.</b>\n\nYangi reja qo'shing!", nil)
	}
	markup := plansListKeyboard(plans)
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID, formatPlanList(plans), &markup)
}

func (b *Bot) showReportScreen(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	b.answerCallback(cb.ID, "", false)
	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		return err
	}
	text, err := b.buildReport(ctx, user, time.Now())
	if err != nil {
		return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
			"❌ Hisobotni tayyorlab bo'lmadi.", nil)
	}
	markup := backToHomeKeyboard()
	return b.editWithMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, &markup)
}

// lookupPlan parses a callback plan ID and loads the plan, answering the
// callback itself on failure. A nil plan means the caller should stop.
func (b *Bot) lookupPlan(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string) (*model.Plan, error) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "Reja topilmadi!", true)
		return nil, nil
	}
	plan, err := b.planSvc.GetPlan(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.answerCallback(cb.ID, "Reja topilmadi!", true)
			return nil, nil
		}
		b.answerCallback(cb.ID, "Xatolik yuz berdi.", true)
		return nil, err
	}
	return plan, nil
}
