package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"planbot/internal/ai"
	"planbot/internal/config"
	"planbot/internal/flow"
	"planbot/internal/model"
	"planbot/internal/repository"
	"planbot/internal/service"
	"planbot/pkg/logger"
)

// sessionTTL bounds how long a stalled confirmation flow stays alive.
const sessionTTL = 30 * time.Minute

const (
	menuLabelStatus  = "📊 Mening statusim"
	menuLabelPlans   = "📋 Rejalarim"
	menuLabelReport  = "📈 Hisobot"
	menuLabelAddPlan = "➕ Reja qo'shish"
)

// Bot aggregates the Telegram API with services and per-user flow sessions.
type Bot struct {
	api         *tgbotapi.BotAPI
	userRepo    *repository.UserRepository
	planSvc     *service.PlanService
	scoreSvc    *service.ScoreService
	adminSvc    *service.AdminService
	extractor   ai.Extractor
	transcriber ai.Transcriber
	cfg         *config.Config
	log         *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*flow.Session
}

func New(token string, userRepo *repository.UserRepository, planSvc *service.PlanService, scoreSvc *service.ScoreService, adminSvc *service.AdminService, extractor ai.Extractor, transcriber ai.Transcriber, cfg *config.Config, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:         api,
		userRepo:    userRepo,
		planSvc:     planSvc,
		scoreSvc:    scoreSvc,
		adminSvc:    adminSvc,
		extractor:   extractor,
		transcriber: transcriber,
		cfg:         cfg,
		log:         log,
		sessions:    make(map[int64]*flow.Session),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Warn("handle callback",
					zap.Int64(logger.FieldUserID, update.CallbackQuery.From.ID), zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Warn("handle message",
					zap.Int64(logger.FieldUserID, update.Message.From.ID), zap.Error(err))
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		return b.handleCommand(ctx, msg)
	}

	if msg.Voice != nil {
		return b.handleVoice(ctx, msg)
	}

	switch msg.Text {
	case menuLabelStatus:
		return b.handleStatus(ctx, msg)
	case menuLabelPlans:
		return b.handleMyPlans(ctx, msg)
	case menuLabelReport:
		return b.handleReport(ctx, msg)
	case menuLabelAddPlan:
		return b.handleAddPlan(ctx, msg)
	}

	if msg.Text == "" {
		return nil
	}

	return b.handleFlowText(ctx, msg, msg.Text)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	b.log.Info("command",
		zap.Int64(logger.FieldUserID, msg.From.ID),
		zap.String("command", msg.Command()))

	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "admin":
		return b.handleAdmin(ctx, msg)
	case "addadmin":
		return b.handleAddAdmin(ctx, msg)
	case "removeadmin":
		return b.handleRemoveAdmin(ctx, msg)
	case "broadcast":
		return b.handleBroadcast(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Bunday buyruq yo'q. /start bosing.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	text := "🎯 <b>Intizom AI</b> ga xush kelibsiz!\n\n" +
		"Men sizning shaxsiy intizom yordamchingizman.\n\n" +
		"📌 <b>Nima qila olaman:</b>\n" +
		"• Ovoz yoki matn orqali reja tuzish\n" +
		"• Vaqti kelganda eslatish\n" +
		"• Bajargan ishlar uchun ball berish\n" +
		"• Kunlik hisobot tayyorlash\n\n" +
		"💡 <b>Boshlash uchun</b> — bugun nima qilmoqchi ekanligingizni " +
		"ovozli xabar yoki matn yuboring!\n\n" +
		"<i>Masalan: 'Soat 6 da turaman, 9 da kitob o'qiyman'</i>"

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = mainReplyKeyboard()
	_, err := b.api.Send(reply)
	return err
}

func (b *Bot) handleAddPlan(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setSession(msg.From.ID, flow.NewSession(time.Now()))
	return b.sendText(msg.Chat.ID,
		"➕ <b>Yangi reja</b>\n\n"+
			"Bugun nima qilmoqchi ekanligingizni yozing yoki "+
			"🎤 ovozli xabar yuboring.\n\n"+
			"<i>Masalan: 'Soat 7 da turaman, 10 da sport qilaman'</i>")
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	now := time.Now()
	stats, err := b.adminSvc.UserStats(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi. Qayta urinib ko'ring.")
	}
	todayPlans, err := b.planSvc.TodayPlans(ctx, user, now)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi. Qayta urinib ko'ring.")
	}
	todayScore, err := b.scoreSvc.TodayScore(ctx, user, now)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi. Qayta urinib ko'ring.")
	}

	return b.sendText(msg.Chat.ID, formatStatus(user, stats, todayPlans, todayScore))
}

func (b *Bot) handleMyPlans(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	plans, err := b.planSvc.TodayPlans(ctx, user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi. Qayta urinib ko'ring.")
	}
	if len(plans) == 0 {
		return b.sendText(msg.Chat.ID, "📭 <b>Bugun hech qanday reja yo'q.</b>\n\nYangi reja qo'shing!")
	}
	return b.sendWithMarkup(msg.Chat.ID, formatPlanList(plans), plansListKeyboard(plans))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.buildReport(ctx, user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Hisobotni tayyorlab bo'lmadi.")
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) buildReport(ctx context.Context, user *model.User, now time.Time) (string, error) {
	plans, err := b.planSvc.TodayPlans(ctx, user, now)
	if err != nil {
		return "", err
	}
	todayScore, err := b.scoreSvc.TodayScore(ctx, user, now)
	if err != nil {
		return "", err
	}
	return formatReport(user, plans, todayScore, now.In(b.cfg.Timezone)), nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	fullName := strings.TrimSpace(from.FirstName + " " + from.LastName)
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, fullName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) editWithMarkup(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	cb.ShowAlert = alert
	if _, err := b.api.Request(cb); err != nil {
		b.log.Warn("callback ack", zap.Error(err))
	}
}

// session accessors; expired sessions are dropped on read.

func (b *Bot) getSession(userID int64) *flow.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	session, ok := b.sessions[userID]
	if !ok {
		return nil
	}
	if session.Expired(time.Now(), sessionTTL) {
		delete(b.sessions, userID)
		return nil
	}
	return session
}

func (b *Bot) setSession(userID int64, session *flow.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[userID] = session
}

func (b *Bot) clearSession(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, userID)
}
