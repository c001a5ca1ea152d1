package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"planbot/pkg/logger"
)

func (b *Bot) requireAdmin(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	ok, err := b.adminSvc.IsAdmin(ctx, msg.From.ID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, b.sendText(msg.Chat.ID, "⛔️ Bu buyruq faqat adminlar uchun.")
	}
	return true, nil
}

func (b *Bot) handleAdmin(ctx context.Context, msg *tgbotapi.Message) error {
	ok, err := b.requireAdmin(ctx, msg)
	if err != nil || !ok {
		return err
	}

	overview, err := b.adminSvc.Overview(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Statistikani olib bo'lmadi.")
	}
	admins, err := b.adminSvc.List(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Adminlar ro'yxatini olib bo'lmadi.")
	}

	var sb strings.Builder
	sb.WriteString("👑 <b>Admin panel</b>\n\n")
	sb.WriteString(fmt.Sprintf("👥 Foydalanuvchilar: %d\n", overview.Total))
	sb.WriteString(fmt.Sprintf("🟢 Faol: %d | ⚪️ Rejasiz: %d\n\n", overview.Active, overview.Inactive))

	if len(overview.TopUsers) > 0 {
		sb.WriteString("🏆 <b>Eng yaxshilar:</b>\n")
		for i, user := range overview.TopUsers {
			sb.WriteString(fmt.Sprintf("%d. %s — %d ball (🔥 %d)\n",
				i+1, escape(user.FullName), user.TotalScore, user.Streak))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("🛡 <b>Adminlar:</b>\n")
	if len(admins) == 0 {
		sb.WriteString("— ro'yxat bo'sh\n")
	}
	for _, admin := range admins {
		sb.WriteString(fmt.Sprintf("• %s (<code>%d</code>)", escape(admin.FullName), admin.TelegramID))
		if admin.IsSuper {
			sb.WriteString(" 👑")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n/addadmin &lt;id&gt; [ism] — admin qo'shish\n")
	sb.WriteString("/removeadmin &lt;id&gt; — adminni olib tashlash\n")
	sb.WriteString("/broadcast &lt;matn&gt; — hammaga xabar")

	return b.sendText(msg.Chat.ID, sb.String())
}

func (b *Bot) handleAddAdmin(ctx context.Context, msg *tgbotapi.Message) error {
	ok, err := b.requireAdmin(ctx, msg)
	if err != nil || !ok {
		return err
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		return b.sendText(msg.Chat.ID, "Foydalanish: /addadmin &lt;telegram_id&gt; [ism]")
	}
	telegramID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ ID raqam bo'lishi kerak.")
	}
	fullName := strings.Join(args[1:], " ")
	if fullName == "" {
		fullName = "Admin"
	}

	admin, err := b.adminSvc.Add(ctx, telegramID, fullName)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi.")
	}
	if admin == nil {
		return b.sendText(msg.Chat.ID, "ℹ️ Bu foydalanuvchi allaqachon admin.")
	}
	return b.sendText(msg.Chat.ID,
		fmt.Sprintf("✅ <b>%s</b> (<code>%d</code>) admin qilindi.", escape(admin.FullName), admin.TelegramID))
}

func (b *Bot) handleRemoveAdmin(ctx context.Context, msg *tgbotapi.Message) error {
	ok, err := b.requireAdmin(ctx, msg)
	if err != nil || !ok {
		return err
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		return b.sendText(msg.Chat.ID, "Foydalanish: /removeadmin &lt;telegram_id&gt;")
	}
	telegramID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ ID raqam bo'lishi kerak.")
	}

	removed, err := b.adminSvc.Remove(ctx, telegramID)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi.")
	}
	if !removed {
		return b.sendText(msg.Chat.ID, "⛔️ Bu adminni olib tashlab bo'lmaydi yoki u topilmadi.")
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ <code>%d</code> adminlikdan olindi.", telegramID))
}

// handleBroadcast pushes an admin message to every user; single failed
// deliveries are logged and skipped.
func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) error {
	ok, err := b.requireAdmin(ctx, msg)
	if err != nil || !ok {
		return err
	}

	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		return b.sendText(msg.Chat.ID, "Foydalanish: /broadcast &lt;matn&gt;")
	}

	users, err := b.adminSvc.BroadcastTargets(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Foydalanuvchilarni olib bo'lmadi.")
	}

	body := "📢 <b>E'lon</b>\n\n" + escape(text)
	sent := 0
	for i := range users {
		if err := b.sendText(users[i].TelegramID, body); err != nil {
			b.log.Warn("broadcast delivery failed",
				zap.Int64(logger.FieldUserID, users[i].TelegramID), zap.Error(err))
			continue
		}
		sent++
	}

	return b.sendText(msg.Chat.ID,
		fmt.Sprintf("📢 Yuborildi: %d/%d foydalanuvchi.", sent, len(users)))
}
