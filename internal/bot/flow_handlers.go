package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"planbot/internal/flow"
	"planbot/pkg/logger"
)

// handleFlowText routes free text through the confirmation flow: extraction
// while collecting, time resolution while a candidate is being asked about.
func (b *Bot) handleFlowText(ctx context.Context, msg *tgbotapi.Message, text string) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	session := b.getSession(msg.From.ID)
	if session == nil {
		session = flow.NewSession(time.Now())
		b.setSession(msg.From.ID, session)
	}

	if session.Stage() == flow.StageAskingTime {
		return b.handleAskReply(ctx, msg.Chat.ID, session, flow.TextReply{Text: text})
	}
	return b.runExtraction(ctx, msg.Chat.ID, session, text)
}

// handleAskReply processes an answer while one candidate's time is being
// asked about: typed or transcribed text goes through time resolution, the
// skip button leaves the candidate untimed.
func (b *Bot) handleAskReply(ctx context.Context, chatID int64, session *flow.Session, reply flow.Reply) error {
	switch r := reply.(type) {
	case flow.TextReply:
		return b.handleTimeAnswer(ctx, chatID, session, r.Text)
	case flow.ButtonReply:
		if r.Data != cbSaveWithoutTime {
			return nil
		}
		title, _ := session.CurrentQuestion()
		stage := session.SkipTime(time.Now())
		if err := b.sendText(chatID, fmt.Sprintf("📌 <b>%s</b> — vaqtsiz saqlanadi.", escape(title))); err != nil {
			return err
		}
		if stage == flow.StageAskingTime {
			return b.askTime(chatID, session)
		}
		return b.sendWithMarkup(chatID, formatDraftConfirm(session.Drafts()), confirmKeyboard())
	}
	return nil
}

func (b *Bot) runExtraction(ctx context.Context, chatID int64, session *flow.Session, text string) error {
	if err := b.sendText(chatID, "⏳ Tahlil qilinmoqda..."); err != nil {
		return err
	}

	now := time.Now().In(b.cfg.Timezone)
	drafts, err := b.extractor.ExtractPlans(ctx, text, now)
	if err != nil {
		b.log.Warn("plan extraction failed", zap.Error(err))
		return b.sendText(chatID, "❌ Xatolik yuz berdi. Qayta urinib ko'ring.")
	}
	if len(drafts) == 0 {
		return b.sendText(chatID,
			"😕 Rejalarni aniqlay olmadim.\n"+
				"<i>Masalan: 'Soat 6 da turaman, 9 da kitob o'qiyman'</i>")
	}

	switch session.SetDrafts(drafts, time.Now()) {
	case flow.StageAskingTime:
		return b.askTime(chatID, session)
	default:
		return b.sendWithMarkup(chatID, formatDraftConfirm(session.Drafts()), confirmKeyboard())
	}
}

func (b *Bot) handleTimeAnswer(ctx context.Context, chatID int64, session *flow.Session, text string) error {
	now := time.Now().In(b.cfg.Timezone)
	clock, err := b.extractor.ResolveTime(ctx, text, now)
	if err != nil {
		b.log.Warn("time resolution failed", zap.Error(err))
		session.KeepAsking(time.Now())
		return b.sendWithMarkup(chatID, "❌ Xatolik. Qayta urinib ko'ring.", noTimeKeyboard())
	}
	if clock == "" {
		session.KeepAsking(time.Now())
		return b.sendWithMarkup(chatID,
			"😕 Vaqtni aniqlay olmadim.\n"+
				"<i>Masalan: 'Soat 15:00', '30 minutdan keyin'</i>", noTimeKeyboard())
	}

	title, _ := session.CurrentQuestion()
	stage := session.ApplyTime(clock, time.Now())
	if err := b.sendText(chatID, fmt.Sprintf("✅ <b>%s</b> — 🕐 %s ga belgilandi!", escape(title), clock)); err != nil {
		return err
	}

	if stage == flow.StageAskingTime {
		return b.askTime(chatID, session)
	}
	return b.sendWithMarkup(chatID, formatDraftConfirm(session.Drafts()), confirmKeyboard())
}

func (b *Bot) askTime(chatID int64, session *flow.Session) error {
	title, ok := session.CurrentQuestion()
	if !ok {
		return nil
	}
	text := fmt.Sprintf(
		"⏰ <b>Vaqtni belgilang</b>\n\n"+
			"📌 <b>%s</b> — qachon?\n\n"+
			"Ovozli yoki matn orqali ayting:\n"+
			"<i>Masalan: 'Soat 15 da', '30 minutdan keyin', 'Kechqurun 19:00'</i>",
		escape(title))
	return b.sendWithMarkup(chatID, text, noTimeKeyboard())
}

// handleVoice transcribes a voice note and feeds the text into the same
// flow path as typed input.
func (b *Bot) handleVoice(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.sendText(msg.Chat.ID, "⏳ Ovoz tahlil qilinmoqda..."); err != nil {
		return err
	}

	audio, err := b.downloadFile(ctx, msg.Voice.FileID)
	if err != nil {
		b.log.Warn("voice download failed",
			zap.Int64(logger.FieldUserID, msg.From.ID), zap.Error(err))
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi. Qayta urinib ko'ring.")
	}

	text, err := b.transcriber.Transcribe(ctx, audio)
	if err != nil {
		b.log.Warn("transcription failed",
			zap.Int64(logger.FieldUserID, msg.From.ID), zap.Error(err))
		return b.sendText(msg.Chat.ID, "❌ Xatolik yuz berdi. Qayta urinib ko'ring.")
	}
	if text == "" {
		return b.sendText(msg.Chat.ID, "😕 Ovozni anglay olmadim. Qayta yuboring.")
	}

	return b.handleFlowText(ctx, msg, text)
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
