// Package notify tells staff about new cases and reporter messages.
package notify

import (
	"context"
	"fmt"
	"unicode/utf8"

	"denuncia/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const previewLength = 200

// Notifier delivers staff notifications. Delivery is best effort: failures
// are logged by the implementation and never block the caller's operation.
type Notifier interface {
	CaseCreated(ctx context.Context, c *models.Case)
	ReporterMessage(ctx context.Context, c *models.Case, msg *models.Message)
}

// Noop discards notifications.
type Noop struct{}

func (Noop) CaseCreated(context.Context, *models.Case)                       {}
func (Noop) ReporterMessage(context.Context, *models.Case, *models.Message) {}

// Sender is the part of *tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts notifications to one staff chat.
type Telegram struct {
	bot    Sender
	chatID int64
	log    *zap.Logger
}

// NewTelegram authorizes the bot and returns a notifier posting to chatID.
func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = false
	log.Info("telegram notifier authorized", zap.String("account", bot.Self.UserName))
	return NewTelegramWithSender(bot, chatID, log), nil
}

func NewTelegramWithSender(bot Sender, chatID int64, log *zap.Logger) *Telegram {
	return &Telegram{bot: bot, chatID: chatID, log: log}
}

func (t *Telegram) CaseCreated(ctx context.Context, c *models.Case) {
	kind := "identificada"
	if c.Anonymous {
		kind = "anônima"
	}
	text := fmt.Sprintf("🆕 *Nova denúncia #%d* (%s, %s)\n%s",
		c.ID, escape(string(c.Category)), kind, escape(preview(c.Description)))
	t.send(c.ID, text)
}

func (t *Telegram) ReporterMessage(ctx context.Context, c *models.Case, msg *models.Message) {
	text := fmt.Sprintf("💬 *Nova mensagem na denúncia #%d* (%s)\n%s",
		c.ID, escape(string(c.Status)), escape(preview(msg.Body)))
	t.send(c.ID, text)
}

func (t *Telegram) send(caseID uint, text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn("telegram notification failed", zap.Uint("case_id", caseID), zap.Error(err))
	}
}

// escape makes s literal under legacy Markdown; status names such as
// UNDER_REVIEW otherwise open an unterminated italic entity.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:previewLength]) + "…"
}
