package notify

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kwh-verifier/internal/domain/port"
)

// telegramLimit — максимальная длина текста сообщения в Telegram.
const telegramLimit = 4096

// Sender — часть tgbotapi.BotAPI, нужная для отправки сообщений.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier отправляет сводки заданий в чат.
type TelegramNotifier struct {
	bot    Sender
	chatID int64
}

// NewTelegramNotifier создаёт уведомитель поверх готового бота.
func NewTelegramNotifier(bot Sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if runes := []rune(text); len(runes) > telegramLimit {
		text = string(runes[:telegramLimit])
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Noop ничего не отправляет.
type Noop struct{}

func (Noop) Notify(ctx context.Context, text string) error { return nil }

// New возвращает уведомитель в Telegram, если заданы токен и чат, иначе Noop.
// endpoint и client нужны для тестов; пустые значения — API Telegram по умолчанию.
func New(token string, chatID int64, endpoint string, client *http.Client) (port.Notifier, error) {
	if token == "" || chatID == 0 {
		return Noop{}, nil
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewTelegramNotifier(bot, chatID), nil
}

// Проверка реализации интерфейса
var (
	_ port.Notifier = (*TelegramNotifier)(nil)
	_ port.Notifier = Noop{}
)
