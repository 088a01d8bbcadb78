package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "kwh-verifier/internal/application"
	"kwh-verifier/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я проверяю фото счётчиков kWh.

📸 Отправьте фото счётчика, и я скажу, годится ли оно для отчёта.

📋 Команды:
/check — начать проверку
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото счётчика (можно файлом)
2️⃣ В подписи укажите IDPEL, если его нет в имени файла
3️⃣ Бот ответит: прошло фото проверку или нет и почему

💡 Рекомендации:
• Снимайте при хорошем освещении
• Счётчик должен занимать большую часть кадра
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото счётчика для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото счётчика."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Проверяю фото..."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// API — методы tgbotapi.BotAPI, которыми пользуется бот.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// PhotoVerifier проверяет одно фото.
type PhotoVerifier interface {
	VerifyPhoto(ctx context.Context, name string, data []byte) (*app.PhotoCheck, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api      API
	sessions *app.SessionService
	verifier PhotoVerifier
	client   *http.Client
}

// Connect авторизуется в Telegram
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)
	return api, nil
}

// NewBot создаёт нового бота
func NewBot(api API, sessions *app.SessionService, verifier PhotoVerifier) *Bot {
	return &Bot{
		api:      api,
		sessions: sessions,
		verifier: verifier,
		client:   &http.Client{},
	}
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if fileID, name, ok := photoFile(msg); ok {
		b.handlePhoto(ctx, msg, fileID, name)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	var err error
	switch msg.Command() {
	case "start":
		_, err = b.sessions.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		_, err = b.sessions.BeginCheck(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		_, err = b.sessions.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
	if err != nil {
		log.Printf("Error saving session: %v", err)
	}
}

// handlePhoto проверяет фото в любом состоянии сессии
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID, name string) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	if _, err := b.sessions.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		log.Printf("Error saving session: %v", err)
	}

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		b.sessions.Cancel(ctx, userID, chatID)
		return
	}

	check, err := b.verifier.VerifyPhoto(ctx, name, imageData)
	if err != nil {
		log.Printf("Error verifying photo %s: %v", name, err)
		b.sendMessage(chatID, msgProcessingError)
		b.sessions.Cancel(ctx, userID, chatID)
		return
	}

	b.sendMessage(chatID, FormatCheck(check))
	if _, err := b.sessions.RecordCheck(ctx, userID, chatID); err != nil {
		log.Printf("Error saving session: %v", err)
	}
}

// photoFile выбирает файл для проверки: самое крупное фото или документ-картинку.
// Подпись с IDPEL становится именем файла, чтобы из него извлёкся идентификатор.
// captionCleaner убирает разделители пути, иначе подпись обрежется до последнего сегмента.
var captionCleaner = strings.NewReplacer("/", "", "\\", "")

func photoFile(msg *tgbotapi.Message) (fileID, name string, ok bool) {
	caption := strings.TrimSpace(captionCleaner.Replace(msg.Caption))
	switch {
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		fileID, name = photo.FileID, photo.FileUniqueID+".jpg"
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		fileID, name = msg.Document.FileID, msg.Document.FileName
		if name == "" {
			name = msg.Document.FileUniqueID + ".jpg"
		}
	default:
		return "", "", false
	}
	if caption != "" {
		name = caption + "_" + name
	}
	return fileID, name, true
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// FormatCheck собирает ответ с вердиктом по фото.
func FormatCheck(check *app.PhotoCheck) string {
	var b strings.Builder
	if check.Verdict.Pass {
		b.WriteString("✅ Фото прошло проверку\n\n")
	} else {
		b.WriteString("❌ Фото не прошло проверку\n\n")
	}

	idpel := check.Photo.Idpel
	if idpel == "" {
		idpel = "не найден"
	}
	fmt.Fprintf(&b, "IDPEL: %s\n", idpel)
	if check.Photo.Stand != "" {
		fmt.Fprintf(&b, "Показание: %s\n", check.Photo.Stand)
	}
	cls := check.Classification
	fmt.Fprintf(&b, "Класс: %s (KWH %.2f / NEG %.2f)\n", cls.Label, cls.ValidProb, cls.NegativeProb)
	q := check.Quality
	fmt.Fprintf(&b, "Резкость %.1f, яркость %.1f, контраст %.1f", q.Sharpness, q.Brightness, q.Contrast)

	if len(check.Verdict.Reasons) > 0 {
		b.WriteString("\n\nПричины:")
		for _, r := range check.Verdict.Reasons {
			fmt.Fprintf(&b, "\n• %s", r)
		}
	}
	return b.String()
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
