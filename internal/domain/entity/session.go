package entity

// SessionState состояние диалога с сотрудником
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // В главном меню
	StateAwaitingPhoto SessionState = "awaiting_photo" // Ожидание фото счётчика
	StateProcessing    SessionState = "processing"     // Проверка фото
)

// Session представляет сотрудника, работающего с ботом
type Session struct {
	UserID int64        // Telegram User ID
	ChatID int64        // Telegram Chat ID
	State  SessionState // Текущее состояние
	Checks int          // Сколько фото проверено в сессии
}

// NewSession создаёт сессию в главном меню
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}
