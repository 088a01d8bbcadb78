package storage

import (
	"context"
	"sync"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий бота
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает сессию по ID пользователя, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		// Пользователь мог написать из другого чата
		s.ChatID = chatID
		return s, nil
	}

	s := entity.NewSession(userID, chatID)
	r.sessions[userID] = s
	return s, nil
}

// Save сохраняет сессию
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.UserID] = session
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние сессии
func (r *MemorySessionRepository) UpdateState(ctx context.Context, userID int64, state entity.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		s.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
