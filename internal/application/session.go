package app

import (
	"context"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *SessionService) SetState(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// RecordCheck отмечает проверенное фото и снова ждёт следующее.
func (s *SessionService) RecordCheck(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.Checks++
	session.SetState(entity.StateAwaitingPhoto)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
