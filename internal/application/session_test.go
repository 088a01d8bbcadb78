package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/infrastructure/storage"
)

func TestSessionService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	session, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)

	session, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)
}

func TestSessionService_SetState(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	session, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, session.State)
}

func TestSessionService_RecordCheck(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	_, err := svc.SetState(ctx, 3, 30, entity.StateProcessing)
	require.NoError(t, err)

	session, err := svc.RecordCheck(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, 1, session.Checks)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)

	session, err = svc.RecordCheck(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, 2, session.Checks)
}
