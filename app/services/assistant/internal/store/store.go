package store

import (
	"context"
	"errors"

	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/tryon"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrBusy     = errors.New("session is busy")
)

// Store checkpoints whole session snapshots. Save is last-write-wins, so callers
// serialise turns on a session with Lock.
type Store interface {
	Load(ctx context.Context, id string) (*state.Session, error)
	Save(ctx context.Context, s *state.Session) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (unlock func(), err error)

	SaveTryOn(ctx context.Context, r *tryon.Report) error
	LoadTryOn(ctx context.Context, sessionID string) (*tryon.Report, error)
}
