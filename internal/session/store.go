package session

import (
	"context"

	"socialnet/internal/domain"
)

// Store persists sessions keyed by id. Get returns domain.ErrSessionNotFound
// for unknown ids and domain.ErrSessionExpired for stale ones.
type Store interface {
	Save(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
