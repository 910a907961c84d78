package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
)

// SQLStore keeps sessions in their own database file, apart from the
// application data.
type SQLStore struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, logger logger.Logger) *SQLStore {
	return &SQLStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        user_id BIGINT NOT NULL,
        name TEXT NOT NULL,
        username TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        expires_at TIMESTAMP NOT NULL
    )
    `
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("sessions table could not be created: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at)`); err != nil {
		return fmt.Errorf("sessions index could not be created: %w", err)
	}

	return nil
}

func (s *SQLStore) Save(ctx context.Context, sess *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, name, username, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, sess.ID, sess.UserID, sess.Name, sess.Username, sess.CreatedAt.UTC(), sess.ExpiresAt.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "session could not be saved", map[string]interface{}{"user_id": sess.UserID, "error": err.Error()})
		return fmt.Errorf("session could not be saved: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT id, user_id, name, username, created_at, expires_at FROM sessions WHERE id = $1`

	var sess domain.Session
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.Name,
		&sess.Username,
		&sess.CreatedAt,
		&sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	if sess.Expired(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "expired session could not be removed", map[string]interface{}{"error": err.Error()})
		}
		return nil, domain.ErrSessionExpired
	}

	return &sess, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("session could not be deleted: %w", err)
	}
	return nil
}

// PurgeExpired drops every session past its expiry and reports how many went.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expired sessions could not be purged: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
