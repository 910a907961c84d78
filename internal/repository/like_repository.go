package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialnet/internal/domain"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

type LikeRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewLikeRepository(db *sql.DB, logger logger.Logger) domain.LikeRepository {
	return &LikeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LikeRepository) Exists(ctx context.Context, postID, userID int64) (exists bool, err error) {
	defer observe("select", "like", time.Now(), &err)

	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`
	if err = r.db.QueryRowContext(ctx, query, postID, userID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "like lookup failed", map[string]interface{}{"post_id": postID, "user_id": userID, "error": err.Error()})
		return false, fmt.Errorf("like lookup failed: %w", err)
	}

	return exists, nil
}

// Insert is a no-op when the pair already exists.
func (r *LikeRepository) Insert(ctx context.Context, postID, userID int64) (err error) {
	defer observe("insert", "like", time.Now(), &err)

	query := `INSERT INTO likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT (post_id, user_id) DO NOTHING`
	if _, err = r.db.ExecContext(ctx, query, postID, userID); err != nil {
		if pkgdb.IsForeignKeyViolation(err) {
			return domain.ErrPostNotFound
		}
		r.logger.ErrorContext(ctx, "like could not be inserted", map[string]interface{}{"post_id": postID, "user_id": userID, "error": err.Error()})
		return fmt.Errorf("like could not be inserted: %w", err)
	}

	return nil
}

// Delete is a no-op when the pair does not exist.
func (r *LikeRepository) Delete(ctx context.Context, postID, userID int64) (err error) {
	defer observe("delete", "like", time.Now(), &err)

	query := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	if _, err = r.db.ExecContext(ctx, query, postID, userID); err != nil {
		r.logger.ErrorContext(ctx, "like could not be deleted", map[string]interface{}{"post_id": postID, "user_id": userID, "error": err.Error()})
		return fmt.Errorf("like could not be deleted: %w", err)
	}

	return nil
}
