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

type FollowRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewFollowRepository(db *sql.DB, logger logger.Logger) domain.FollowRepository {
	return &FollowRepository{
		db:     db,
		logger: logger,
	}
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID int64) (exists bool, err error) {
	defer observe("select", "follow", time.Now(), &err)

	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	if err = r.db.QueryRowContext(ctx, query, followerID, followingID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "follow lookup failed", map[string]interface{}{"follower_id": followerID, "following_id": followingID, "error": err.Error()})
		return false, fmt.Errorf("follow lookup failed: %w", err)
	}

	return exists, nil
}

// Insert is a no-op when the pair already exists.
func (r *FollowRepository) Insert(ctx context.Context, followerID, followingID int64) (err error) {
	defer observe("insert", "follow", time.Now(), &err)

	query := `INSERT INTO follows (follower_id, following_id) VALUES ($1, $2) ON CONFLICT (follower_id, following_id) DO NOTHING`
	if _, err = r.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		if pkgdb.IsForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		r.logger.ErrorContext(ctx, "follow could not be inserted", map[string]interface{}{"follower_id": followerID, "following_id": followingID, "error": err.Error()})
		return fmt.Errorf("follow could not be inserted: %w", err)
	}

	return nil
}

// Delete is a no-op when the pair does not exist.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID int64) (err error) {
	defer observe("delete", "follow", time.Now(), &err)

	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	if _, err = r.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		r.logger.ErrorContext(ctx, "follow could not be deleted", map[string]interface{}{"follower_id": followerID, "following_id": followingID, "error": err.Error()})
		return fmt.Errorf("follow could not be deleted: %w", err)
	}

	return nil
}

func (r *FollowRepository) count(ctx context.Context, column string, userID int64) (n int64, err error) {
	defer observe("count", "follow", time.Now(), &err)

	query := `SELECT COUNT(*) FROM follows WHERE ` + column + ` = $1`
	if err = r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		r.logger.ErrorContext(ctx, "follow count failed", map[string]interface{}{column: userID, "error": err.Error()})
		return 0, fmt.Errorf("follow count failed: %w", err)
	}

	return n, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, "following_id", userID)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, "follower_id", userID)
}
