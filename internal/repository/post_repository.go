package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"socialnet/internal/domain"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

// feedSelect annotates every post with its author and the read-time
// aggregates. $1 is always the viewer id.
const feedSelect = `
	SELECT p.id, p.user_id, p.content, COALESCE(p.media_url, ''), COALESCE(p.media_type, ''), p.created_at,
		u.name, u.username,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
		EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS liked_by_me,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

const newestFirst = ` ORDER BY p.created_at DESC, p.id DESC`

type PostRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostRepository(db *sql.DB, logger logger.Logger) domain.PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFeedItem(row rowScanner) (*domain.FeedItem, error) {
	var item domain.FeedItem
	var mediaType string
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Content,
		&item.MediaURL,
		&mediaType,
		&item.CreatedAt,
		&item.AuthorName,
		&item.AuthorUsername,
		&item.LikeCount,
		&item.LikedByMe,
		&item.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	item.MediaType = domain.MediaType(mediaType)
	return &item, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (err error) {
	defer observe("insert", "post", time.Now(), &err)

	query := `
		INSERT INTO posts (user_id, content, media_url, media_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	post.CreatedAt = time.Now().UTC()

	err = r.db.QueryRowContext(
		ctx,
		query,
		post.UserID,
		post.Content,
		nullable(post.MediaURL),
		nullable(string(post.MediaType)),
		post.CreatedAt,
	).Scan(&post.ID)

	if err != nil {
		if pkgdb.IsForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		r.logger.ErrorContext(ctx, "post could not be created", map[string]interface{}{"user_id": post.UserID, "error": err.Error()})
		return fmt.Errorf("post could not be created: %w", err)
	}

	return nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.FeedItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.FeedItem, 0)
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListFeed returns every post, newest first. There is no pagination.
func (r *PostRepository) ListFeed(ctx context.Context, viewerID int64) (items []*domain.FeedItem, err error) {
	defer observe("select", "feed", time.Now(), &err)

	items, err = r.list(ctx, feedSelect+newestFirst, viewerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "feed could not be listed", map[string]interface{}{"viewer_id": viewerID, "error": err.Error()})
		return nil, fmt.Errorf("feed could not be listed: %w", err)
	}

	return items, nil
}

func (r *PostRepository) ListByUser(ctx context.Context, viewerID, userID int64) (items []*domain.FeedItem, err error) {
	defer observe("select", "user_posts", time.Now(), &err)

	items, err = r.list(ctx, feedSelect+` WHERE p.user_id = $2`+newestFirst, viewerID, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "user posts could not be listed", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil, fmt.Errorf("user posts could not be listed: %w", err)
	}

	return items, nil
}

func (r *PostRepository) FindWithStats(ctx context.Context, viewerID, postID int64) (item *domain.FeedItem, err error) {
	defer observe("select", "post", time.Now(), &err)

	item, err = scanFeedItem(r.db.QueryRowContext(ctx, feedSelect+` WHERE p.id = $2`, viewerID, postID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "post could not be loaded", map[string]interface{}{"post_id": postID, "error": err.Error()})
		return nil, fmt.Errorf("post could not be loaded: %w", err)
	}

	return item, nil
}
