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

type CommentRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCommentRepository(db *sql.DB, logger logger.Logger) domain.CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (err error) {
	defer observe("insert", "comment", time.Now(), &err)

	query := `
		INSERT INTO comments (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	comment.CreatedAt = time.Now().UTC()

	err = r.db.QueryRowContext(ctx, query, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt).Scan(&comment.ID)
	if err != nil {
		if pkgdb.IsForeignKeyViolation(err) {
			return domain.ErrPostNotFound
		}
		r.logger.ErrorContext(ctx, "comment could not be created", map[string]interface{}{"post_id": comment.PostID, "error": err.Error()})
		return fmt.Errorf("comment could not be created: %w", err)
	}

	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) (comments []*domain.Comment, err error) {
	defer observe("select", "comment", time.Now(), &err)

	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.name, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		r.logger.ErrorContext(ctx, "comments could not be listed", map[string]interface{}{"post_id": postID, "error": err.Error()})
		return nil, fmt.Errorf("comments could not be listed: %w", err)
	}
	defer rows.Close()

	comments = make([]*domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err = rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.AuthorName, &c.AuthorUsername); err != nil {
			return nil, fmt.Errorf("comment row could not be read: %w", err)
		}
		comments = append(comments, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("comments could not be listed: %w", err)
	}

	return comments, nil
}
