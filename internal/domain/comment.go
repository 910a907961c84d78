package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID             int64     `json:"id"`
	PostID         int64     `json:"post_id"`
	UserID         int64     `json:"user_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorName     string    `json:"author_name,omitempty"`
	AuthorUsername string    `json:"author_username,omitempty"`
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	ListByPost(ctx context.Context, postID int64) ([]*Comment, error)
}
