package domain

import (
	"context"
	"time"
)

type MediaType string

const (
	MediaTypeNone  MediaType = ""
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeNone, MediaTypeImage, MediaTypeVideo:
		return true
	}
	return false
}

// Post is never updated or deleted once written. Content may be empty only
// when MediaURL is set.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"media_url,omitempty"`
	MediaType MediaType `json:"media_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedItem is a post annotated with its author and read-time aggregates.
type FeedItem struct {
	Post
	AuthorName     string `json:"author_name"`
	AuthorUsername string `json:"author_username"`
	LikeCount      int64  `json:"like_count"`
	LikedByMe      bool   `json:"liked_by_me"`
	CommentCount   int64  `json:"comment_count"`
}

type PostDetail struct {
	Post     *FeedItem  `json:"post"`
	Comments []*Comment `json:"comments"`
}

type CreatePostInput struct {
	AuthorID  int64
	Content   string
	MediaURL  string
	MediaType string
}

type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	ListFeed(ctx context.Context, viewerID int64) ([]*FeedItem, error)
	ListByUser(ctx context.Context, viewerID, userID int64) ([]*FeedItem, error)
	FindWithStats(ctx context.Context, viewerID, postID int64) (*FeedItem, error)
}

type ContentService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*Post, error)
	ListFeed(ctx context.Context, viewerID int64) ([]*FeedItem, error)
	GetPostDetail(ctx context.Context, viewerID, postID int64) (*PostDetail, error)
	AddComment(ctx context.Context, postID, authorID int64, content string) (*Comment, error)
}
