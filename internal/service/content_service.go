package service

import (
	"context"
	"fmt"
	"strings"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
	"socialnet/pkg/metrics"
)

type ContentService struct {
	posts    domain.PostRepository
	comments domain.CommentRepository
	logger   logger.Logger
}

func NewContentService(posts domain.PostRepository, comments domain.CommentRepository, logger logger.Logger) *ContentService {
	return &ContentService{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// CreatePost requires content or a media url after trimming. The media type
// must be image, video or empty and is dropped when there is no media url.
func (s *ContentService) CreatePost(ctx context.Context, input domain.CreatePostInput) (*domain.Post, error) {
	post := &domain.Post{
		UserID:    input.AuthorID,
		Content:   strings.TrimSpace(input.Content),
		MediaURL:  strings.TrimSpace(input.MediaURL),
		MediaType: domain.MediaType(strings.ToLower(strings.TrimSpace(input.MediaType))),
	}

	if post.Content == "" && post.MediaURL == "" {
		return nil, domain.ErrEmptyPost
	}
	if !post.MediaType.Valid() {
		return nil, domain.ErrInvalidMediaType
	}
	if post.MediaURL == "" {
		post.MediaType = domain.MediaTypeNone
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	metrics.RecordContentCreated("post")
	return post, nil
}

func (s *ContentService) ListFeed(ctx context.Context, viewerID int64) ([]*domain.FeedItem, error) {
	return s.posts.ListFeed(ctx, viewerID)
}

func (s *ContentService) GetPostDetail(ctx context.Context, viewerID, postID int64) (*domain.PostDetail, error) {
	post, err := s.posts.FindWithStats(ctx, viewerID, postID)
	if err != nil {
		return nil, fmt.Errorf("post detail could not be loaded: %w", err)
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		// The post still renders, just without its comments.
		s.logger.ErrorContext(ctx, "comments unavailable for post detail", map[string]interface{}{"post_id": postID, "error": err.Error()})
		comments = []*domain.Comment{}
	}

	return &domain.PostDetail{Post: post, Comments: comments}, nil
}

func (s *ContentService) AddComment(ctx context.Context, postID, authorID int64, content string) (*domain.Comment, error) {
	comment := &domain.Comment{
		PostID:  postID,
		UserID:  authorID,
		Content: strings.TrimSpace(content),
	}

	if comment.Content == "" {
		return nil, domain.ErrEmptyComment
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	metrics.RecordContentCreated("comment")
	return comment, nil
}
