package service

import (
	"context"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
)

type ProfileService struct {
	users   domain.UserRepository
	posts   domain.PostRepository
	follows domain.FollowRepository
	logger  logger.Logger
}

func NewProfileService(users domain.UserRepository, posts domain.PostRepository, follows domain.FollowRepository, logger logger.Logger) *ProfileService {
	return &ProfileService{
		users:   users,
		posts:   posts,
		follows: follows,
		logger:  logger,
	}
}

// GetUserProfile composes the page from independent reads. They are not
// wrapped in a transaction, so a concurrent follow can land between the
// relationship check and the counts.
func (s *ProfileService) GetUserProfile(ctx context.Context, viewerID int64, username string) (*domain.Profile, error) {
	user, err := s.users.FindByUsername(ctx, domain.NormalizeIdentity(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	profile := &domain.Profile{
		User:   user,
		IsSelf: user.ID == viewerID,
	}

	if profile.IsFollowing, err = s.follows.Exists(ctx, viewerID, user.ID); err != nil {
		return nil, err
	}
	if profile.Posts, err = s.posts.ListByUser(ctx, viewerID, user.ID); err != nil {
		return nil, err
	}
	if profile.Followers, err = s.follows.CountFollowers(ctx, user.ID); err != nil {
		return nil, err
	}
	if profile.Following, err = s.follows.CountFollowing(ctx, user.ID); err != nil {
		return nil, err
	}

	return profile, nil
}
