package service

import (
	"context"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
	"socialnet/pkg/metrics"
)

// SocialService toggles likes and follows with a read followed by an
// idempotent write, without a transaction around the two. Two racing toggles
// may both report the same state; the unique constraints keep the rows and
// therefore the counts correct.
type SocialService struct {
	likes   domain.LikeRepository
	follows domain.FollowRepository
	logger  logger.Logger
}

func NewSocialService(likes domain.LikeRepository, follows domain.FollowRepository, logger logger.Logger) *SocialService {
	return &SocialService{
		likes:   likes,
		follows: follows,
		logger:  logger,
	}
}

// ToggleLike reports whether the user likes the post afterwards.
func (s *SocialService) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	liked, err := s.likes.Exists(ctx, postID, userID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.likes.Delete(ctx, postID, userID); err != nil {
			return false, err
		}
	} else {
		if err := s.likes.Insert(ctx, postID, userID); err != nil {
			return false, err
		}
	}

	metrics.RecordToggle("like", !liked)
	s.logger.DebugContext(ctx, "like toggled", map[string]interface{}{"post_id": postID, "user_id": userID, "liked": !liked})

	return !liked, nil
}

// ToggleFollow reports whether the follower follows the target afterwards.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, targetID int64) (bool, error) {
	if followerID == targetID {
		return false, domain.ErrSelfFollow
	}

	following, err := s.follows.Exists(ctx, followerID, targetID)
	if err != nil {
		return false, err
	}

	if following {
		if err := s.follows.Delete(ctx, followerID, targetID); err != nil {
			return false, err
		}
	} else {
		if err := s.follows.Insert(ctx, followerID, targetID); err != nil {
			return false, err
		}
	}

	metrics.RecordToggle("follow", !following)
	s.logger.DebugContext(ctx, "follow toggled", map[string]interface{}{"follower_id": followerID, "following_id": targetID, "following": !following})

	return !following, nil
}
