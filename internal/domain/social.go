package domain

import "context"

// LikeRepository and FollowRepository expose the idempotent primitives the
// toggles are built from: Insert ignores an existing row and Delete ignores a
// missing one.
type LikeRepository interface {
	Exists(ctx context.Context, postID, userID int64) (bool, error)
	Insert(ctx context.Context, postID, userID int64) error
	Delete(ctx context.Context, postID, userID int64) error
}

type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	Insert(ctx context.Context, followerID, followingID int64) error
	Delete(ctx context.Context, followerID, followingID int64) error
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
}

type SocialService interface {
	ToggleLike(ctx context.Context, postID, userID int64) (bool, error)
	ToggleFollow(ctx context.Context, followerID, targetID int64) (bool, error)
}
