package domain

import "context"

type Profile struct {
	User        *User       `json:"user"`
	Posts       []*FeedItem `json:"posts"`
	IsSelf      bool        `json:"is_self"`
	IsFollowing bool        `json:"is_following"`
	Followers   int64       `json:"followers"`
	Following   int64       `json:"following"`
}

type ProfileService interface {
	GetUserProfile(ctx context.Context, viewerID int64, username string) (*Profile, error)
}
