// Package seed loads a small set of demo accounts and posts.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
	"socialnet/internal/service"
	"socialnet/pkg/logger"
)

const DemoPassword = "123456"

type demoPost struct {
	username  string
	content   string
	mediaType domain.MediaType
	mediaURL  string
}

var demoUsers = []domain.User{
	{Name: "Salman Fan Page (Demo)", Username: "salman_fan_demo", Email: "salman_demo@mail.com", Bio: "Demo fan page for UI testing."},
	{Name: "Katrina Fan Page (Demo)", Username: "katrina_fan_demo", Email: "katrina_demo@mail.com", Bio: "Demo fan page for UI testing."},
	{Name: "Tech Creator", Username: "tech_creator", Email: "tech@mail.com", Bio: "Posting tech tips daily."},
}

var demoPosts = []demoPost{
	{
		username:  "salman_fan_demo",
		content:   "New post (demo): Behind the scenes vibes!",
		mediaType: domain.MediaTypeImage,
		mediaURL:  "https://images.unsplash.com/photo-1520975916090-3105956dac38?auto=format&fit=crop&w=1200&q=80",
	},
	{
		username:  "katrina_fan_demo",
		content:   "Demo post: Travel aesthetic!",
		mediaType: domain.MediaTypeImage,
		mediaURL:  "https://images.unsplash.com/photo-1520975958225-9e4e2b43d89b?auto=format&fit=crop&w=1200&q=80",
	},
	{
		username:  "tech_creator",
		content:   "Demo video post: nature clip (mp4).",
		mediaType: domain.MediaTypeVideo,
		mediaURL:  "https://interactive-examples.mdn.mozilla.net/media/cc0-videos/flower.mp4",
	},
}

// follower -> followed
var demoFollows = [][2]string{
	{"tech_creator", "salman_fan_demo"},
	{"tech_creator", "katrina_fan_demo"},
	{"salman_fan_demo", "katrina_fan_demo"},
}

type Summary struct {
	Users    int
	Posts    int
	Follows  int
	Likes    int
	Comments int
}

// Run wipes all user content and inserts the demo data set. Sessions live in
// their own store and are not touched.
func Run(ctx context.Context, db *sql.DB, log logger.Logger, bcryptCost int) (*Summary, error) {
	for _, table := range []string{"follows", "likes", "comments", "posts", "users"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("%s could not be cleared: %w", table, err)
		}
	}

	hash, err := service.HashPassword(DemoPassword, bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password could not be hashed: %w", err)
	}

	users := repository.NewUserRepository(db, log)
	posts := repository.NewPostRepository(db, log)
	comments := repository.NewCommentRepository(db, log)
	likes := repository.NewLikeRepository(db, log)
	follows := repository.NewFollowRepository(db, log)

	summary := &Summary{}
	byUsername := make(map[string]int64, len(demoUsers))

	for _, u := range demoUsers {
		user := u
		user.PasswordHash = hash
		if err := users.Create(ctx, &user); err != nil {
			return nil, fmt.Errorf("user %s could not be created: %w", user.Username, err)
		}
		byUsername[user.Username] = user.ID
		summary.Users++
	}

	postIDs := make([]int64, 0, len(demoPosts))
	for _, p := range demoPosts {
		post := &domain.Post{
			UserID:    byUsername[p.username],
			Content:   p.content,
			MediaURL:  p.mediaURL,
			MediaType: p.mediaType,
		}
		if err := posts.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("post could not be created: %w", err)
		}
		postIDs = append(postIDs, post.ID)
		summary.Posts++
	}

	for _, f := range demoFollows {
		if err := follows.Insert(ctx, byUsername[f[0]], byUsername[f[1]]); err != nil {
			return nil, fmt.Errorf("follow could not be created: %w", err)
		}
		summary.Follows++
	}

	// Everyone likes the video post; its author also comments on the first one.
	videoPost := postIDs[len(postIDs)-1]
	for _, id := range byUsername {
		if err := likes.Insert(ctx, videoPost, id); err != nil {
			return nil, fmt.Errorf("like could not be created: %w", err)
		}
		summary.Likes++
	}

	comment := &domain.Comment{
		PostID:  postIDs[0],
		UserID:  byUsername["tech_creator"],
		Content: "Great shot!",
	}
	if err := comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("comment could not be created: %w", err)
	}
	summary.Comments++

	return summary, nil
}
