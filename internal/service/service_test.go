package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
	"socialnet/internal/testutil"
	"socialnet/pkg/logger"
)

type services struct {
	auth    *AuthService
	content *ContentService
	social  *SocialService
	profile *ProfileService
	audit   domain.AuditLogService
}

func newServices(t *testing.T) *services {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.Nop()

	users := repository.NewUserRepository(db, log)
	posts := repository.NewPostRepository(db, log)
	follows := repository.NewFollowRepository(db, log)
	audit := NewAuditLogService(repository.NewAuditLogRepository(db, log), log)

	return &services{
		auth:    NewAuthService(users, audit, log, bcrypt.MinCost),
		content: NewContentService(posts, repository.NewCommentRepository(db, log), log),
		social:  NewSocialService(repository.NewLikeRepository(db, log), follows, log),
		profile: NewProfileService(users, posts, follows, log),
		audit:   audit,
	}
}

func (s *services) register(t *testing.T, name, username, email string) *domain.User {
	t.Helper()
	user, err := s.auth.Register(context.Background(), domain.RegisterInput{
		Name: name, Username: username, Email: email, Password: "pw123456",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	user, err := s.auth.Register(ctx, domain.RegisterInput{
		Name:     "  Alice ",
		Username: " Alice ",
		Email:    "A@X.com",
		Password: "pw123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw123456", user.PasswordHash)
	assert.NoError(t, ComparePassword(user.PasswordHash, "pw123456"))

	longPassword := strings.Repeat("p", 80)

	tests := []struct {
		name    string
		input   domain.RegisterInput
		wantErr error
	}{
		{"password over 72 bytes", domain.RegisterInput{Name: "Long", Username: "long", Email: "long@x.com", Password: longPassword}, nil},
		{"missing name", domain.RegisterInput{Name: " ", Username: "bob", Email: "b@x.com", Password: "pw"}, domain.ErrMissingFields},
		{"missing password", domain.RegisterInput{Name: "Bob", Username: "bob", Email: "b@x.com"}, domain.ErrMissingFields},
		{"username taken case-insensitively", domain.RegisterInput{Name: "A", Username: "ALICE", Email: "other@x.com", Password: "pw"}, domain.ErrDuplicateIdentity},
		{"email taken", domain.RegisterInput{Name: "A", Username: "alice2", Email: "a@x.com", Password: "pw"}, domain.ErrDuplicateIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.Register(ctx, tt.input)
			if tt.wantErr == nil {
				require.NoError(t, err)
				_, err = s.auth.Login(ctx, tt.input.Email, tt.input.Password)
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	logs, err := s.audit.GetEntityLogs(ctx, domain.EntityTypeUser, user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActionTypeRegister, logs[0].Action)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	alice := s.register(t, "Alice", "alice", "a@x.com")

	user, err := s.auth.Login(ctx, " A@X.COM ", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = s.auth.Login(ctx, "a@x.com", "pw123456"+strings.Repeat("x", 80))
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = s.auth.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = s.auth.Login(ctx, "nobody@x.com", "pw123456")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	s.auth.Logout(ctx, alice.ID)

	logs, err := s.audit.GetEntityLogs(ctx, domain.EntityTypeUser, alice.ID)
	require.NoError(t, err)
	actions := make([]domain.ActionType, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.ElementsMatch(t, []domain.ActionType{
		domain.ActionTypeRegister,
		domain.ActionTypeLogin,
		domain.ActionTypeLoginFailed,
		domain.ActionTypeLoginFailed,
		domain.ActionTypeLogout,
	}, actions)
}

func TestContentService_CreatePost(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	alice := s.register(t, "Alice", "alice", "a@x.com")

	tests := []struct {
		name      string
		input     domain.CreatePostInput
		wantErr   error
		wantMedia domain.MediaType
	}{
		{"text only", domain.CreatePostInput{Content: " hello "}, nil, domain.MediaTypeNone},
		{"media only", domain.CreatePostInput{MediaURL: "https://x/y.mp4", MediaType: "Video"}, nil, domain.MediaTypeVideo},
		{"type without url is dropped", domain.CreatePostInput{Content: "hi", MediaType: "image"}, nil, domain.MediaTypeNone},
		{"whitespace only", domain.CreatePostInput{Content: "   ", MediaURL: " "}, domain.ErrEmptyPost, ""},
		{"unknown media type", domain.CreatePostInput{MediaURL: "https://x/y", MediaType: "audio"}, domain.ErrInvalidMediaType, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.AuthorID = alice.ID
			post, err := s.content.CreatePost(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, post.ID)
			assert.Equal(t, tt.wantMedia, post.MediaType)
		})
	}

	feed, err := s.content.ListFeed(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 3)
}

func TestScenario_LikeToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	alice := s.register(t, "Alice", "alice", "a@x.com")

	post, err := s.content.CreatePost(ctx, domain.CreatePostInput{AuthorID: alice.ID, Content: "hello"})
	require.NoError(t, err)

	feed, err := s.content.ListFeed(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Zero(t, feed[0].LikeCount)
	assert.False(t, feed[0].LikedByMe)

	liked, err := s.social.ToggleLike(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	feed, err = s.content.ListFeed(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, feed[0].LikeCount)
	assert.True(t, feed[0].LikedByMe)

	liked, err = s.social.ToggleLike(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	feed, err = s.content.ListFeed(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, feed[0].LikeCount)
	assert.False(t, feed[0].LikedByMe)

	_, err = s.social.ToggleLike(ctx, 9999, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScenario_FollowAndProfile(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	alice := s.register(t, "Alice", "alice", "a@x.com")
	bob := s.register(t, "Bob", "bob", "b@x.com")

	following, err := s.social.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	profile, err := s.profile.GetUserProfile(ctx, alice.ID, "BOB")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, profile.User.ID)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsSelf)
	assert.EqualValues(t, 1, profile.Followers)
	assert.EqualValues(t, 0, profile.Following)
	assert.Empty(t, profile.Posts)

	own, err := s.profile.GetUserProfile(ctx, alice.ID, "alice")
	require.NoError(t, err)
	assert.True(t, own.IsSelf)
	assert.EqualValues(t, 1, own.Following)

	following, err = s.social.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	profile, err = s.profile.GetUserProfile(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.False(t, profile.IsFollowing)
	assert.Zero(t, profile.Followers)

	_, err = s.social.ToggleFollow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrSelfFollow)

	_, err = s.social.ToggleFollow(ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = s.profile.GetUserProfile(ctx, alice.ID, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestContentService_PostDetailAndComments(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	alice := s.register(t, "Alice", "alice", "a@x.com")
	bob := s.register(t, "Bob", "bob", "b@x.com")

	post, err := s.content.CreatePost(ctx, domain.CreatePostInput{AuthorID: alice.ID, Content: "hello"})
	require.NoError(t, err)

	_, err = s.content.AddComment(ctx, post.ID, bob.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyComment)

	_, err = s.content.AddComment(ctx, post.ID, bob.ID, "first")
	require.NoError(t, err)
	latest, err := s.content.AddComment(ctx, post.ID, alice.ID, " second ")
	require.NoError(t, err)
	assert.Equal(t, "second", latest.Content)

	detail, err := s.content.GetPostDetail(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, detail.Post.ID)
	assert.EqualValues(t, 2, detail.Post.CommentCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, latest.ID, detail.Comments[0].ID)
	assert.Equal(t, "alice", detail.Comments[0].AuthorUsername)

	_, err = s.content.GetPostDetail(ctx, bob.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	_, err = s.content.AddComment(ctx, 9999, bob.ID, "lost")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

type failingComments struct{}

func (failingComments) Create(context.Context, *domain.Comment) error {
	return errors.New("disk full")
}

func (failingComments) ListByPost(context.Context, int64) ([]*domain.Comment, error) {
	return nil, errors.New("disk full")
}

func TestContentService_PostDetailSurvivesCommentFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	log := logger.Nop()

	posts := repository.NewPostRepository(db, log)
	content := NewContentService(posts, failingComments{}, log)

	alice := testutil.InsertUser(t, db, "alice")
	post, err := content.CreatePost(ctx, domain.CreatePostInput{AuthorID: alice.ID, Content: "hello"})
	require.NoError(t, err)

	detail, err := content.GetPostDetail(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)
}

type failingAuditRepo struct{}

func (failingAuditRepo) Create(context.Context, *domain.AuditLog) error {
	return errors.New("audit store down")
}

func (failingAuditRepo) FindByEntityID(context.Context, domain.EntityType, int64) ([]*domain.AuditLog, error) {
	return nil, errors.New("audit store down")
}

func TestAuditLogService_BestEffort(t *testing.T) {
	svc := NewAuditLogService(failingAuditRepo{}, logger.Nop())

	assert.NotPanics(t, func() {
		svc.LogAction(context.Background(), domain.EntityTypeUser, 1, domain.ActionTypeLogin, "")
	})

	_, err := svc.GetEntityLogs(context.Background(), domain.EntityTypeUser, 1)
	assert.Error(t, err)
}
