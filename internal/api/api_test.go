package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/repository"
	"socialnet/internal/service"
	"socialnet/internal/session"
	"socialnet/internal/testutil"
	"socialnet/internal/web"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

type testApp struct {
	handler http.Handler
	db      *sql.DB
}

func newTestApp(t *testing.T, opts RouterOptions) *testApp {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.Nop()

	sessionDB, err := pkgdb.Open(pkgdb.Config{
		Driver: string(pkgdb.DialectSQLite),
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { sessionDB.Close() })

	store := session.NewSQLStore(sessionDB, log)
	require.NoError(t, store.EnsureSchema(context.Background()))
	sessions := session.NewManager(store, session.Options{Secret: "test-secret", TTL: time.Hour})

	renderer, err := web.NewRenderer("", log)
	require.NoError(t, err)

	users := repository.NewUserRepository(db, log)
	posts := repository.NewPostRepository(db, log)
	follows := repository.NewFollowRepository(db, log)
	audit := service.NewAuditLogService(repository.NewAuditLogRepository(db, log), log)

	handler := NewRouter(sessions, log, opts,
		NewAuthHandler(service.NewAuthService(users, audit, log, bcrypt.MinCost), sessions, renderer, log),
		NewContentHandler(service.NewContentService(posts, repository.NewCommentRepository(db, log), log), renderer, log),
		NewSocialHandler(service.NewSocialService(repository.NewLikeRepository(db, log), follows, log), log),
		NewProfileHandler(service.NewProfileService(users, posts, follows, log), audit, renderer, log),
		NewHealthHandler(db, store, nil, log),
	)

	return &testApp{handler: handler, db: db}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "socialnet_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (a *testApp) register(t *testing.T, name, username, email string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/register", url.Values{
		"name":     {name},
		"username": {username},
		"email":    {email},
		"password": {"pw123456"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/feed", rec.Header().Get("Location"))
	return sessionCookie(t, rec)
}

func (a *testApp) userID(t *testing.T, username string) int64 {
	t.Helper()
	var id int64
	require.NoError(t, a.db.QueryRow(`SELECT id FROM users WHERE username = $1`, username).Scan(&id))
	return id
}

func (a *testApp) latestPostID(t *testing.T) int64 {
	t.Helper()
	var id int64
	require.NoError(t, a.db.QueryRow(`SELECT MAX(id) FROM posts`).Scan(&id))
	return id
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	app := newTestApp(t, RouterOptions{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/feed"},
		{http.MethodPost, "/post"},
		{http.MethodGet, "/post/1"},
		{http.MethodPost, "/comment/1"},
		{http.MethodPost, "/like/1"},
		{http.MethodPost, "/follow/1"},
		{http.MethodGet, "/me"},
		{http.MethodGet, "/u/alice"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := app.do(t, rt.method, rt.path, nil, nil)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t, RouterOptions{})

	cookie := app.register(t, "Alice", "alice", "a@x.com")

	rec := app.do(t, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, "/feed", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/login", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/feed", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodPost, "/register", url.Values{
		"name": {"Other"}, "username": {"ALICE"}, "email": {"o@x.com"}, "password": {"pw"},
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgDuplicateIdentity)

	rec = app.do(t, http.MethodPost, "/register", url.Values{"name": {"No Email"}}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgMissingFields)

	rec = app.do(t, http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"nope"}}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInvalidCredentials)

	rec = app.do(t, http.MethodPost, "/login", url.Values{"email": {"A@X.COM"}, "password": {"pw123456"}}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	loginCookie := sessionCookie(t, rec)

	rec = app.do(t, http.MethodPost, "/logout", nil, loginCookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/feed", nil, loginCookie)
	assert.Equal(t, "/login", rec.Header().Get("Location"), "revoked session must not authenticate")

	rec = app.do(t, http.MethodGet, "/feed", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code, "other sessions stay valid")

	longPassword := strings.Repeat("p", 80)
	rec = app.do(t, http.MethodPost, "/register", url.Values{
		"name": {"Long"}, "username": {"long"}, "email": {"long@x.com"}, "password": {longPassword},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/feed", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodPost, "/login", url.Values{"email": {"long@x.com"}, "password": {longPassword}}, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/feed", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/me/activity", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	activity := decode(t, rec)["activity"].([]interface{})
	assert.Len(t, activity, 4)
}

func TestPostsAndLikes(t *testing.T) {
	app := newTestApp(t, RouterOptions{})
	cookie := app.register(t, "Alice", "alice", "a@x.com")

	rec := app.do(t, http.MethodPost, "/post", url.Values{"content": {"hello"}}, cookie)
	assert.Equal(t, "/feed", rec.Header().Get("Location"))
	postID := app.latestPostID(t)

	rec = app.do(t, http.MethodPost, "/post", url.Values{"content": {"   "}}, cookie)
	assert.Equal(t, "/feed", rec.Header().Get("Location"))
	assert.Equal(t, postID, app.latestPostID(t), "empty post is dropped silently")

	rec = app.do(t, http.MethodGet, "/feed", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello")

	likePath := fmt.Sprintf("/like/%d", postID)

	rec = app.do(t, http.MethodPost, likePath, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"ok": true, "liked": true}, decode(t, rec))

	rec = app.do(t, http.MethodPost, likePath, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"ok": true, "liked": false}, decode(t, rec))

	rec = app.do(t, http.MethodPost, "/like/abc", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ok"])

	rec = app.do(t, http.MethodPost, "/like/9999", nil, cookie)
	assert.Equal(t, false, decode(t, rec)["ok"])
}

func TestPostDetailAndComments(t *testing.T) {
	app := newTestApp(t, RouterOptions{})
	cookie := app.register(t, "Alice", "alice", "a@x.com")

	app.do(t, http.MethodPost, "/post", url.Values{"content": {"hello"}}, cookie)
	postID := app.latestPostID(t)
	postPath := fmt.Sprintf("/post/%d", postID)

	rec := app.do(t, http.MethodPost, fmt.Sprintf("/comment/%d", postID), url.Values{"content": {"nice one"}}, cookie)
	assert.Equal(t, postPath, rec.Header().Get("Location"))

	rec = app.do(t, http.MethodPost, fmt.Sprintf("/comment/%d", postID), url.Values{"content": {" "}}, cookie)
	assert.Equal(t, postPath, rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, postPath, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nice one")

	var comments int
	require.NoError(t, app.db.QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&comments))
	assert.Equal(t, 1, comments)

	for _, path := range []string{"/post/9999", "/post/abc"} {
		rec = app.do(t, http.MethodGet, path, nil, cookie)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/feed", rec.Header().Get("Location"), path)
	}

	rec = app.do(t, http.MethodPost, "/comment/9999", url.Values{"content": {"lost"}}, cookie)
	assert.Equal(t, "/post/9999", rec.Header().Get("Location"))
}

func TestFollowAndProfile(t *testing.T) {
	app := newTestApp(t, RouterOptions{})
	alice := app.register(t, "Alice", "alice", "a@x.com")
	app.register(t, "Bob", "bob", "b@x.com")

	aliceID := app.userID(t, "alice")
	bobID := app.userID(t, "bob")

	rec := app.do(t, http.MethodPost, fmt.Sprintf("/follow/%d", aliceID), nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"ok": false}, decode(t, rec))

	rec = app.do(t, http.MethodPost, fmt.Sprintf("/follow/%d", bobID), nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"ok": true, "following": true}, decode(t, rec))

	rec = app.do(t, http.MethodGet, "/u/bob", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>1</strong> followers")
	assert.Contains(t, rec.Body.String(), "Following")

	rec = app.do(t, http.MethodPost, fmt.Sprintf("/follow/%d", bobID), nil, alice)
	assert.Equal(t, map[string]interface{}{"ok": true, "following": false}, decode(t, rec))

	rec = app.do(t, http.MethodGet, "/me", nil, alice)
	assert.Equal(t, "/u/alice", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/u/nobody", nil, alice)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/feed", rec.Header().Get("Location"))
}

func TestHealthAndStatic(t *testing.T) {
	app := newTestApp(t, RouterOptions{})

	rec := app.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])

	rec = app.do(t, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/static/js/main.js", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "toggleLike")

	rec = app.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFGuard(t *testing.T) {
	app := newTestApp(t, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})

	form := url.Values{"email": {"a@x.com"}, "password": {"pw"}}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInvalidCredentials)
}
