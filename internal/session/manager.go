package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"socialnet/internal/domain"
)

var ErrInvalidToken = errors.New("invalid session token")

type Options struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// Manager issues signed session tokens and resolves them back to stored
// sessions. The token only carries the session id and user id; the store is
// the source of truth, so deleting a session revokes its token.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	cookie string
	secure bool
	now    func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	cookie := opts.CookieName
	if cookie == "" {
		cookie = "socialnet_session"
	}

	return &Manager{
		store:  store,
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		cookie: cookie,
		secure: opts.CookieSecure,
		now:    time.Now,
	}
}

func (m *Manager) Store() Store {
	return m.store
}

func (m *Manager) Issue(ctx context.Context, user *domain.User) (string, *domain.Session, error) {
	now := m.now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return "", nil, err
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   strconv.FormatInt(sess.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("session token could not be signed: %w", err)
	}

	return token, sess, nil
}

func (m *Manager) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Resolve verifies the token signature and expiry, then loads the session it
// names from the store.
func (m *Manager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := m.parse(token, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	sess, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}

	if strconv.FormatInt(sess.UserID, 10) != claims.Subject {
		return nil, ErrInvalidToken
	}

	return sess, nil
}

// Revoke deletes the session behind a token. Expired tokens are still
// accepted here as long as the signature holds.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, claims.ID)
}

func (m *Manager) TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(m.cookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
