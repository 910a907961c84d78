package session

import (
	"context"
	"net/http"

	"socialnet/internal/domain"
)

type contextKey struct{}

func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

func FromContext(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*domain.Session)
	return sess, ok && sess != nil
}

// Load attaches the session to the request context when the cookie resolves,
// and passes the request through untouched otherwise.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := m.TokenFromRequest(r); token != "" {
			if sess, err := m.Resolve(r.Context(), token); err == nil {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to the login page before the wrapped handler can run
// any query. It expects Load to have run first.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
