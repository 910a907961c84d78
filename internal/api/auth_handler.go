package api

import (
	"errors"
	"net/http"

	"socialnet/internal/domain"
	"socialnet/internal/session"
	"socialnet/internal/web"
	"socialnet/pkg/logger"
)

const (
	msgMissingFields      = "All fields required."
	msgDuplicateIdentity  = "Email/Username already used."
	msgInvalidCredentials = "Invalid credentials."
)

type AuthHandler struct {
	service  domain.AuthService
	sessions *session.Manager
	renderer *web.Renderer
	logger   logger.Logger
}

func NewAuthHandler(service domain.AuthService, sessions *session.Manager, renderer *web.Renderer, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if viewer(r) == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/feed", http.StatusFound)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if viewer(r) != nil {
		http.Redirect(w, r, "/feed", http.StatusFound)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, web.PageRegister, web.Page{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, web.PageRegister, web.Page{Error: msgMissingFields})
		return
	}

	user, err := h.service.Register(r.Context(), domain.RegisterInput{
		Name:     r.PostFormValue("name"),
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		h.renderer.Render(w, r, http.StatusOK, web.PageRegister, web.Page{Error: msgMissingFields})
		return
	case errors.Is(err, domain.ErrDuplicateIdentity):
		h.renderer.Render(w, r, http.StatusOK, web.PageRegister, web.Page{Error: msgDuplicateIdentity})
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "registration failed", map[string]interface{}{"error": err.Error()})
		serverError(w)
		return
	}

	h.startSession(w, r, user)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if viewer(r) != nil {
		http.Redirect(w, r, "/feed", http.StatusFound)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, web.PageLogin, web.Page{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, web.PageLogin, web.Page{Error: msgInvalidCredentials})
		return
	}

	user, err := h.service.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		h.renderer.Render(w, r, http.StatusOK, web.PageLogin, web.Page{Error: msgInvalidCredentials})
		return
	}

	h.startSession(w, r, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := viewer(r); sess != nil {
		h.service.Logout(r.Context(), sess.UserID)
	}

	if token := h.sessions.TokenFromRequest(r); token != "" {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			h.logger.WarnContext(r.Context(), "session could not be revoked", map[string]interface{}{"error": err.Error()})
		}
	}

	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *domain.User) {
	token, _, err := h.sessions.Issue(r.Context(), user)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "session could not be issued", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
		serverError(w)
		return
	}

	h.sessions.SetCookie(w, token)
	http.Redirect(w, r, "/feed", http.StatusFound)
}

func (h *AuthHandler) RegisterRoutes(rt *Router) {
	rt.Handle("GET /{$}", h.Home)
	rt.Handle("GET /register", h.RegisterForm)
	rt.Handle("POST /register", h.Register)
	rt.Handle("GET /login", h.LoginForm)
	rt.Handle("POST /login", h.Login)
	rt.Handle("POST /logout", h.Logout)
}
