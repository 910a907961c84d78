package api

import (
	"errors"
	"net/http"
	"net/url"

	"socialnet/internal/domain"
	"socialnet/internal/web"
	"socialnet/pkg/logger"
)

type ProfileHandler struct {
	service  domain.ProfileService
	audit    domain.AuditLogService
	renderer *web.Renderer
	logger   logger.Logger
}

func NewProfileHandler(service domain.ProfileService, audit domain.AuditLogService, renderer *web.Renderer, logger logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		audit:    audit,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/u/"+url.PathEscape(viewer(r).Username), http.StatusFound)
}

func (h *ProfileHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	profile, err := h.service.GetUserProfile(r.Context(), sess.UserID, r.PathValue("username"))
	if errors.Is(err, domain.ErrNotFound) {
		http.Redirect(w, r, "/feed", http.StatusFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "profile could not be loaded", map[string]interface{}{"username": r.PathValue("username"), "error": err.Error()})
		serverError(w)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, web.PageUser, web.Page{Session: sess, Profile: profile})
}

// Activity lists the viewer's own authentication history.
func (h *ProfileHandler) Activity(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	logs, err := h.audit.GetEntityLogs(r.Context(), domain.EntityTypeUser, sess.UserID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "activity could not be loaded", map[string]interface{}{"user_id": sess.UserID, "error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"ok": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "activity": logs})
}

func (h *ProfileHandler) RegisterRoutes(rt *Router) {
	rt.HandleAuth("GET /me", h.Me)
	rt.HandleAuth("GET /me/activity", h.Activity)
	rt.HandleAuth("GET /u/{username}", h.UserProfile)
}
