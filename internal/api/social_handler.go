package api

import (
	"errors"
	"net/http"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
)

type likeResponse struct {
	OK    bool `json:"ok"`
	Liked bool `json:"liked"`
}

type followResponse struct {
	OK        bool  `json:"ok"`
	Following *bool `json:"following,omitempty"`
}

type SocialHandler struct {
	service domain.SocialService
	logger  logger.Logger
}

func NewSocialHandler(service domain.SocialService, logger logger.Logger) *SocialHandler {
	return &SocialHandler{
		service: service,
		logger:  logger,
	}
}

func (h *SocialHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	postID, ok := pathID(r, "postId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, likeResponse{})
		return
	}

	liked, err := h.service.ToggleLike(r.Context(), postID, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, likeResponse{})
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "like could not be toggled", map[string]interface{}{"post_id": postID, "user_id": sess.UserID, "error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, likeResponse{})
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{OK: true, Liked: liked})
}

func (h *SocialHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	targetID, ok := pathID(r, "userId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, followResponse{})
		return
	}

	following, err := h.service.ToggleFollow(r.Context(), sess.UserID, targetID)
	switch {
	case errors.Is(err, domain.ErrSelfFollow):
		writeJSON(w, http.StatusOK, followResponse{})
		return
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, followResponse{})
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "follow could not be toggled", map[string]interface{}{"follower_id": sess.UserID, "following_id": targetID, "error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, followResponse{})
		return
	}

	writeJSON(w, http.StatusOK, followResponse{OK: true, Following: &following})
}

func (h *SocialHandler) RegisterRoutes(rt *Router) {
	rt.HandleAuth("POST /like/{postId}", h.ToggleLike)
	rt.HandleAuth("POST /follow/{userId}", h.ToggleFollow)
}
