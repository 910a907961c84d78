package api

import (
	"errors"
	"fmt"
	"net/http"

	"socialnet/internal/domain"
	"socialnet/internal/web"
	"socialnet/pkg/logger"
)

type ContentHandler struct {
	service  domain.ContentService
	renderer *web.Renderer
	logger   logger.Logger
}

func NewContentHandler(service domain.ContentService, renderer *web.Renderer, logger logger.Logger) *ContentHandler {
	return &ContentHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *ContentHandler) Feed(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	posts, err := h.service.ListFeed(r.Context(), sess.UserID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "feed could not be loaded", map[string]interface{}{"error": err.Error()})
		serverError(w)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, web.PageFeed, web.Page{Session: sess, Feed: posts})
}

// CreatePost always lands back on the feed. Rejected input is dropped
// silently and store failures are only logged.
func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	if err := r.ParseForm(); err == nil {
		_, err = h.service.CreatePost(r.Context(), domain.CreatePostInput{
			AuthorID:  sess.UserID,
			Content:   r.PostFormValue("content"),
			MediaURL:  r.PostFormValue("media_url"),
			MediaType: r.PostFormValue("media_type"),
		})
		if err != nil && !errors.Is(err, domain.ErrValidation) {
			h.logger.ErrorContext(r.Context(), "post could not be created", map[string]interface{}{"user_id": sess.UserID, "error": err.Error()})
		}
	}

	http.Redirect(w, r, "/feed", http.StatusFound)
}

func (h *ContentHandler) PostDetail(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	postID, ok := pathID(r, "id")
	if !ok {
		http.Redirect(w, r, "/feed", http.StatusFound)
		return
	}

	detail, err := h.service.GetPostDetail(r.Context(), sess.UserID, postID)
	if errors.Is(err, domain.ErrNotFound) {
		http.Redirect(w, r, "/feed", http.StatusFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "post detail could not be loaded", map[string]interface{}{"post_id": postID, "error": err.Error()})
		serverError(w)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, web.PagePost, web.Page{Session: sess, Detail: detail})
}

// AddComment redirects back to the post whatever the outcome.
func (h *ContentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	sess := viewer(r)

	postID, ok := pathID(r, "postId")
	if !ok {
		http.Redirect(w, r, "/feed", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err == nil {
		_, err = h.service.AddComment(r.Context(), postID, sess.UserID, r.PostFormValue("content"))
		if err != nil && !errors.Is(err, domain.ErrValidation) {
			h.logger.ErrorContext(r.Context(), "comment could not be added", map[string]interface{}{"post_id": postID, "user_id": sess.UserID, "error": err.Error()})
		}
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", postID), http.StatusFound)
}

func (h *ContentHandler) RegisterRoutes(rt *Router) {
	rt.HandleAuth("GET /feed", h.Feed)
	rt.HandleAuth("POST /post", h.CreatePost)
	rt.HandleAuth("GET /post/{id}", h.PostDetail)
	rt.HandleAuth("POST /comment/{postId}", h.AddComment)
}
