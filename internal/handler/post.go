package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/driftboard/driftboard/internal/domain"
	mw "github.com/driftboard/driftboard/internal/middleware"
	"github.com/driftboard/driftboard/internal/utils"
)

type createPostRequest struct {
	Title      string `validate:"required" json:"title"`
	Topic      string `validate:"required" json:"topic"`
	Message    string `validate:"required" json:"message"`
	Expiration int    `validate:"required,gt=0" json:"expiration"` // minutes
}

type commentRequest struct {
	Comment string `validate:"required" json:"comment"`
}

func postIdParam(r *http.Request) (domain.PostId, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		return domain.PostId{}, err
	}
	return id, nil
}

// caller returns the identity the auth middleware attached to the request.
func caller(w http.ResponseWriter, r *http.Request) *domain.User {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
	}
	return user
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := caller(w, r)
	if user == nil {
		return
	}

	var body createPostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Create(r.Context(), user, domain.PostCreationData{
		Title:             body.Title,
		Topic:             body.Topic,
		Message:           body.Message,
		ExpirationMinutes: body.Expiration,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := caller(w, r)
	if user == nil {
		return
	}
	id, err := postIdParam(r)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.post.Delete(r.Context(), user, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CommentPost(w http.ResponseWriter, r *http.Request) {
	user := caller(w, r)
	if user == nil {
		return
	}
	id, err := postIdParam(r)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var body commentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.post.Comment(r.Context(), user, id, body.Comment); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.reactToPost(w, r, h.post.Like)
}

func (h *Handler) DislikePost(w http.ResponseWriter, r *http.Request) {
	h.reactToPost(w, r, h.post.Dislike)
}

func (h *Handler) reactToPost(w http.ResponseWriter, r *http.Request, react func(ctx context.Context, caller *domain.User, id domain.PostId) error) {
	user := caller(w, r)
	if user == nil {
		return
	}
	id, err := postIdParam(r)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	if err := react(r.Context(), user, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SweepExpired(w http.ResponseWriter, r *http.Request) {
	updated, err := h.post.SweepExpired(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]int64{"updated": updated})
}

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.post.All(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := postIdParam(r)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.post.Get(r.Context(), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, post)
}

func (h *Handler) GetPostsByTopic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.post.ByTopic(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, posts)
}

func (h *Handler) GetActivePostsByTopic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.post.ActiveByTopic(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, posts)
}

func (h *Handler) GetExpiredPostsByTopic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.post.ExpiredByTopic(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, posts)
}

func (h *Handler) GetMostActivePost(w http.ResponseWriter, r *http.Request) {
	post, err := h.post.MostActive(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, post)
}
