package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/driftboard/driftboard/internal/config"
	"github.com/driftboard/driftboard/internal/domain"
	internal_errors "github.com/driftboard/driftboard/internal/errors"
	mw "github.com/driftboard/driftboard/internal/middleware"
)

// --- Mocks ---

type MockAuthService struct {
	registerFunc func(username string, creds domain.Credentials) (domain.UserId, error)
	loginFunc    func(creds domain.Credentials) (string, error)
}

func (m *MockAuthService) Register(_ context.Context, username string, creds domain.Credentials) (domain.UserId, error) {
	if m.registerFunc != nil {
		return m.registerFunc(username, creds)
	}
	return primitive.NewObjectID(), nil
}

func (m *MockAuthService) Login(_ context.Context, creds domain.Credentials) (string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(creds)
	}
	return "token", nil
}

type MockPostService struct {
	createFunc     func(author *domain.User, data domain.PostCreationData) (domain.Post, error)
	deleteFunc     func(caller *domain.User, id domain.PostId) error
	commentFunc    func(caller *domain.User, id domain.PostId, text string) error
	likeFunc       func(caller *domain.User, id domain.PostId) error
	dislikeFunc    func(caller *domain.User, id domain.PostId) error
	sweepFunc      func() (int64, error)
	allFunc        func() ([]domain.Post, error)
	getFunc        func(id domain.PostId) (domain.Post, error)
	byTopicFunc    func(topic string) ([]domain.Post, error)
	activeFunc     func(topic string) ([]domain.Post, error)
	expiredFunc    func(topic string) ([]domain.Post, error)
	mostActiveFunc func(topic string) (domain.Post, error)
}

func (m *MockPostService) Create(_ context.Context, author *domain.User, data domain.PostCreationData) (domain.Post, error) {
	if m.createFunc != nil {
		return m.createFunc(author, data)
	}
	return domain.Post{Id: primitive.NewObjectID()}, nil
}

func (m *MockPostService) Delete(_ context.Context, caller *domain.User, id domain.PostId) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(caller, id)
	}
	return nil
}

func (m *MockPostService) Comment(_ context.Context, caller *domain.User, id domain.PostId, text string) error {
	if m.commentFunc != nil {
		return m.commentFunc(caller, id, text)
	}
	return nil
}

func (m *MockPostService) Like(_ context.Context, caller *domain.User, id domain.PostId) error {
	if m.likeFunc != nil {
		return m.likeFunc(caller, id)
	}
	return nil
}

func (m *MockPostService) Dislike(_ context.Context, caller *domain.User, id domain.PostId) error {
	if m.dislikeFunc != nil {
		return m.dislikeFunc(caller, id)
	}
	return nil
}

func (m *MockPostService) SweepExpired(_ context.Context) (int64, error) {
	if m.sweepFunc != nil {
		return m.sweepFunc()
	}
	return 0, nil
}

func (m *MockPostService) All(_ context.Context) ([]domain.Post, error) {
	if m.allFunc != nil {
		return m.allFunc()
	}
	return []domain.Post{}, nil
}

func (m *MockPostService) Get(_ context.Context, id domain.PostId) (domain.Post, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) ByTopic(_ context.Context, topic string) ([]domain.Post, error) {
	if m.byTopicFunc != nil {
		return m.byTopicFunc(topic)
	}
	return []domain.Post{}, nil
}

func (m *MockPostService) ActiveByTopic(_ context.Context, topic string) ([]domain.Post, error) {
	if m.activeFunc != nil {
		return m.activeFunc(topic)
	}
	return []domain.Post{}, nil
}

func (m *MockPostService) ExpiredByTopic(_ context.Context, topic string) ([]domain.Post, error) {
	if m.expiredFunc != nil {
		return m.expiredFunc(topic)
	}
	return []domain.Post{}, nil
}

func (m *MockPostService) MostActive(_ context.Context, topic string) (domain.Post, error) {
	if m.mostActiveFunc != nil {
		return m.mostActiveFunc(topic)
	}
	return domain.Post{}, internal_errors.NewNotFound("No active posts in topic")
}

// --- Router setup ---

func testHandlerUser() *domain.User {
	return &domain.User{Id: primitive.NewObjectID(), Username: "alice", Email: "alice@example.com"}
}

// setupTestRouter wires the handler into a chi router with the given user
// injected into the request context, the way the auth middleware would.
func setupTestRouter(auth *MockAuthService, post *MockPostService, user *domain.User) *chi.Mux {
	cfg := &config.Config{Public: config.Public{JwtTTL: config.Duration(time.Hour)}}
	h := New(auth, post, nil, cfg)

	router := chi.NewRouter()

	router.Post("/v1/auth/register", h.Register)
	router.Post("/v1/auth/login", h.Login)
	router.Post("/v1/auth/logout", h.Logout)

	router.Group(func(r chi.Router) {
		if user != nil {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					ctx := context.WithValue(req.Context(), mw.UserClaimsKey, user)
					next.ServeHTTP(w, req.WithContext(ctx))
				})
			})
		}
		r.Post("/v1/posts", h.CreatePost)
		r.Patch("/v1/posts", h.SweepExpired)
		r.Get("/v1/posts", h.GetPosts)
		r.Delete("/v1/posts/{postId}", h.DeletePost)
		r.Get("/v1/posts/{postId}", h.GetPost)
		r.Patch("/v1/posts/{postId}/comment", h.CommentPost)
		r.Patch("/v1/posts/{postId}/like", h.LikePost)
		r.Patch("/v1/posts/{postId}/dislike", h.DislikePost)
		r.Get("/v1/posts/topic/{topic}", h.GetPostsByTopic)
		r.Get("/v1/posts/active/{topic}", h.GetActivePostsByTopic)
		r.Get("/v1/posts/expired/{topic}", h.GetExpiredPostsByTopic)
		r.Get("/v1/posts/most-active/{topic}", h.GetMostActivePost)
	})

	return router
}

func createRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}
