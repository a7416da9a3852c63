package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/driftboard/driftboard/internal/middleware"
	rl "github.com/driftboard/driftboard/internal/middleware/ratelimiter"
	"github.com/driftboard/driftboard/internal/setup"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.Metrics)

	corsOrigin := deps.Config.Public.CorsOrigin
	if corsOrigin == "" {
		corsOrigin = "http://localhost:8081"
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Auth routes, rate limited by IP
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(rl.New(1.0/2, 3, 1*time.Hour), mw.GetIP))
			r.Use(mw.GlobalRateLimit(rl.Rps100()))
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
		})
		r.Post("/auth/logout", h.Logout)

		// Every post operation sits behind the access guard
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIDFromContext))

			r.Post("/posts", h.CreatePost)
			r.Patch("/posts", h.SweepExpired)
			r.Get("/posts", h.GetPosts)

			r.Delete("/posts/{postId}", h.DeletePost)
			r.Get("/posts/{postId}", h.GetPost)
			r.Patch("/posts/{postId}/comment", h.CommentPost)
			r.Patch("/posts/{postId}/like", h.LikePost)
			r.Patch("/posts/{postId}/dislike", h.DislikePost)

			r.Get("/posts/topic/{topic}", h.GetPostsByTopic)
			r.Get("/posts/active/{topic}", h.GetActivePostsByTopic)
			r.Get("/posts/expired/{topic}", h.GetExpiredPostsByTopic)
			r.Get("/posts/most-active/{topic}", h.GetMostActivePost)
		})
	})

	// Avoid 404s for CORS preflight requests
	r.MethodFunc("OPTIONS", "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
