package setup

import (
	"context"

	"github.com/driftboard/driftboard/internal/config"
	"github.com/driftboard/driftboard/internal/handler"
	"github.com/driftboard/driftboard/internal/jwt"
	"github.com/driftboard/driftboard/internal/middleware"
	"github.com/driftboard/driftboard/internal/service"
	"github.com/driftboard/driftboard/internal/storage/mongo"
	"github.com/driftboard/driftboard/internal/utils"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *mongo.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Jwt            jwt.JwtService
}

func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := mongo.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, jwtService)
	post := service.NewPost(storage, &utils.PostValidator{})

	h := handler.New(auth, post, storage, cfg)
	authMw := middleware.NewAuth(jwtService, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Jwt:            jwtService,
	}, nil
}
