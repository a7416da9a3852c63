package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/driftboard/driftboard/internal/domain"
	"github.com/driftboard/driftboard/internal/errors"
	"github.com/driftboard/driftboard/internal/logger"
	"github.com/driftboard/driftboard/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, username string, creds domain.Credentials) (domain.UserId, error)
	Login(ctx context.Context, creds domain.Credentials) (string, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.UserId, error)
	UserByEmail(ctx context.Context, email domain.Email) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) AuthService {
	return &Auth{storage, jwt}
}

func (a *Auth) Register(ctx context.Context, username string, creds domain.Credentials) (domain.UserId, error) {
	email := strings.ToLower(creds.Email)
	username = utils.Sanitize(username)
	if username == "" {
		return domain.UserId{}, errors.NewValidation("Username is required")
	}

	if _, err := a.storage.UserByEmail(ctx, email); err == nil {
		return domain.UserId{}, errors.NewValidation("User already exists")
	} else if !errors.IsNotFound(err) {
		return domain.UserId{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.UserId{}, err
	}

	id, err := a.storage.SaveUser(ctx, domain.User{
		Username: username,
		Email:    email,
		PassHash: string(passHash),
	})
	if err != nil {
		return domain.UserId{}, err
	}

	logger.Log.Info("user registered", "email", email)
	return id, nil
}

// Login checks if user with given credentials exists and returns an access token.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	email := strings.ToLower(creds.Email)

	user, err := a.storage.UserByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.NewValidation("User does not exist")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", errors.NewValidation("Incorrect password")
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return "", err
	}
	return token, nil
}
