package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/driftboard/driftboard/internal/domain"
	internal_errors "github.com/driftboard/driftboard/internal/errors"
	"github.com/driftboard/driftboard/internal/jwt"
)

type MockUserStorage struct {
	userByIdFunc func(id domain.UserId) (domain.User, error)
}

func (m *MockUserStorage) UserById(_ context.Context, id domain.UserId) (domain.User, error) {
	if m.userByIdFunc != nil {
		return m.userByIdFunc(id)
	}
	return domain.User{}, internal_errors.NewNotFound("User doesn't exist")
}

func setupGuard(t *testing.T, users *MockUserStorage) (*Auth, jwt.JwtService) {
	t.Helper()
	jwtService := jwt.New("test-key", time.Hour)
	return NewAuth(jwtService, users), jwtService
}

func protectedEcho(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r)
		require.NotNil(t, user)
		w.Write([]byte(user.Username))
	}
}

func TestNeedAuth(t *testing.T) {
	knownUser := domain.User{Id: primitive.NewObjectID(), Username: "alice", Email: "alice@example.com"}
	users := &MockUserStorage{
		userByIdFunc: func(id domain.UserId) (domain.User, error) {
			if id == knownUser.Id {
				return knownUser, nil
			}
			return domain.User{}, internal_errors.NewNotFound("User doesn't exist")
		},
	}

	t.Run("valid bearer token passes and resolves identity", func(t *testing.T) {
		guard, jwtService := setupGuard(t, users)
		token, err := jwtService.NewToken(knownUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		guard.NeedAuth()(protectedEcho(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "alice", rr.Body.String())
	})

	t.Run("valid cookie token passes", func(t *testing.T) {
		guard, jwtService := setupGuard(t, users)
		token, err := jwtService.NewToken(knownUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rr := httptest.NewRecorder()

		guard.NeedAuth()(protectedEcho(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		guard, _ := setupGuard(t, users)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		guard.NeedAuth()(protectedEcho(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		guard, _ := setupGuard(t, users)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rr := httptest.NewRecorder()

		guard.NeedAuth()(protectedEcho(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another key rejected", func(t *testing.T) {
		guard, _ := setupGuard(t, users)
		otherToken, err := jwt.New("other-key", time.Hour).NewToken(knownUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+otherToken)
		rr := httptest.NewRecorder()

		guard.NeedAuth()(protectedEcho(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token for deleted user rejected", func(t *testing.T) {
		guard, jwtService := setupGuard(t, users)
		ghost := domain.User{Id: primitive.NewObjectID(), Username: "ghost"}
		token, err := jwtService.NewToken(ghost)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		guard.NeedAuth()(protectedEcho(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		users := &MockUserStorage{
			userByIdFunc: func(id domain.UserId) (domain.User, error) { return knownUser, nil },
		}
		guard := NewAuth(jwt.New("test-key", -time.Minute), users)
		token, err := jwt.New("test-key", -time.Minute).NewToken(knownUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		guard.NeedAuth()(protectedEcho(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetUserFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUserFromContext(req))

	user := &domain.User{Id: primitive.NewObjectID(), Username: "alice"}
	ctx := context.WithValue(req.Context(), UserClaimsKey, user)
	assert.Equal(t, user, GetUserFromContext(req.WithContext(ctx)))
}
