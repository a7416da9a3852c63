package mongo

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/driftboard/driftboard/internal/domain"
	internal_errors "github.com/driftboard/driftboard/internal/errors"
)

// SaveUser inserts a new user record. The unique index on email turns a
// duplicate registration into a 400 here rather than a raw driver error.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.UserId{}, internal_errors.NewValidation("User already exists")
		}
		return domain.UserId{}, err
	}

	id, ok := res.InsertedID.(domain.UserId)
	if !ok {
		return domain.UserId{}, &internal_errors.ErrorWithStatusCode{Message: "Unexpected inserted id type", StatusCode: http.StatusInternalServerError}
	}
	return id, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	var user domain.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return domain.User{}, internal_errors.NewNotFound("User doesn't exist")
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Storage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	var user domain.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return domain.User{}, internal_errors.NewNotFound("User doesn't exist")
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
