package mongo

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/driftboard/driftboard/internal/domain"
	internal_errors "github.com/driftboard/driftboard/internal/errors"
)

func (s *Storage) CreatePost(ctx context.Context, post domain.Post) (domain.PostId, error) {
	res, err := s.posts.InsertOne(ctx, post)
	if err != nil {
		return domain.PostId{}, err
	}

	id, ok := res.InsertedID.(domain.PostId)
	if !ok {
		return domain.PostId{}, &internal_errors.ErrorWithStatusCode{Message: "Unexpected inserted id type", StatusCode: http.StatusInternalServerError}
	}
	return id, nil
}

func (s *Storage) GetPost(ctx context.Context, id domain.PostId) (domain.Post, error) {
	var post domain.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return domain.Post{}, internal_errors.NewNotFound("Post doesn't exist")
	}
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (s *Storage) DeletePost(ctx context.Context, id domain.PostId) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return internal_errors.NewNotFound("Post doesn't exist")
	}
	return nil
}

// AppendComment pushes the comment and its audit-log entry in a single
// document update, so both land or neither does.
func (s *Storage) AppendComment(ctx context.Context, id domain.PostId, comment domain.Comment, interaction domain.Interaction) error {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"comments": comment, "interactions": interaction}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return internal_errors.NewNotFound("Post doesn't exist")
	}
	return nil
}

// AddReaction bumps the like or dislike counter together with the matching
// audit-log entry. counterField must be "likes" or "dislikes"; the single
// UpdateOne keeps the counter equal to the interaction count.
func (s *Storage) AddReaction(ctx context.Context, id domain.PostId, counterField string, interaction domain.Interaction) error {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{counterField: 1}, "$push": bson.M{"interactions": interaction}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return internal_errors.NewNotFound("Post doesn't exist")
	}
	return nil
}

// MarkExpired flips status on every live post whose expiration has passed.
// Idempotent: already-expired posts no longer match the filter.
func (s *Storage) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.posts.UpdateMany(ctx,
		bson.M{"status": domain.StatusLive, "expiration": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": domain.StatusExpired}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Storage) AllPosts(ctx context.Context) ([]domain.Post, error) {
	return s.findPosts(ctx, bson.M{})
}

func (s *Storage) PostsByTopic(ctx context.Context, topic string) ([]domain.Post, error) {
	return s.findPosts(ctx, bson.M{"topic": topic})
}

func (s *Storage) ActivePostsByTopic(ctx context.Context, topic string, now time.Time) ([]domain.Post, error) {
	return s.findPosts(ctx, bson.M{"topic": topic, "expiration": bson.M{"$gte": now}})
}

func (s *Storage) ExpiredPostsByTopic(ctx context.Context, topic string, now time.Time) ([]domain.Post, error) {
	return s.findPosts(ctx, bson.M{"topic": topic, "expiration": bson.M{"$lte": now}})
}

// MostActivePost ranks not-yet-expired posts in a topic by likes+dislikes.
// Ties resolve to the lowest id, i.e. the oldest post.
func (s *Storage) MostActivePost(ctx context.Context, topic string, now time.Time) (domain.Post, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"topic": topic, "expiration": bson.M{"$gte": now}}}},
		bson.D{{Key: "$addFields", Value: bson.M{"activity": bson.M{"$add": bson.A{"$likes", "$dislikes"}}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "activity", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: 1}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Post{}, err
	}
	defer cursor.Close(ctx)

	var posts []domain.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return domain.Post{}, err
	}
	if len(posts) == 0 {
		return domain.Post{}, internal_errors.NewNotFound("No active posts in topic")
	}
	return posts[0], nil
}

func (s *Storage) findPosts(ctx context.Context, filter bson.M) ([]domain.Post, error) {
	cursor, err := s.posts.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []domain.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
