package service

import (
	"context"
	"time"

	"github.com/driftboard/driftboard/internal/domain"
	"github.com/driftboard/driftboard/internal/errors"
	"github.com/driftboard/driftboard/internal/logger"
	"github.com/driftboard/driftboard/internal/utils"
)

type PostService interface {
	Create(ctx context.Context, author *domain.User, data domain.PostCreationData) (domain.Post, error)
	Delete(ctx context.Context, caller *domain.User, id domain.PostId) error
	Comment(ctx context.Context, caller *domain.User, id domain.PostId, text string) error
	Like(ctx context.Context, caller *domain.User, id domain.PostId) error
	Dislike(ctx context.Context, caller *domain.User, id domain.PostId) error
	SweepExpired(ctx context.Context) (int64, error)

	All(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, id domain.PostId) (domain.Post, error)
	ByTopic(ctx context.Context, topic string) ([]domain.Post, error)
	ActiveByTopic(ctx context.Context, topic string) ([]domain.Post, error)
	ExpiredByTopic(ctx context.Context, topic string) ([]domain.Post, error)
	MostActive(ctx context.Context, topic string) (domain.Post, error)
}

type Post struct {
	storage   PostStorage
	validator PostValidator
	now       func() time.Time
}

type PostStorage interface {
	CreatePost(ctx context.Context, post domain.Post) (domain.PostId, error)
	GetPost(ctx context.Context, id domain.PostId) (domain.Post, error)
	DeletePost(ctx context.Context, id domain.PostId) error
	AppendComment(ctx context.Context, id domain.PostId, comment domain.Comment, interaction domain.Interaction) error
	AddReaction(ctx context.Context, id domain.PostId, counterField string, interaction domain.Interaction) error
	MarkExpired(ctx context.Context, now time.Time) (int64, error)

	AllPosts(ctx context.Context) ([]domain.Post, error)
	PostsByTopic(ctx context.Context, topic string) ([]domain.Post, error)
	ActivePostsByTopic(ctx context.Context, topic string, now time.Time) ([]domain.Post, error)
	ExpiredPostsByTopic(ctx context.Context, topic string, now time.Time) ([]domain.Post, error)
	MostActivePost(ctx context.Context, topic string, now time.Time) (domain.Post, error)
}

type PostValidator interface {
	Post(title, topic, message string, expirationMinutes int) error
	Comment(text string) error
}

func NewPost(storage PostStorage, validator PostValidator) *Post {
	return &Post{storage, validator, time.Now}
}

func (p *Post) Create(ctx context.Context, author *domain.User, data domain.PostCreationData) (domain.Post, error) {
	title := utils.Sanitize(data.Title)
	topic := utils.Sanitize(data.Topic)
	message := utils.Sanitize(data.Message)

	if err := p.validator.Post(title, topic, message, data.ExpirationMinutes); err != nil {
		return domain.Post{}, err
	}

	createdAt := p.now()
	post := domain.Post{
		PosterId:     author.Id,
		Username:     author.Username,
		Title:        title,
		Topic:        topic,
		Message:      message,
		CreatedAt:    createdAt,
		Comments:     []domain.Comment{},
		Interactions: []domain.Interaction{},
		Expiration:   createdAt.Add(time.Duration(data.ExpirationMinutes) * time.Minute),
		Status:       domain.StatusLive,
	}

	id, err := p.storage.CreatePost(ctx, post)
	if err != nil {
		return domain.Post{}, err
	}
	post.Id = id

	logger.Log.Info("post created", "post", id.Hex(), "topic", topic, "expiration", post.Expiration)
	return post, nil
}

func (p *Post) Delete(ctx context.Context, caller *domain.User, id domain.PostId) error {
	post, err := p.storage.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.PosterId != caller.Id {
		return errors.NewForbidden("Only the poster may delete a post")
	}
	return p.storage.DeletePost(ctx, id)
}

func (p *Post) Comment(ctx context.Context, caller *domain.User, id domain.PostId, text string) error {
	text = utils.Sanitize(text)
	if err := p.validator.Comment(text); err != nil {
		return err
	}

	post, err := p.storage.GetPost(ctx, id)
	if err != nil {
		return err
	}
	now := p.now()
	if post.IsExpired(now) {
		return errors.NewExpired("Post has expired")
	}

	comment := domain.Comment{Username: caller.Username, Comment: text}
	interaction := domain.Interaction{
		UserId:    caller.Id,
		Username:  caller.Username,
		Type:      domain.InteractionComment,
		CreatedAt: now,
	}
	return p.storage.AppendComment(ctx, id, comment, interaction)
}

func (p *Post) Like(ctx context.Context, caller *domain.User, id domain.PostId) error {
	return p.react(ctx, caller, id, "likes", domain.InteractionLike)
}

func (p *Post) Dislike(ctx context.Context, caller *domain.User, id domain.PostId) error {
	return p.react(ctx, caller, id, "dislikes", domain.InteractionDislike)
}

// react performs the shared like/dislike checks. The expiry check here and
// the counter update in storage are separate operations: two concurrent
// reactions can both pass the check just before expiry. The update itself
// is a single document write, so the counter and the audit log stay in sync.
func (p *Post) react(ctx context.Context, caller *domain.User, id domain.PostId, counterField string, itype domain.InteractionType) error {
	post, err := p.storage.GetPost(ctx, id)
	if err != nil {
		return err
	}
	now := p.now()
	if post.IsExpired(now) {
		return errors.NewExpired("Post has expired")
	}
	if post.PosterId == caller.Id {
		return errors.NewForbidden("Users cannot react to their own post")
	}

	interaction := domain.Interaction{
		UserId:    caller.Id,
		Username:  caller.Username,
		Type:      itype,
		CreatedAt: now,
	}
	return p.storage.AddReaction(ctx, id, counterField, interaction)
}

// SweepExpired is the only place Status is written after creation.
func (p *Post) SweepExpired(ctx context.Context) (int64, error) {
	updated, err := p.storage.MarkExpired(ctx, p.now())
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		logger.Log.Info("expired posts swept", "count", updated)
	}
	return updated, nil
}

func (p *Post) All(ctx context.Context) ([]domain.Post, error) {
	return p.storage.AllPosts(ctx)
}

func (p *Post) Get(ctx context.Context, id domain.PostId) (domain.Post, error) {
	return p.storage.GetPost(ctx, id)
}

func (p *Post) ByTopic(ctx context.Context, topic string) ([]domain.Post, error) {
	return p.storage.PostsByTopic(ctx, topic)
}

func (p *Post) ActiveByTopic(ctx context.Context, topic string) ([]domain.Post, error) {
	return p.storage.ActivePostsByTopic(ctx, topic, p.now())
}

func (p *Post) ExpiredByTopic(ctx context.Context, topic string) ([]domain.Post, error) {
	return p.storage.ExpiredPostsByTopic(ctx, topic, p.now())
}

func (p *Post) MostActive(ctx context.Context, topic string) (domain.Post, error) {
	return p.storage.MostActivePost(ctx, topic, p.now())
}
