package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostId = primitive.ObjectID

type PostStatus string

const (
	StatusLive    PostStatus = "Live"
	StatusExpired PostStatus = "Expired"
)

type InteractionType string

const (
	InteractionComment InteractionType = "comment"
	InteractionLike    InteractionType = "like"
	InteractionDislike InteractionType = "dislike"
)

type Comment struct {
	Username string `bson:"username" json:"username"`
	Comment  string `bson:"comment" json:"comment"`
}

// Interaction is one entry of the append-only audit log. The username is
// captured at write time; renaming a user never rewrites history.
type Interaction struct {
	UserId    UserId          `bson:"userId" json:"userId"`
	Username  string          `bson:"username" json:"username"`
	Type      InteractionType `bson:"type" json:"type"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	Id           PostId        `bson:"_id,omitempty" json:"id"`
	PosterId     UserId        `bson:"posterId" json:"posterId"`
	Username     string        `bson:"username" json:"username"`
	Title        string        `bson:"title" json:"title"`
	Topic        string        `bson:"topic" json:"topic"`
	Message      string        `bson:"message" json:"message"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	Likes        int64         `bson:"likes" json:"likes"`
	Dislikes     int64         `bson:"dislikes" json:"dislikes"`
	Comments     []Comment     `bson:"comments" json:"comments"`
	Interactions []Interaction `bson:"interactions" json:"interactions"`
	Expiration   time.Time     `bson:"expiration" json:"expiration"`
	Status       PostStatus    `bson:"status" json:"status"`
}

// PostCreationData is what the service needs to mint a new post.
// Expiration is requested in whole minutes from creation time.
type PostCreationData struct {
	Title             string
	Topic             string
	Message           string
	ExpirationMinutes int
}

// IsExpired is the live expiry predicate. Status is a cached field only
// ever written by the sweep; never use it to decide whether a mutation
// is allowed.
func (p *Post) IsExpired(now time.Time) bool {
	return p.Expiration.Before(now)
}

// Activity is the ranking key for the most-active query.
func (p *Post) Activity() int64 {
	return p.Likes + p.Dislikes
}
