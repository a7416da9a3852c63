package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type (
	UserId   = primitive.ObjectID
	Email    = string
	Password = string
)

type User struct {
	Id       UserId `bson:"_id,omitempty" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    Email  `bson:"email" json:"email"`
	PassHash string `bson:"password" json:"-"`
}

// Credentials carry the raw password, only ever held in memory
// between request decoding and hashing/comparison.
type Credentials struct {
	Email    Email
	Password Password
}
