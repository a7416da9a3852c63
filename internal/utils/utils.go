package utils

import (
	"unicode/utf8"

	"github.com/driftboard/driftboard/internal/errors"
)

const (
	maxTitleLen   = 200
	maxTopicLen   = 50
	maxMessageLen = 10_000
	maxCommentLen = 2_000

	// hard cap on requested lifetime, a week in minutes
	maxExpirationMinutes = 7 * 24 * 60
)

type PostValidator struct{}

func (v *PostValidator) Post(title, topic, message string, expirationMinutes int) error {
	if len(title) == 0 || len(topic) == 0 || len(message) == 0 {
		return errors.NewValidation("Title, topic and message are required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return errors.NewValidation("Title is too long")
	}
	if utf8.RuneCountInString(topic) > maxTopicLen {
		return errors.NewValidation("Topic is too long")
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return errors.NewValidation("Message is too long")
	}
	if expirationMinutes <= 0 {
		return errors.NewValidation("Expiration must be a positive number of minutes")
	}
	if expirationMinutes > maxExpirationMinutes {
		return errors.NewValidation("Expiration is too far in the future")
	}
	return nil
}

func (v *PostValidator) Comment(text string) error {
	if len(text) == 0 {
		return errors.NewValidation("Comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return errors.NewValidation("Comment is too long")
	}
	return nil
}
