package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Strict policy: user-supplied text is stored and served as plain text,
// any markup is stripped before it reaches the database.
var sanitizePolicy = bluemonday.StrictPolicy()

func Sanitize(text string) string {
	return strings.TrimSpace(sanitizePolicy.Sanitize(text))
}
