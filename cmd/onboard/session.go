package main

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// maxLabelLength bounds the slug part of a session id.
const maxLabelLength = 40

// sessionID derives a journal session id from a free-form label: the slug of
// the label plus a short random suffix. The result is a valid NATS subject
// token.
func sessionID(label string) string {
	s := slug.Make(label)
	if len(s) > maxLabelLength {
		s = strings.TrimRight(s[:maxLabelLength], "-")
	}
	if s == "" {
		s = "session"
	}
	return s + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}
