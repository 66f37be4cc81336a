package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Bookmarks holds post IDs in string form, the
// same form the enrichment query matches against.
type User struct {
	ID             uuid.UUID      `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	HashedPassword string         `json:"-"`
	SignUpDate     time.Time      `json:"signUpDate"`
	ProfilePicture ProfilePicture `json:"profilePicture"`
	Bookmarks      []string       `json:"bookmarks"`
	About          string         `json:"about"`
}

// ProfilePicture is an embedded image blob. Upload and resizing happen
// outside this service; we only store what we were given.
type ProfilePicture struct {
	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	ContentType string `json:"contentType,omitempty" bson:"contentType,omitempty"`
	Data        []byte `json:"data,omitempty" bson:"data,omitempty"`
}

// Session is one live sign-in. A user may hold several at once; each is
// revoked individually by deleting its token.
type Session struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at time now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
