package models

import (
	"github.com/google/uuid"
)

// Topic names are lowercased before storage and unique by name.
type Topic struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Like is one (user, post) pair. The pair is unique; the posts collection
// keeps a denormalized count of these rows per post.
type Like struct {
	ID     uuid.UUID
	UserID uuid.UUID
	PostID uuid.UUID
}

// Follower is a directed edge: FollowerID follows FollowedID.
type Follower struct {
	ID         uuid.UUID
	FollowerID uuid.UUID
	FollowedID uuid.UUID
}

// UserSummary is the projection returned by follows/followers listings.
type UserSummary struct {
	ID             uuid.UUID      `json:"id"`
	Username       string         `json:"username"`
	ProfilePicture ProfilePicture `json:"profilePicture"`
}
