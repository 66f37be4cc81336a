package models

import (
	"time"

	"github.com/google/uuid"
)

// Post carries snapshots of its author and topic taken at creation time.
// The snapshots are not live-updated when the source records change.
type Post struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Markdown    string         `json:"markdown"`
	HTML        string         `json:"html,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastEdit    *time.Time     `json:"lastEdit,omitempty"`
	Likes       int            `json:"likes"`
	Author      AuthorSnapshot `json:"author"`
	Topic       TopicSnapshot  `json:"topic"`
	Removed     bool           `json:"-"`
}

type AuthorSnapshot struct {
	ID       uuid.UUID `json:"id" bson:"id"`
	Username string    `json:"username" bson:"username"`
}

type TopicSnapshot struct {
	ID   uuid.UUID `json:"id" bson:"id"`
	Name string    `json:"name" bson:"name"`
}

// PostSummary is the listing projection: everything but the body.
type PostSummary struct {
	ID          uuid.UUID      `json:"id"`
	Author      AuthorSnapshot `json:"author"`
	Topic       TopicSnapshot  `json:"topic"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastEdit    *time.Time     `json:"lastEdit,omitempty"`
	Likes       int            `json:"likes"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	UserData    *UserData      `json:"userData,omitempty"`
}

// UserData is the per-viewer enrichment attached to posts for
// authenticated viewers only.
type UserData struct {
	Bookmarked bool `json:"bookmarked"`
	Liked      bool `json:"liked"`
}

// Summary projects a post into its listing form.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:          p.ID,
		Author:      p.Author,
		Topic:       p.Topic,
		CreatedAt:   p.CreatedAt,
		LastEdit:    p.LastEdit,
		Likes:       p.Likes,
		Title:       p.Title,
		Description: p.Description,
	}
}
