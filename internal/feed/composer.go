// Package feed builds the per-viewer post listings: filtered, paginated
// pages with viewer enrichment, and the follower-graph numbers shown on
// profiles. Everything here is a pure read; mutations go through the
// engine actors.
package feed

import (
	"context"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/google/uuid"
)

// Store is the read surface of the data store the composer needs.
type Store interface {
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListPosts(ctx context.Context, filter database.PostFilter, skip, limit int) ([]*models.Post, error)
	CountPosts(ctx context.Context, filter database.PostFilter) (int, error)
	ListPostsByIDs(ctx context.Context, ids []string) ([]*models.Post, error)
	LikedSet(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	IsBookmarked(ctx context.Context, userID uuid.UUID, postID string) (bool, error)
}

// Page is one listing window plus the page count for the whole match set.
type Page struct {
	Posts      []models.PostSummary `json:"posts"`
	TotalPages int                  `json:"totalPages"`
	Count      int                  `json:"count"`
}

// PostView is a full post with optional viewer enrichment attached.
type PostView struct {
	*models.Post
	UserData *models.UserData `json:"userData,omitempty"`
}

type Composer struct {
	store Store
}

func NewComposer(store Store) *Composer {
	return &Composer{store: store}
}

const DefaultLimit = 10

// ValidatePagination rejects degenerate windows instead of silently
// producing zero or negative skip/limit values.
func ValidatePagination(page, limit int) error {
	if page < 1 {
		return utils.NewValidationError("page must be at least 1")
	}
	if limit <= 0 {
		return utils.NewValidationError("limit must be positive")
	}
	return nil
}

// TotalPages is ceil(count/limit) for limit > 0.
func TotalPages(count, limit int) int {
	return (count + limit - 1) / limit
}

// ListPosts returns one page of non-removed posts matching the filter,
// newest first. The total count runs over the same predicate, independent
// of the window. When a viewer is present, only the returned page is
// enriched.
func (c *Composer) ListPosts(ctx context.Context, filter database.PostFilter, page, limit int, viewer *models.User) (*Page, error) {
	if err := ValidatePagination(page, limit); err != nil {
		return nil, err
	}

	count, err := c.store.CountPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	posts, err := c.store.ListPosts(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	summaries, err := c.summarize(ctx, posts, viewer)
	if err != nil {
		return nil, err
	}

	return &Page{
		Posts:      summaries,
		TotalPages: TotalPages(count, limit),
		Count:      count,
	}, nil
}

// GetPost fetches one post with its body. Removed and unknown posts are
// both NotFound; a removed post is never returned partially.
func (c *Composer) GetPost(ctx context.Context, id uuid.UUID, viewer *models.User) (*PostView, error) {
	post, err := c.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &PostView{Post: post}
	if viewer != nil {
		userData, err := c.enrichOne(ctx, post.ID, viewer)
		if err != nil {
			return nil, err
		}
		view.UserData = userData
	}
	return view, nil
}

// BookmarkFeed lists the viewer's bookmarked posts, newest first, removed
// posts excluded, each enriched for the viewer.
func (c *Composer) BookmarkFeed(ctx context.Context, viewer *models.User) ([]models.PostSummary, error) {
	posts, err := c.store.ListPostsByIDs(ctx, viewer.Bookmarks)
	if err != nil {
		return nil, err
	}
	return c.summarize(ctx, posts, viewer)
}

func (c *Composer) summarize(ctx context.Context, posts []*models.Post, viewer *models.User) ([]models.PostSummary, error) {
	summaries := make([]models.PostSummary, len(posts))
	for i, post := range posts {
		summaries[i] = post.Summary()
	}
	if viewer == nil {
		return summaries, nil
	}
	if err := c.enrich(ctx, summaries, viewer); err != nil {
		return nil, err
	}
	return summaries, nil
}
