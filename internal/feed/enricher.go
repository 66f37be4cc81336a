package feed

import (
	"context"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// enrich attaches userData to every summary in the page. Likes for the
// whole page resolve in a single query; bookmark membership comes from the
// viewer's own record. Output matches per-post evaluation exactly.
func (c *Composer) enrich(ctx context.Context, summaries []models.PostSummary, viewer *models.User) error {
	if len(summaries) == 0 {
		return nil
	}

	postIDs := make([]uuid.UUID, len(summaries))
	for i, s := range summaries {
		postIDs[i] = s.ID
	}

	liked, err := c.store.LikedSet(ctx, viewer.ID, postIDs)
	if err != nil {
		return err
	}

	bookmarked := make(map[string]bool, len(viewer.Bookmarks))
	for _, id := range viewer.Bookmarks {
		bookmarked[id] = true
	}

	for i := range summaries {
		summaries[i].UserData = &models.UserData{
			Bookmarked: bookmarked[summaries[i].ID.String()],
			Liked:      liked[summaries[i].ID],
		}
	}
	return nil
}

// enrichOne computes userData for a single post. Both checks hit the store
// so the answer reflects the current state, not the viewer snapshot loaded
// at the start of the request.
func (c *Composer) enrichOne(ctx context.Context, postID uuid.UUID, viewer *models.User) (*models.UserData, error) {
	liked, err := c.store.HasLiked(ctx, viewer.ID, postID)
	if err != nil {
		return nil, err
	}

	bookmarked, err := c.store.IsBookmarked(ctx, viewer.ID, postID.String())
	if err != nil {
		return nil, err
	}

	return &models.UserData{Bookmarked: bookmarked, Liked: liked}, nil
}
