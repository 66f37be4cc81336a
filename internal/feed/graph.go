package feed

import (
	"context"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// GraphStore is the read surface over the follower relation.
type GraphStore interface {
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int, error)
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.UserSummary, error)
}

// GraphView carries the follower numbers for a profile. IsFollowed is nil
// for anonymous viewers and the field disappears from the JSON — "unknown
// because anonymous" is distinct from "known false".
type GraphView struct {
	Followers  int   `json:"followers"`
	Following  int   `json:"following"`
	IsFollowed *bool `json:"isFollowed,omitempty"`
}

type GraphResolver struct {
	store GraphStore
}

func NewGraphResolver(store GraphStore) *GraphResolver {
	return &GraphResolver{store: store}
}

// Resolve computes the graph numbers for a profile view. The follow-state
// is only computed when a viewer is authenticated.
func (r *GraphResolver) Resolve(ctx context.Context, targetID uuid.UUID, viewer *models.User) (*GraphView, error) {
	followers, err := r.store.CountFollowers(ctx, targetID)
	if err != nil {
		return nil, err
	}
	following, err := r.store.CountFollowing(ctx, targetID)
	if err != nil {
		return nil, err
	}

	view := &GraphView{Followers: followers, Following: following}
	if viewer != nil {
		followed, err := r.store.IsFollowing(ctx, viewer.ID, targetID)
		if err != nil {
			return nil, err
		}
		view.IsFollowed = &followed
	}
	return view, nil
}

// Following lists summaries of the users this user follows.
func (r *GraphResolver) Following(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	ids, err := r.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.store.ListUsersByIDs(ctx, ids)
}

// Followers lists summaries of the users following this user.
func (r *GraphResolver) Followers(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	ids, err := r.store.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.store.ListUsersByIDs(ctx, ids)
}
