package handlers

import (
	"context"
	"net/http"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/engine/actors"
	"inkwell/internal/feed"
	"inkwell/internal/models"

	"github.com/google/uuid"
)

// UpdateProfileRequest represents a change to the viewer's own profile
type UpdateProfileRequest struct {
	About string `json:"about"`
}

// ProfileResponse is a public profile page: the user's public fields, the
// follower-graph numbers, and one page of their posts.
type ProfileResponse struct {
	User  PublicProfile   `json:"user"`
	Graph *feed.GraphView `json:"graph"`
	Posts *feed.Page      `json:"posts"`
}

// PublicProfile is the subset of an account other users may see.
type PublicProfile struct {
	ID             string                `json:"id"`
	Username       string                `json:"username"`
	SignUpDate     time.Time             `json:"signUpDate"`
	About          string                `json:"about,omitempty"`
	ProfilePicture models.ProfilePicture `json:"profilePicture,omitempty"`
}

func publicProfile(user *models.User) PublicProfile {
	return PublicProfile{
		ID:             user.ID.String(),
		Username:       user.Username,
		SignUpDate:     user.SignUpDate,
		About:          user.About,
		ProfilePicture: user.ProfilePicture,
	}
}

// HandleGetProfile assembles a profile view: public user fields, follower
// numbers with viewer follow-state, and a filtered page of the user's
// posts enriched for the viewer.
func (s *Server) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, appErr := pathUUID(r, "id")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		page, limit, appErr := paginationParams(r)
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		user, err := s.Store.GetUser(r.Context(), userID)
		if err != nil {
			s.respondWithError(w, err)
			return
		}

		viewer := s.viewer(r)
		graph, err := s.Graph.Resolve(r.Context(), userID, viewer)
		if err != nil {
			s.respondWithError(w, err)
			return
		}

		filter := database.PostFilter{AuthorID: &userID}
		posts, err := s.Composer.ListPosts(r.Context(), filter, page, limit, viewer)
		if err != nil {
			s.respondWithError(w, err)
			return
		}

		s.respondWithJSON(w, http.StatusOK, ProfileResponse{
			User:  publicProfile(user),
			Graph: graph,
			Posts: posts,
		})
	}
}

// HandleUpdateProfile edits the viewer's own about text.
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		var req UpdateProfileRequest
		if appErr := decodeBody(r, &req); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		if _, appErr := s.ask(s.Engine.GetAccountActor(), &actors.UpdateAboutMsg{
			UserID: viewer.ID,
			About:  req.About,
		}); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}
		s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// HandleBookmarkFeed lists the viewer's bookmarked posts, newest first.
func (s *Server) HandleBookmarkFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		posts, err := s.Composer.BookmarkFeed(r.Context(), viewer)
		if err != nil {
			s.respondWithError(w, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
	}
}

// HandleBookmark and HandleUnbookmark toggle a post in the viewer's
// bookmark list. Double-add is 406, removing an absent bookmark 404.
func (s *Server) HandleBookmark() http.HandlerFunc {
	return s.handleBookmarkToggle(true)
}

func (s *Server) HandleUnbookmark() http.HandlerFunc {
	return s.handleBookmarkToggle(false)
}

func (s *Server) handleBookmarkToggle(adding bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		postID, appErr := pathUUID(r, "postId")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		var msg interface{}
		status := http.StatusOK
		if adding {
			msg = &actors.BookmarkMsg{UserID: viewer.ID, PostID: postID.String()}
			status = http.StatusCreated
		} else {
			msg = &actors.UnbookmarkMsg{UserID: viewer.ID, PostID: postID.String()}
		}

		if _, appErr := s.ask(s.Engine.GetAccountActor(), msg); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}
		s.respondWithJSON(w, status, map[string]bool{"bookmarked": adding})
	}
}

// HandleFollow and HandleUnfollow toggle a follow edge from the viewer to
// the target user.
func (s *Server) HandleFollow() http.HandlerFunc {
	return s.handleFollowToggle(true)
}

func (s *Server) HandleUnfollow() http.HandlerFunc {
	return s.handleFollowToggle(false)
}

func (s *Server) handleFollowToggle(following bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		targetID, appErr := pathUUID(r, "userId")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		// The target must be a real account before an edge is written.
		if _, err := s.Store.GetUser(r.Context(), targetID); err != nil {
			s.respondWithError(w, err)
			return
		}

		var msg interface{}
		status := http.StatusOK
		if following {
			msg = &actors.FollowMsg{FollowerID: viewer.ID, FollowedID: targetID}
			status = http.StatusCreated
		} else {
			msg = &actors.UnfollowMsg{FollowerID: viewer.ID, FollowedID: targetID}
		}

		if _, appErr := s.ask(s.Engine.GetGraphActor(), msg); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}
		s.respondWithJSON(w, status, map[string]bool{"following": following})
	}
}

// HandleListFollowing and HandleListFollowers return user summaries for one
// side of a user's follow edges.
func (s *Server) HandleListFollowing() http.HandlerFunc {
	return s.handleEdgeListing(s.Graph.Following)
}

func (s *Server) HandleListFollowers() http.HandlerFunc {
	return s.handleEdgeListing(s.Graph.Followers)
}

func (s *Server) handleEdgeListing(list func(context.Context, uuid.UUID) ([]models.UserSummary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, appErr := pathUUID(r, "id")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		if _, err := s.Store.GetUser(r.Context(), userID); err != nil {
			s.respondWithError(w, err)
			return
		}

		users, err := list(r.Context(), userID)
		if err != nil {
			s.respondWithError(w, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
	}
}
