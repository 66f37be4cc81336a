package handlers

import (
	"net/http"
	"strconv"

	"inkwell/internal/database"
	"inkwell/internal/engine/actors"
	"inkwell/internal/feed"
	"inkwell/internal/utils"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to publish a new post
type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
	TopicName   string `json:"topicName"`
}

// EditPostRequest represents a request to edit an existing post
type EditPostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
}

// HandleListPosts returns one page of the feed, optionally filtered by
// topic, enriched for the viewer when one is signed in.
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, appErr := paginationParams(r)
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		// Exact match against the stored (lowercased) topic name; a
		// differently-cased query finds nothing.
		filter := database.PostFilter{
			TopicName: r.URL.Query().Get("topic"),
		}

		result, err := s.Composer.ListPosts(r.Context(), filter, page, limit, s.viewer(r))
		if err != nil {
			s.respondWithError(w, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, result)
	}
}

// HandleGetPost returns one full post with its body.
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, appErr := pathUUID(r, "id")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		view, err := s.Composer.GetPost(r.Context(), postID, s.viewer(r))
		if err != nil {
			s.respondWithError(w, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, view)
	}
}

// HandleCreatePost publishes a post under the viewer's identity. The topic
// is resolved or created inside the post actor.
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		var req CreatePostRequest
		if appErr := decodeBody(r, &req); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.CreatePostMsg{
			Title:          req.Title,
			Description:    req.Description,
			Markdown:       req.Markdown,
			TopicName:      req.TopicName,
			AuthorID:       viewer.ID,
			AuthorUsername: viewer.Username,
		})
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}
		s.respondWithJSON(w, http.StatusCreated, result)
	}
}

// HandleEditPost updates a post's content. Only the author matches the
// update filter, so editing someone else's post is a 404.
func (s *Server) HandleEditPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		postID, appErr := pathUUID(r, "id")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		var req EditPostRequest
		if appErr := decodeBody(r, &req); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		if _, appErr := s.ask(s.Engine.GetPostActor(), &actors.EditPostMsg{
			PostID:      postID,
			AuthorID:    viewer.ID,
			Title:       req.Title,
			Description: req.Description,
			Markdown:    req.Markdown,
		}); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}
		s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// HandleRemovePost soft-deletes a post owned by the viewer.
func (s *Server) HandleRemovePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		postID, appErr := pathUUID(r, "id")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		if _, appErr := s.ask(s.Engine.GetPostActor(), &actors.RemovePostMsg{
			PostID:   postID,
			AuthorID: viewer.ID,
		}); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}
		s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}

// HandleLikePost and HandleUnlikePost toggle the viewer's like. Liking an
// already-liked post is 406; unliking without a like is 404.
func (s *Server) HandleLikePost() http.HandlerFunc {
	return s.handleLikeToggle(true)
}

func (s *Server) HandleUnlikePost() http.HandlerFunc {
	return s.handleLikeToggle(false)
}

func (s *Server) handleLikeToggle(liking bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := s.requireViewer(w, r)
		if viewer == nil {
			return
		}

		postID, appErr := pathUUID(r, "id")
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		var msg interface{}
		status := http.StatusOK
		if liking {
			msg = &actors.LikePostMsg{PostID: postID, UserID: viewer.ID}
			status = http.StatusCreated
		} else {
			msg = &actors.UnlikePostMsg{PostID: postID, UserID: viewer.ID}
		}

		if _, appErr := s.ask(s.Engine.GetPostActor(), msg); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}
		s.respondWithJSON(w, status, map[string]bool{"liked": liking})
	}
}

// HandleSearchTopics returns topics whose name starts with the query,
// case-insensitive.
func (s *Server) HandleSearchTopics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics, err := s.Store.SearchTopics(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			s.respondWithError(w, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, topics)
	}
}

// paginationParams reads page and limit from the query. Absent values get
// defaults; present but degenerate values are rejected rather than patched.
func paginationParams(r *http.Request) (page, limit int, appErr *utils.AppError) {
	page, appErr = queryInt(r, "page", 1)
	if appErr != nil {
		return 0, 0, appErr
	}
	limit, appErr = queryInt(r, "limit", feed.DefaultLimit)
	if appErr != nil {
		return 0, 0, appErr
	}
	if err := feed.ValidatePagination(page, limit); err != nil {
		appErr, _ := utils.AsAppError(err)
		return 0, 0, appErr
	}
	return page, limit, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, *utils.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.NewValidationError(name + " must be an integer")
	}
	return value, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, *utils.AppError) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, utils.NewValidationError("invalid " + name)
	}
	return id, nil
}
