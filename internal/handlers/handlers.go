package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/engine"
	"inkwell/internal/feed"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Store is the direct read surface the handlers use outside the composer.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	SearchTopics(ctx context.Context, prefix string) ([]models.Topic, error)
}

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Gate           *auth.Gate
	Composer       *feed.Composer
	Graph          *feed.GraphResolver
	Store          Store
	Metrics        *utils.MetricsCollector
	CookieDomain   string
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	eng *engine.Engine,
	gate *auth.Gate,
	composer *feed.Composer,
	graph *feed.GraphResolver,
	store Store,
	metrics *utils.MetricsCollector,
	cookieDomain string,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         eng,
		Gate:           gate,
		Composer:       composer,
		Graph:          graph,
		Store:          store,
		Metrics:        metrics,
		CookieDomain:   cookieDomain,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// HandleHealth reports liveness plus the in-process counters.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, errors, uptime := s.Metrics.Snapshot()
		s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"requests": requests,
			"errors":   errors,
			"uptime":   uptime.String(),
		})
	}
}

// ask sends a message to an actor and waits for the reply. An *AppError
// reply is a domain failure; a future error means the actor never answered
// in time.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, *utils.AppError) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewAppError(utils.ErrActorTimeout, "operation timed out", err)
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

func (s *Server) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	s.Metrics.IncrementRequests()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondWithError writes an AppError as JSON. Database and timeout
// failures log the origin but never leak it to the client.
func (s *Server) respondWithError(w http.ResponseWriter, err error) {
	s.Metrics.IncrementErrors()

	appErr, ok := utils.AsAppError(err)
	if !ok {
		appErr = utils.NewDatabaseError(err)
	}
	if appErr.Origin != nil {
		slog.Error("request failed", "code", appErr.Code, "error", appErr.Origin)
	}

	status := utils.AppErrorToHTTPStatus(appErr.Code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

func (s *Server) viewer(r *http.Request) *models.User {
	return middleware.ViewerFromContext(r.Context())
}

// requireViewer returns the authenticated user or writes a 401 and returns
// nil. Handlers must stop when it returns nil.
func (s *Server) requireViewer(w http.ResponseWriter, r *http.Request) *models.User {
	viewer := s.viewer(r)
	if viewer == nil {
		s.respondWithError(w, utils.NewAppError(utils.ErrUnauthenticated, "authentication required", nil))
		return nil
	}
	return viewer
}

func decodeBody(r *http.Request, dst interface{}) *utils.AppError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return utils.NewValidationError("invalid request body")
	}
	return nil
}
