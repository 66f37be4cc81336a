package actors

import (
	stdctx "context"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for post operations
type (
	CreatePostMsg struct {
		Title          string
		Description    string
		Markdown       string
		TopicName      string
		AuthorID       uuid.UUID
		AuthorUsername string
	}

	EditPostMsg struct {
		PostID      uuid.UUID
		AuthorID    uuid.UUID
		Title       string
		Description string
		Markdown    string
	}

	RemovePostMsg struct {
		PostID   uuid.UUID
		AuthorID uuid.UUID
	}

	LikePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	UnlikePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}
)

// PostActor serializes post mutations and the like toggle, so two requests
// for the same pair cannot both observe "no existing like" in-process. The
// unique index on (userId, postId) backs this up across instances.
type PostActor struct {
	store   Store
	metrics *utils.MetricsCollector
}

func NewPostActor(store Store, metrics *utils.MetricsCollector) actor.Actor {
	return &PostActor{store: store, metrics: metrics}
}

func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Debug("post actor started")
	case *CreatePostMsg:
		a.handleCreatePost(context, msg)
	case *EditPostMsg:
		a.handleEditPost(context, msg)
	case *RemovePostMsg:
		if err := a.store.RemovePost(stdctx.Background(), msg.PostID, msg.AuthorID); err != nil {
			context.Respond(asReplyError(err))
			return
		}
		context.Respond(true)
	case *LikePostMsg:
		a.handleLike(context, msg.PostID, msg.UserID, true)
	case *UnlikePostMsg:
		a.handleLike(context, msg.PostID, msg.UserID, false)
	}
}

func validatePostFields(title, description, markdown string) *utils.AppError {
	switch {
	case title == "":
		return utils.NewValidationError("title is required")
	case description == "":
		return utils.NewValidationError("description is required")
	case markdown == "":
		return utils.NewValidationError("markdown is required")
	}
	return nil
}

func (a *PostActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()

	if err := validatePostFields(msg.Title, msg.Description, msg.Markdown); err != nil {
		context.Respond(err)
		return
	}
	if msg.TopicName == "" {
		context.Respond(utils.NewValidationError("topicName is required"))
		return
	}

	ctx := stdctx.Background()

	// Topic resolution must commit before the post can embed its snapshot.
	topic, err := a.store.GetOrCreateTopic(ctx, strings.ToLower(msg.TopicName))
	if err != nil {
		context.Respond(asReplyError(err))
		return
	}

	post := &models.Post{
		ID:          uuid.New(),
		Title:       msg.Title,
		Description: msg.Description,
		Markdown:    msg.Markdown,
		CreatedAt:   time.Now().UTC(),
		Author:      models.AuthorSnapshot{ID: msg.AuthorID, Username: msg.AuthorUsername},
		Topic:       models.TopicSnapshot{ID: topic.ID, Name: topic.Name},
	}

	if err := a.store.CreatePost(ctx, post); err != nil {
		context.Respond(asReplyError(err))
		return
	}

	slog.Info("post created", "post", post.ID, "topic", topic.Name)
	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleEditPost(context actor.Context, msg *EditPostMsg) {
	if err := validatePostFields(msg.Title, msg.Description, msg.Markdown); err != nil {
		context.Respond(err)
		return
	}

	if err := a.store.UpdatePost(stdctx.Background(), msg.PostID, msg.AuthorID, msg.Title, msg.Description, msg.Markdown); err != nil {
		context.Respond(asReplyError(err))
		return
	}
	context.Respond(true)
}

func (a *PostActor) handleLike(context actor.Context, postID, userID uuid.UUID, liking bool) {
	startTime := time.Now()
	ctx := stdctx.Background()

	// The post must exist and not be removed before the pair is touched.
	if _, err := a.store.GetPost(ctx, postID); err != nil {
		context.Respond(asReplyError(err))
		return
	}

	var err error
	if liking {
		err = a.store.InsertLike(ctx, userID, postID)
	} else {
		err = a.store.DeleteLike(ctx, userID, postID)
	}
	if err != nil {
		context.Respond(asReplyError(err))
		return
	}

	a.metrics.AddOperationLatency("like_toggle", time.Since(startTime))
	context.Respond(true)
}
