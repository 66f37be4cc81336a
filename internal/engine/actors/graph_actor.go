package actors

import (
	stdctx "context"
	"time"

	"inkwell/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for follower-graph operations
type (
	FollowMsg struct {
		FollowerID uuid.UUID
		FollowedID uuid.UUID
	}

	UnfollowMsg struct {
		FollowerID uuid.UUID
		FollowedID uuid.UUID
	}
)

// GraphActor serializes follow-edge mutations.
type GraphActor struct {
	store   Store
	metrics *utils.MetricsCollector
}

func NewGraphActor(store Store, metrics *utils.MetricsCollector) actor.Actor {
	return &GraphActor{store: store, metrics: metrics}
}

func (a *GraphActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *FollowMsg:
		startTime := time.Now()

		if msg.FollowerID == msg.FollowedID {
			context.Respond(utils.NewValidationError("cannot follow yourself"))
			return
		}
		if err := a.store.InsertFollower(stdctx.Background(), msg.FollowerID, msg.FollowedID); err != nil {
			context.Respond(asReplyError(err))
			return
		}

		a.metrics.AddOperationLatency("follow", time.Since(startTime))
		context.Respond(true)

	case *UnfollowMsg:
		if err := a.store.DeleteFollower(stdctx.Background(), msg.FollowerID, msg.FollowedID); err != nil {
			context.Respond(asReplyError(err))
			return
		}
		context.Respond(true)
	}
}
