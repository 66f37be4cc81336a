package engine

import (
	"inkwell/internal/engine/actors"
	"inkwell/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine owns the mutation actors. One actor per aggregate keeps every
// check-then-write toggle on a single mailbox.
type Engine struct {
	system     *actor.ActorSystem
	accountPID *actor.PID
	postPID    *actor.PID
	graphPID   *actor.PID
}

func NewEngine(system *actor.ActorSystem, store actors.Store, metrics *utils.MetricsCollector) *Engine {
	accountProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewAccountActor(store, metrics)
	})
	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(store, metrics)
	})
	graphProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewGraphActor(store, metrics)
	})

	return &Engine{
		system:     system,
		accountPID: system.Root.Spawn(accountProps),
		postPID:    system.Root.Spawn(postProps),
		graphPID:   system.Root.Spawn(graphProps),
	}
}

func (e *Engine) GetAccountActor() *actor.PID {
	return e.accountPID
}

func (e *Engine) GetPostActor() *actor.PID {
	return e.postPID
}

func (e *Engine) GetGraphActor() *actor.PID {
	return e.graphPID
}
