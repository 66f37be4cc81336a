package actors

import (
	"testing"

	"inkwell/internal/testutil"
	"inkwell/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnGraphActor(t *testing.T, store Store) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGraphActor(store, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func TestFollowToggle(t *testing.T) {
	store := testutil.NewMemStore()
	system, pid := spawnGraphActor(t, store)
	alice := uuid.New()
	bob := uuid.New()

	result := ask(t, system, pid, &FollowMsg{FollowerID: alice, FollowedID: bob})
	assert.Equal(t, true, result)

	result = ask(t, system, pid, &FollowMsg{FollowerID: alice, FollowedID: bob})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	result = ask(t, system, pid, &UnfollowMsg{FollowerID: alice, FollowedID: bob})
	assert.Equal(t, true, result)

	result = ask(t, system, pid, &UnfollowMsg{FollowerID: alice, FollowedID: bob})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestSelfFollowRejected(t *testing.T) {
	store := testutil.NewMemStore()
	system, pid := spawnGraphActor(t, store)
	alice := uuid.New()

	result := ask(t, system, pid, &FollowMsg{FollowerID: alice, FollowedID: alice})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}
