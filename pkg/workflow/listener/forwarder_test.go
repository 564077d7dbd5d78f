package listener_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/broadcast"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
	"github.com/dmitrymomot/flowkit/pkg/workflow/listener"
)

func nextRecord(t *testing.T, sub broadcast.Subscriber[listener.Record]) listener.Record {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive(context.Background()):
		require.True(t, ok)
		return msg.Data
	case <-time.After(time.Second):
		t.Fatal("no record received")
		return listener.Record{}
	}
}

func TestForwarder(t *testing.T) {
	b := broadcast.NewMemoryBroadcaster[listener.Record](64)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx, "orders")

	d := workflow.NewDispatcher()
	d.Subscribe(listener.NewForwarder(b, listener.WithPhases(workflow.PhaseLeave, workflow.PhaseCompleted)))
	wf := orderWorkflow(t, d)

	_, err := wf.Apply(ctx, &order{id: "o-1", state: "draft"}, "submit", workflow.TransitionContext{"by": "alice"})
	require.NoError(t, err)

	leave := nextRecord(t, sub)
	assert.Equal(t, workflow.PhaseLeave, leave.Phase)
	assert.Equal(t, "orders", leave.Workflow)
	assert.Equal(t, "submit", leave.Transition)
	assert.Equal(t, workflow.Place("draft"), leave.From)
	assert.Equal(t, workflow.Place("review"), leave.To)
	assert.Equal(t, "*listener_test.order", leave.SubjectType)
	assert.Equal(t, map[string]any{"by": "alice"}, leave.Context)
	_, err = uuid.Parse(leave.ID)
	assert.NoError(t, err)

	completed := nextRecord(t, sub)
	assert.Equal(t, workflow.PhaseCompleted, completed.Phase)
	assert.NotEqual(t, leave.ID, completed.ID)

	select {
	case msg := <-sub.Receive(ctx):
		t.Fatalf("unexpected record for phase %s", msg.Data.Phase)
	default:
	}
}

func TestForwarder_GuardBlockers(t *testing.T) {
	b := broadcast.NewMemoryBroadcaster[listener.Record](64)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx)

	d := workflow.NewDispatcher()
	d.OnFunc(workflow.OnPhase(workflow.PhaseGuard), func(_ context.Context, e *workflow.Event) {
		e.Block(workflow.NewBlockedByGuard("closed"))
	})
	d.Subscribe(listener.NewForwarder(b, listener.WithPhases(workflow.PhaseGuard)))
	wf := orderWorkflow(t, d)

	ok, err := wf.Can(ctx, &order{state: "draft"}, "submit")
	require.NoError(t, err)
	assert.False(t, ok)

	rec := nextRecord(t, sub)
	assert.Equal(t, workflow.PhaseGuard, rec.Phase)
	assert.Equal(t, []string{string(workflow.BlockedByGuard)}, rec.Blockers)
}
