package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

type subject struct {
	state   workflow.Place
	context workflow.TransitionContext
}

func (s *subject) CurrentState() workflow.Place { return s.state }

func (s *subject) SetCurrentState(p workflow.Place, tc workflow.TransitionContext) {
	s.state = p
	s.context = tc
}

func newSubject(state workflow.Place) *subject {
	return &subject{state: state}
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Handle(_ context.Context, e *workflow.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s/%s/%s/%s", e.Phase, e.Scope, e.Entity, e.Transition.Name()))
}

func (r *recorder) Broadcast(ctx context.Context, e *workflow.Event) { r.Handle(ctx, e) }

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func places(names ...string) []workflow.Place {
	out := make([]workflow.Place, len(names))
	for i, n := range names {
		out[i] = workflow.Place(n)
	}
	return out
}

// simpleDefinition: a -t1-> b -t2-> c
func simpleDefinition(t *testing.T) *workflow.Definition {
	t.Helper()
	def, err := workflow.NewDefinition(places("a", "b", "c"), []*workflow.Transition{
		workflow.NewTransition("t1", "a", "b"),
		workflow.NewTransition("t2", "b", "c"),
	})
	require.NoError(t, err)
	return def
}

// complexDefinition has diverging and merging branches.
func complexDefinition(t *testing.T) *workflow.Definition {
	t.Helper()
	def, err := workflow.NewDefinition(places("a", "b", "c", "d", "e", "f", "g"), []*workflow.Transition{
		workflow.NewTransition("t1-1", "a", "b"),
		workflow.NewTransition("t1-2", "a", "c"),
		workflow.NewTransition("t2", "b", "d"),
		workflow.NewTransition("t2", "c", "d"),
		workflow.NewTransition("t3", "d", "e"),
		workflow.NewTransition("t4", "d", "f"),
		workflow.NewTransition("t5", "e", "g"),
		workflow.NewTransition("t6", "f", "g"),
	})
	require.NoError(t, err)
	return def
}

// stateMachineDefinition: t1 reaches b from a and from d.
func stateMachineDefinition(t *testing.T) *workflow.Definition {
	t.Helper()
	def, err := workflow.NewDefinition(places("a", "b", "c", "d"), []*workflow.Transition{
		workflow.NewTransition("t1", "a", "b"),
		workflow.NewTransition("t1", "d", "b"),
		workflow.NewTransition("t2", "b", "c"),
		workflow.NewTransition("t3", "b", "d"),
	})
	require.NoError(t, err)
	return def
}

func deny(reason string) workflow.Guard {
	return workflow.GuardFunc(func(context.Context, workflow.GuardInput) error {
		return errors.New(reason)
	})
}

func allow() workflow.Guard {
	return workflow.GuardFunc(func(context.Context, workflow.GuardInput) error { return nil })
}
