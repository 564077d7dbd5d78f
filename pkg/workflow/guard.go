package workflow

import (
	"context"
	"errors"
	"slices"
)

// GuardInput is what a guard sees when it is evaluated.
type GuardInput struct {
	Subject    any
	Transition *Transition
	Engine     Engine
}

// Guard vetoes a transition by returning a non-nil error.
// Availability guards may return a *TransitionBlocker to control the blocker reported.
type Guard interface {
	Evaluate(ctx context.Context, in GuardInput) error
}

// GuardFunc adapts a function to the Guard interface.
type GuardFunc func(ctx context.Context, in GuardInput) error

func (f GuardFunc) Evaluate(ctx context.Context, in GuardInput) error { return f(ctx, in) }

// GuardManager holds the three ordered guard chains of a transition.
// A nil manager allows everything.
type GuardManager struct {
	availability []Guard
	leave        []Guard
	enter        []Guard
}

// RunAvailabilityGuards evaluates availability guards in order and stops at the first veto,
// which is converted into a blocker.
func (m *GuardManager) RunAvailabilityGuards(ctx context.Context, in GuardInput) *TransitionBlocker {
	if m == nil {
		return nil
	}
	for _, g := range m.availability {
		err := g.Evaluate(ctx, in)
		if err == nil {
			continue
		}
		var blocker *TransitionBlocker
		if errors.As(err, &blocker) {
			return blocker
		}
		return NewBlockedByGuard(err.Error())
	}
	return nil
}

// RunLeaveGuards evaluates leave guards in order and returns the first error.
func (m *GuardManager) RunLeaveGuards(ctx context.Context, in GuardInput) error {
	if m == nil {
		return nil
	}
	return runChain(ctx, m.leave, in)
}

// RunEnterGuards evaluates enter guards in order and returns the first error.
func (m *GuardManager) RunEnterGuards(ctx context.Context, in GuardInput) error {
	if m == nil {
		return nil
	}
	return runChain(ctx, m.enter, in)
}

// IsEmpty reports whether no guard is registered in any chain.
func (m *GuardManager) IsEmpty() bool {
	return m == nil || len(m.availability)+len(m.leave)+len(m.enter) == 0
}

// ToBuilder returns a builder seeded with the manager's chains.
func (m *GuardManager) ToBuilder() *GuardManagerBuilder {
	b := NewGuardManagerBuilder()
	if m == nil {
		return b
	}
	b.availability = slices.Clone(m.availability)
	b.leave = slices.Clone(m.leave)
	b.enter = slices.Clone(m.enter)
	return b
}

func runChain(ctx context.Context, chain []Guard, in GuardInput) error {
	for _, g := range chain {
		if err := g.Evaluate(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

// GuardManagerBuilder accumulates guards for a GuardManager.
type GuardManagerBuilder struct {
	availability []Guard
	leave        []Guard
	enter        []Guard
}

func NewGuardManagerBuilder() *GuardManagerBuilder {
	return &GuardManagerBuilder{}
}

func (b *GuardManagerBuilder) AddAvailabilityGuard(g Guard) *GuardManagerBuilder {
	if g != nil {
		b.availability = append(b.availability, g)
	}
	return b
}

func (b *GuardManagerBuilder) AddLeaveGuard(g Guard) *GuardManagerBuilder {
	if g != nil {
		b.leave = append(b.leave, g)
	}
	return b
}

func (b *GuardManagerBuilder) AddEnterGuard(g Guard) *GuardManagerBuilder {
	if g != nil {
		b.enter = append(b.enter, g)
	}
	return b
}

// Build returns an immutable manager. The builder can keep being used afterwards.
func (b *GuardManagerBuilder) Build() *GuardManager {
	return &GuardManager{
		availability: slices.Clone(b.availability),
		leave:        slices.Clone(b.leave),
		enter:        slices.Clone(b.enter),
	}
}
