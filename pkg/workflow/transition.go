package workflow

import "fmt"

// Transition is a named directed edge between two places.
// It is immutable once created; a Definition stores its own copy and assigns it an ID.
type Transition struct {
	name   string
	from   Place
	to     Place
	guards *GuardManager
	id     int
}

// TransitionOption configures a transition at construction.
type TransitionOption func(*Transition)

// WithGuardManager attaches a guard manager to the transition.
func WithGuardManager(gm *GuardManager) TransitionOption {
	return func(t *Transition) {
		t.guards = gm
	}
}

// WithGuards attaches availability guards to the transition.
func WithGuards(guards ...Guard) TransitionOption {
	return func(t *Transition) {
		b := NewGuardManagerBuilder()
		if t.guards != nil {
			b = t.guards.ToBuilder()
		}
		for _, g := range guards {
			b.AddAvailabilityGuard(g)
		}
		t.guards = b.Build()
	}
}

// NewTransition creates a transition named name leading from one place to another.
func NewTransition(name string, from, to Place, opts ...TransitionOption) *Transition {
	t := &Transition{
		name: name,
		from: from,
		to:   to,
		id:   -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transition) Name() string { return t.name }
func (t *Transition) From() Place  { return t.from }
func (t *Transition) To() Place    { return t.to }

// GuardManager returns the attached guard manager, possibly nil.
func (t *Transition) GuardManager() *GuardManager { return t.guards }

// ID is the position of the transition in its owning definition, or -1 when detached.
func (t *Transition) ID() int { return t.id }

func (t *Transition) String() string {
	return fmt.Sprintf("%s(%s -> %s)", t.name, t.from, t.to)
}

func (t *Transition) withID(id int) *Transition {
	c := *t
	c.id = id
	return &c
}
