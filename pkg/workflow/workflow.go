package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/flowkit/pkg/logger"
)

// DefaultName is used for engines created without WithName.
const DefaultName = "unnamed"

// Engine evaluates and applies transitions of a Definition against subjects.
type Engine interface {
	Name() string
	Definition() *Definition
	StateAccessor() StateAccessor
	MetadataStore() MetadataStore

	// State returns the current place of subject.
	State(ctx context.Context, subject any) (Place, error)
	// Can reports whether a transition called name is enabled for subject.
	Can(ctx context.Context, subject any, name string) (bool, error)
	// BuildTransitionBlockerList explains why a transition called name is blocked.
	// An empty list means it is enabled.
	BuildTransitionBlockerList(ctx context.Context, subject any, name string) (*TransitionBlockerList, error)
	// Apply fires the first enabled transition called name and returns the new place.
	Apply(ctx context.Context, subject any, name string, tc TransitionContext) (Place, error)
	// EnabledTransitions lists enabled transitions in declaration order.
	EnabledTransitions(ctx context.Context, subject any) ([]*Transition, error)
}

// Option configures a Workflow or a StateMachine.
type Option func(*Workflow)

// WithName sets the engine name used in events, errors and logs.
func WithName(name string) Option {
	return func(w *Workflow) {
		if name != "" {
			w.name = name
		}
	}
}

// WithStateAccessor replaces the default SubjectStateAccessor.
func WithStateAccessor(a StateAccessor) Option {
	return func(w *Workflow) {
		if a != nil {
			w.accessor = a
		}
	}
}

// WithBroadcaster attaches the sink receiving lifecycle events.
func WithBroadcaster(b EventBroadcaster) Option {
	return func(w *Workflow) {
		w.broadcaster = b
	}
}

// WithLogger sets the logger. Records are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.log = l
		}
	}
}

// Workflow is the default Engine. It holds no per-subject state and can be shared;
// callers serialize Apply calls on the same subject.
type Workflow struct {
	def         *Definition
	accessor    StateAccessor
	broadcaster EventBroadcaster
	name        string
	log         *slog.Logger
	self        Engine
}

// NewWorkflow creates a workflow engine and validates def with WorkflowValidator.
func NewWorkflow(def *Definition, opts ...Option) (*Workflow, error) {
	w, err := newWorkflow(def, opts...)
	if err != nil {
		return nil, err
	}
	if err := (WorkflowValidator{}).Validate(def, w.name); err != nil {
		return nil, err
	}
	return w, nil
}

// MustNewWorkflow is like NewWorkflow but panics on error.
func MustNewWorkflow(def *Definition, opts ...Option) *Workflow {
	w, err := NewWorkflow(def, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create workflow: %v", err))
	}
	return w
}

func newWorkflow(def *Definition, opts ...Option) (*Workflow, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: definition cannot be nil", ErrInvalidArgument)
	}
	w := &Workflow{
		def:      def,
		accessor: SubjectStateAccessor{},
		name:     DefaultName,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(logger.Workflow(w.name))
	w.self = w
	return w, nil
}

func (w *Workflow) Name() string                 { return w.name }
func (w *Workflow) Definition() *Definition      { return w.def }
func (w *Workflow) StateAccessor() StateAccessor { return w.accessor }
func (w *Workflow) MetadataStore() MetadataStore { return w.def.MetadataStore() }

func (w *Workflow) State(_ context.Context, subject any) (Place, error) {
	state, err := w.accessor.GetState(subject)
	if err != nil {
		return "", err
	}
	if !w.def.HasPlace(state) {
		return "", &InvalidStateError{State: state, Workflow: w.name}
	}
	return state, nil
}

func (w *Workflow) Can(ctx context.Context, subject any, name string) (bool, error) {
	state, err := w.State(ctx, subject)
	if err != nil {
		return false, err
	}
	for _, t := range w.def.transitions {
		if t.Name() != name {
			continue
		}
		if w.blockersFor(ctx, subject, state, t).IsEmpty() {
			return true, nil
		}
	}
	return false, nil
}

func (w *Workflow) BuildTransitionBlockerList(ctx context.Context, subject any, name string) (*TransitionBlockerList, error) {
	state, err := w.State(ctx, subject)
	if err != nil {
		return nil, err
	}
	_, blockers := w.resolve(ctx, subject, state, name)
	if blockers == nil {
		return nil, NewUndefinedTransitionError(name, w.name)
	}
	return blockers, nil
}

func (w *Workflow) Apply(ctx context.Context, subject any, name string, tc TransitionContext) (Place, error) {
	state, err := w.State(ctx, subject)
	if err != nil {
		return "", err
	}

	approved, blockers := w.resolve(ctx, subject, state, name)
	if blockers == nil {
		return "", NewUndefinedTransitionError(name, w.name)
	}
	if approved == nil {
		w.log.DebugContext(ctx, "transition not enabled",
			logger.Transition(name),
			logger.Place(state),
			logger.Blockers(blockerMessages(blockers)...),
		)
		return "", NewNotEnabledTransitionError(name, w.name, state, blockers)
	}

	tc = tc.Clone()
	in := GuardInput{Subject: subject, Transition: approved, Engine: w.self}
	guards := approved.GuardManager()

	if err := guards.RunLeaveGuards(ctx, in); err != nil {
		w.log.WarnContext(ctx, "leave guard aborted transition", logger.Transition(name), logger.Error(err))
		return "", &GuardError{Phase: PhaseLeave, Transition: name, Err: err}
	}
	w.dispatch(ctx, newEvent(PhaseLeave, w.self, subject, approved, tc), string(approved.From()))

	ev := newEvent(PhaseTransition, w.self, subject, approved, tc)
	w.dispatch(ctx, ev, approved.Name())
	tc = ev.Context()

	if err := guards.RunEnterGuards(ctx, in); err != nil {
		w.log.WarnContext(ctx, "enter guard aborted transition", logger.Transition(name), logger.Error(err))
		return "", &GuardError{Phase: PhaseEnter, Transition: name, Err: err}
	}
	w.dispatch(ctx, newEvent(PhaseEnter, w.self, subject, approved, tc), string(approved.To()))

	if err := w.accessor.SetState(subject, approved.To(), tc); err != nil {
		return "", fmt.Errorf("set state %q: %w", approved.To(), err)
	}
	w.log.DebugContext(ctx, "transition applied",
		logger.Transition(name),
		logger.From(approved.From()),
		logger.To(approved.To()),
	)

	w.dispatch(ctx, newEvent(PhaseEntered, w.self, subject, approved, tc), string(approved.To()))
	w.dispatch(ctx, newEvent(PhaseCompleted, w.self, subject, approved, tc), approved.Name())
	w.announce(ctx, subject, approved, tc)

	return approved.To(), nil
}

func (w *Workflow) EnabledTransitions(ctx context.Context, subject any) ([]*Transition, error) {
	state, err := w.State(ctx, subject)
	if err != nil {
		return nil, err
	}
	var enabled []*Transition
	for _, t := range w.def.transitions {
		if w.blockersFor(ctx, subject, state, t).IsEmpty() {
			enabled = append(enabled, t)
		}
	}
	return enabled, nil
}

// resolve scans transitions called name in declaration order. It returns the first
// enabled one with an empty list, or nil with the most informative blocker list:
// a list without BlockedByState replaces any earlier candidate, the latest such list wins.
// Both results are nil when no transition has that name.
func (w *Workflow) resolve(ctx context.Context, subject any, state Place, name string) (*Transition, *TransitionBlockerList) {
	var best *TransitionBlockerList
	for _, t := range w.def.transitions {
		if t.Name() != name {
			continue
		}
		blockers := w.blockersFor(ctx, subject, state, t)
		if blockers.IsEmpty() {
			return t, blockers
		}
		if best == nil || !blockers.Has(BlockedByState) {
			best = blockers
		}
	}
	return nil, best
}

// blockersFor evaluates a single transition. Guards only run when the subject is in
// the transition's from place.
func (w *Workflow) blockersFor(ctx context.Context, subject any, state Place, t *Transition) *TransitionBlockerList {
	if t.From() != state {
		return NewTransitionBlockerList(NewBlockedByState(state))
	}

	ev := newEvent(PhaseGuard, w.self, subject, t, nil)
	ev.Block(t.GuardManager().RunAvailabilityGuards(ctx, GuardInput{Subject: subject, Transition: t, Engine: w.self}))
	w.dispatch(ctx, ev, t.Name())

	return ev.Blockers()
}

func (w *Workflow) announce(ctx context.Context, subject any, t *Transition, tc TransitionContext) {
	if w.broadcaster == nil {
		return
	}
	ev := newEvent(PhaseAnnounce, w.self, subject, t, tc)
	w.broadcaster.Broadcast(ctx, ev.scoped(ScopeGlobal, ""))
	w.broadcaster.Broadcast(ctx, ev.scoped(ScopeWorkflow, ""))

	enabled, err := w.EnabledTransitions(ctx, subject)
	if err != nil {
		w.log.WarnContext(ctx, "announce skipped", logger.Transition(t.Name()), logger.Error(err))
		return
	}
	for _, next := range enabled {
		w.broadcaster.Broadcast(ctx, ev.scoped(ScopeEntity, next.Name()))
	}
}

// dispatch delivers ev in the global, workflow and entity scopes.
func (w *Workflow) dispatch(ctx context.Context, ev *Event, entity string) {
	if w.broadcaster == nil {
		return
	}
	w.broadcaster.Broadcast(ctx, ev.scoped(ScopeGlobal, ""))
	w.broadcaster.Broadcast(ctx, ev.scoped(ScopeWorkflow, ""))
	w.broadcaster.Broadcast(ctx, ev.scoped(ScopeEntity, entity))
}

func blockerMessages(l *TransitionBlockerList) []string {
	out := make([]string, 0, l.Len())
	for _, b := range l.All() {
		out = append(out, b.Message())
	}
	return out
}
