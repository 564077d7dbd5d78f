package workflow

import "context"

// Phase identifies a lifecycle step of a transition.
type Phase string

const (
	PhaseGuard      Phase = "guard"
	PhaseLeave      Phase = "leave"
	PhaseTransition Phase = "transition"
	PhaseEnter      Phase = "enter"
	PhaseEntered    Phase = "entered"
	PhaseCompleted  Phase = "completed"
	PhaseAnnounce   Phase = "announce"
)

// Phases lists every phase in the order Apply emits them.
var Phases = []Phase{PhaseGuard, PhaseLeave, PhaseTransition, PhaseEnter, PhaseEntered, PhaseCompleted, PhaseAnnounce}

// Scope tells how specific a delivery of an event is.
// Every phase is delivered once per scope, from the least to the most specific.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeWorkflow
	ScopeEntity
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeWorkflow:
		return "workflow"
	case ScopeEntity:
		return "entity"
	default:
		return "unknown"
	}
}

// Event is delivered to an EventBroadcaster at each phase.
// The three scoped deliveries of one phase share blockers and context.
type Event struct {
	Phase      Phase
	Scope      Scope
	Workflow   string
	Entity     string
	Subject    any
	Transition *Transition
	Engine     Engine

	shared *eventState
}

type eventState struct {
	context  TransitionContext
	blockers *TransitionBlockerList
}

func newEvent(phase Phase, e Engine, subject any, t *Transition, tc TransitionContext) *Event {
	return &Event{
		Phase:      phase,
		Workflow:   e.Name(),
		Subject:    subject,
		Transition: t,
		Engine:     e,
		shared: &eventState{
			context:  tc,
			blockers: NewTransitionBlockerList(),
		},
	}
}

// scoped returns a copy of the event for another scope and entity.
func (e *Event) scoped(s Scope, entity string) *Event {
	c := *e
	c.Scope = s
	c.Entity = entity
	if s == ScopeGlobal {
		c.Entity = ""
	}
	return &c
}

// PreviousState is the from place of the transition.
func (e *Event) PreviousState() Place { return e.Transition.From() }

// NewState is the to place of the transition.
func (e *Event) NewState() Place { return e.Transition.To() }

// Context returns the transition context. Only meaningful from the transition phase on.
func (e *Event) Context() TransitionContext { return e.shared.context }

// SetContext replaces the transition context. The engine reads it back after the
// transition phase; later changes are not persisted.
func (e *Event) SetContext(tc TransitionContext) { e.shared.context = tc }

// Block adds a blocker. Only guard phase blockers are taken into account.
func (e *Event) Block(b *TransitionBlocker) { e.shared.blockers.Add(b) }

// SetBlocked adds an Unknown blocker, or clears every blocker when blocked is false.
func (e *Event) SetBlocked(blocked bool) {
	if !blocked {
		e.shared.blockers.Clear()
		return
	}
	e.shared.blockers.Add(NewUnknownBlocker())
}

func (e *Event) IsBlocked() bool { return !e.shared.blockers.IsEmpty() }

// Blockers returns a snapshot of the blockers collected so far.
func (e *Event) Blockers() *TransitionBlockerList { return e.shared.blockers.clone() }

// TransitionMetadata returns the metadata of the event transition.
func (e *Event) TransitionMetadata() Metadata {
	return e.Engine.MetadataStore().TransitionMetadata(e.Transition)
}

// WorkflowMetadata returns the workflow level metadata.
func (e *Event) WorkflowMetadata() Metadata {
	return e.Engine.MetadataStore().WorkflowMetadata()
}

// EventBroadcaster receives every event the engine emits, synchronously and in order.
type EventBroadcaster interface {
	Broadcast(ctx context.Context, e *Event)
}

// Listener handles events routed to it by a Dispatcher.
type Listener interface {
	Handle(ctx context.Context, e *Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, e *Event)

func (f ListenerFunc) Handle(ctx context.Context, e *Event) { f(ctx, e) }
