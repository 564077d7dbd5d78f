package workflow

import (
	"context"
	"slices"
	"sync"
)

// Topic selects events by phase, workflow and entity.
// A topic only matches deliveries of the scope its fields imply: no workflow means
// global deliveries, a workflow without entity means workflow deliveries, both mean
// entity deliveries. An empty phase matches every phase.
type Topic struct {
	Phase    Phase
	Workflow string
	Entity   string
}

// OnPhase matches global deliveries of a phase.
func OnPhase(p Phase) Topic { return Topic{Phase: p} }

// OnWorkflow matches deliveries of a phase scoped to one workflow.
func OnWorkflow(p Phase, workflow string) Topic { return Topic{Phase: p, Workflow: workflow} }

// OnEntity matches deliveries of a phase scoped to a place or a transition of one workflow.
func OnEntity(p Phase, workflow, entity string) Topic {
	return Topic{Phase: p, Workflow: workflow, Entity: entity}
}

func (t Topic) scope() Scope {
	switch {
	case t.Workflow == "":
		return ScopeGlobal
	case t.Entity == "":
		return ScopeWorkflow
	default:
		return ScopeEntity
	}
}

// Matches reports whether the event delivery is selected by the topic.
func (t Topic) Matches(e *Event) bool {
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.scope() != e.Scope {
		return false
	}
	switch e.Scope {
	case ScopeWorkflow:
		return t.Workflow == e.Workflow
	case ScopeEntity:
		return t.Workflow == e.Workflow && t.Entity == e.Entity
	}
	return true
}

// Subscription binds a listener to a topic.
type Subscription struct {
	Topic    Topic
	Listener Listener
}

// Subscriber declares several subscriptions at once.
type Subscriber interface {
	Subscriptions() []Subscription
}

// Dispatcher is an EventBroadcaster routing events to listeners by topic.
// Listeners run synchronously in registration order. It is safe for concurrent use.
type Dispatcher struct {
	mu   sync.RWMutex
	subs []Subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// On registers a listener for a topic.
func (d *Dispatcher) On(t Topic, l Listener) {
	if l == nil {
		return
	}
	d.mu.Lock()
	d.subs = append(d.subs, Subscription{Topic: t, Listener: l})
	d.mu.Unlock()
}

// OnFunc registers a listener function for a topic.
func (d *Dispatcher) OnFunc(t Topic, fn func(ctx context.Context, e *Event)) {
	d.On(t, ListenerFunc(fn))
}

// Subscribe registers every subscription declared by s.
func (d *Dispatcher) Subscribe(s Subscriber) {
	for _, sub := range s.Subscriptions() {
		d.On(sub.Topic, sub.Listener)
	}
}

// Len returns the number of registered subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

// Broadcast delivers the event to every matching listener.
func (d *Dispatcher) Broadcast(ctx context.Context, e *Event) {
	d.mu.RLock()
	subs := slices.Clone(d.subs)
	d.mu.RUnlock()

	for _, s := range subs {
		if s.Topic.Matches(e) {
			s.Listener.Handle(ctx, e)
		}
	}
}

// Broadcasters fans an event out to several broadcasters in order.
type Broadcasters []EventBroadcaster

func (bs Broadcasters) Broadcast(ctx context.Context, e *Event) {
	for _, b := range bs {
		if b != nil {
			b.Broadcast(ctx, e)
		}
	}
}
