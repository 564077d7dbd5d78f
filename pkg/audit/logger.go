package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContextExtractor reads a value from the context, reporting whether it was found.
type ContextExtractor func(context.Context) (string, bool)

// Option configures a Logger.
type Option func(*Logger)

// WithActorIDExtractor fills Event.ActorID from the context.
func WithActorIDExtractor(fn ContextExtractor) Option {
	return func(l *Logger) {
		l.actorIDExtractor = fn
	}
}

// WithRequestIDExtractor fills Event.RequestID from the context.
func WithRequestIDExtractor(fn ContextExtractor) Option {
	return func(l *Logger) {
		l.requestIDExtractor = fn
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// Logger builds audit events and writes them to a Storage.
type Logger struct {
	storage            Storage
	actorIDExtractor   ContextExtractor
	requestIDExtractor ContextExtractor
	now                func() time.Time
}

// NewLogger creates a Logger. It panics on a nil storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultSuccess)
	return l.store(ctx, event, opts)
}

// LogError records an action that failed with err.
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultError)
	if err != nil {
		event.Error = err.Error()
	}
	return l.store(ctx, event, opts)
}

func (l *Logger) store(ctx context.Context, event Event, opts []EventOption) error {
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

func (l *Logger) newEvent(ctx context.Context, action string, result Result) Event {
	event := Event{
		ID:        uuid.New().String(),
		Action:    action,
		Result:    result,
		CreatedAt: l.now(),
	}
	if l.actorIDExtractor != nil {
		if v, ok := l.actorIDExtractor(ctx); ok {
			event.ActorID = v
		}
	}
	if l.requestIDExtractor != nil {
		if v, ok := l.requestIDExtractor(ctx); ok {
			event.RequestID = v
		}
	}
	return event
}
