package broadcast

import (
	"context"
	"slices"
	"sync"
)

// Message wraps data of type T. Topic is used by subscribers to filter messages.
type Message[T any] struct {
	Topic string
	Data  T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on.
	// It is closed when the subscriber or the broadcaster is closed.
	Receive(ctx context.Context) <-chan Message[T]
	// Close stops delivery and closes the receive channel. It is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers without blocking on slow ones.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber for the given topics, or every topic when
	// none is given. Cancelling ctx closes the subscriber.
	Subscribe(ctx context.Context, topics ...string) Subscriber[T]
	// Broadcast delivers msg to every matching subscriber with buffer space left.
	Broadcast(ctx context.Context, msg Message[T]) error
	// Close closes every subscriber. Later broadcasts return ErrClosed.
	Close() error
}

type subscriber[T any] struct {
	ch      chan Message[T]
	topics  []string
	closed  bool
	dropped uint64
	mu      sync.RWMutex
	onClose func()
}

func newSubscriber[T any](bufferSize int, topics []string) *subscriber[T] {
	return &subscriber[T]{
		ch:     make(chan Message[T], bufferSize),
		topics: slices.Clone(topics),
	}
}

func (s *subscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	close(s.ch)
	s.closed = true
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	return nil
}

// send delivers msg unless the buffer is full or the subscriber is closed.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		s.dropped++
		return false
	}
}
