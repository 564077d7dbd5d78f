package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

type subscriberSet[T any] map[*subscriber[T]]struct{}

// MemoryBroadcaster is an in-process Broadcaster. A message is dropped for a
// subscriber whose buffer is full; the subscriber stays registered.
// All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	mu       sync.RWMutex
	buffer   int
	all      subscriberSet[T]            // subscribers without a topic filter
	byTopic  map[string]subscriberSet[T] // filtered subscribers per topic
	count    int
	closed   bool
	done     chan struct{}
	dropped  atomic.Uint64
	watchers sync.WaitGroup
}

// NewMemoryBroadcaster creates a broadcaster giving each subscriber a buffer of
// bufferSize messages, at least one.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		buffer:  max(bufferSize, 1),
		all:     make(subscriberSet[T]),
		byTopic: make(map[string]subscriberSet[T]),
		done:    make(chan struct{}),
	}
}

// Subscribe registers a subscriber. After Close it returns an already closed subscriber.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context, topics ...string) Subscriber[T] {
	sub := newSubscriber[T](b.buffer, topics)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = sub.Close()
		return sub
	}
	b.add(sub)
	sub.onClose = func() { b.remove(sub) }
	b.mu.Unlock()

	if ctx.Done() != nil {
		b.watchers.Add(1)
		go b.watch(ctx, sub)
	}
	return sub
}

// watch closes sub when ctx ends, and gives up once the broadcaster is closed.
func (b *MemoryBroadcaster[T]) watch(ctx context.Context, sub *subscriber[T]) {
	defer b.watchers.Done()
	select {
	case <-ctx.Done():
		_ = sub.Close()
	case <-b.done:
	}
}

// Broadcast delivers msg to matching subscribers. It never blocks on a subscriber.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	b.deliver(b.all, msg)
	b.deliver(b.byTopic[msg.Topic], msg)
	return nil
}

func (b *MemoryBroadcaster[T]) deliver(set subscriberSet[T], msg Message[T]) {
	for sub := range set {
		if !sub.send(msg) {
			b.dropped.Add(1)
		}
	}
}

// Len returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Dropped returns how many deliveries were skipped because a buffer was full.
func (b *MemoryBroadcaster[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes every subscriber and waits for context watchers to exit.
// It is safe to call more than once.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)

	pending := make([]*subscriber[T], 0, b.count)
	for sub := range b.all {
		pending = append(pending, sub)
	}
	for _, set := range b.byTopic {
		for sub := range set {
			pending = append(pending, sub)
		}
	}
	b.all = make(subscriberSet[T])
	b.byTopic = make(map[string]subscriberSet[T])
	b.count = 0
	b.mu.Unlock()

	// Subscribers filtered on several topics appear more than once; Close is idempotent.
	for _, sub := range pending {
		_ = sub.Close()
	}
	b.watchers.Wait()
	return nil
}

// add expects b.mu to be held.
func (b *MemoryBroadcaster[T]) add(sub *subscriber[T]) {
	b.count++
	if len(sub.topics) == 0 {
		b.all[sub] = struct{}{}
		return
	}
	for _, topic := range sub.topics {
		set, ok := b.byTopic[topic]
		if !ok {
			set = make(subscriberSet[T])
			b.byTopic[topic] = set
		}
		set[sub] = struct{}{}
	}
}

func (b *MemoryBroadcaster[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(sub.topics) == 0 {
		if _, ok := b.all[sub]; ok {
			delete(b.all, sub)
			b.count--
		}
		return
	}

	found := false
	for _, topic := range sub.topics {
		set := b.byTopic[topic]
		if _, ok := set[sub]; !ok {
			continue
		}
		found = true
		delete(set, sub)
		if len(set) == 0 {
			delete(b.byTopic, topic)
		}
	}
	if found {
		b.count--
	}
}
