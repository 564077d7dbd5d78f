package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Message[T]) Message[T] {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return Message[T]{}
	}
}

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Run("subscribe creates active subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)
		require.NotNil(t, sub)
		require.NotNil(t, sub.Receive(ctx))
		assert.Equal(t, 1, b.Len())
	})

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		ctx := context.Background()
		sub := b.Subscribe(ctx)
		_, ok := <-sub.Receive(ctx)
		assert.False(t, ok)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		select {
		case _, ok := <-sub.Receive(ctx):
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("subscriber was not closed")
		}
		assert.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("subscriber close unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())
		assert.Equal(t, 0, b.Len())
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Run("broadcast to multiple subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx := context.Background()
		sub1 := b.Subscribe(ctx)
		sub2 := b.Subscribe(ctx)

		require.NoError(t, b.Broadcast(ctx, Message[string]{Topic: "orders", Data: "hello"}))

		assert.Equal(t, "hello", receive(t, sub1.Receive(ctx)).Data)
		assert.Equal(t, "hello", receive(t, sub2.Receive(ctx)).Data)
	})

	t.Run("topic filter", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx := context.Background()
		orders := b.Subscribe(ctx, "orders")
		all := b.Subscribe(ctx)

		require.NoError(t, b.Broadcast(ctx, Message[string]{Topic: "articles", Data: "a"}))
		require.NoError(t, b.Broadcast(ctx, Message[string]{Topic: "orders", Data: "o"}))

		assert.Equal(t, "o", receive(t, orders.Receive(ctx)).Data)
		assert.Equal(t, "a", receive(t, all.Receive(ctx)).Data)
		assert.Equal(t, "o", receive(t, all.Receive(ctx)).Data)
	})

	t.Run("broadcast after close returns error", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		err := b.Broadcast(context.Background(), Message[string]{Data: "x"})
		assert.ErrorIs(t, err, ErrClosed)
	})

	t.Run("full buffer drops without unsubscribing", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)

		for i := range 3 {
			require.NoError(t, b.Broadcast(ctx, Message[int]{Data: i}))
		}

		assert.Equal(t, uint64(2), b.Dropped())
		assert.Equal(t, 1, b.Len())
		assert.Equal(t, 0, receive(t, sub.Receive(ctx)).Data)

		require.NoError(t, b.Broadcast(ctx, Message[int]{Data: 7}))
		assert.Equal(t, 7, receive(t, sub.Receive(ctx)).Data)
	})
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	t.Run("close closes all subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)

		ctx := context.Background()
		subs := []Subscriber[string]{b.Subscribe(ctx), b.Subscribe(ctx, "x")}

		require.NoError(t, b.Close())
		for _, sub := range subs {
			_, ok := <-sub.Receive(ctx)
			assert.False(t, ok)
		}
		assert.Equal(t, 0, b.Len())
	})

	t.Run("close with live subscriber contexts returns", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		b.Subscribe(ctx)

		done := make(chan struct{})
		go func() {
			_ = b.Close()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("close blocked on subscriber context")
		}
	})

	t.Run("double close is safe", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())
	})
}

func TestMemoryBroadcaster_Concurrent(t *testing.T) {
	b := NewMemoryBroadcaster[int](1000)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				_ = b.Broadcast(ctx, Message[int]{Data: n*100 + j})
			}
		}(i)
	}
	wg.Wait()

	count := 0
	for {
		select {
		case <-sub.Receive(ctx):
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 500, count)
	assert.Zero(t, b.Dropped())
}

func TestMemoryBroadcaster_MultiTopic(t *testing.T) {
	b := NewMemoryBroadcaster[string](10)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx, "orders", "invoices", "orders")
	assert.Equal(t, 1, b.Len())

	require.NoError(t, b.Broadcast(ctx, Message[string]{Topic: "orders", Data: "o"}))
	require.NoError(t, b.Broadcast(ctx, Message[string]{Topic: "articles", Data: "a"}))
	require.NoError(t, b.Broadcast(ctx, Message[string]{Topic: "invoices", Data: "i"}))

	assert.Equal(t, "o", receive(t, sub.Receive(ctx)).Data)
	assert.Equal(t, "i", receive(t, sub.Receive(ctx)).Data)
	select {
	case msg := <-sub.Receive(ctx):
		t.Fatalf("unexpected message %q", msg.Data)
	default:
	}

	require.NoError(t, sub.Close())
	assert.Equal(t, 0, b.Len())
	require.NoError(t, b.Broadcast(ctx, Message[string]{Topic: "orders", Data: "late"}))
	assert.Zero(t, b.Dropped())
}
