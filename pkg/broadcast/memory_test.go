package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmarket/notify/pkg/broadcast"
)

func TestMemoryBroadcaster(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all subscribers", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](4)
		t.Cleanup(func() { _ = b.Close() })

		ctx := context.Background()
		first := b.Subscribe(ctx)
		second := b.Subscribe(ctx)

		require.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"}))

		select {
		case msg := <-first.Receive(ctx):
			assert.Equal(t, "hello", msg.Data)
		case <-time.After(time.Second):
			t.Fatal("first subscriber did not receive the message")
		}

		select {
		case msg := <-second.Receive(ctx):
			assert.Equal(t, "hello", msg.Data)
		case <-time.After(time.Second):
			t.Fatal("second subscriber did not receive the message")
		}
	})

	t.Run("slow consumers are dropped, not waited on", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[int](1)
		t.Cleanup(func() { _ = b.Close() })

		ctx := context.Background()
		_ = b.Subscribe(ctx) // never reads

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 10; i++ {
				_ = b.Broadcast(ctx, broadcast.Message[int]{Data: i})
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("broadcast blocked on a slow consumer")
		}
	})

	t.Run("subscribe after close returns a closed subscriber", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](1)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, open := <-sub.Receive(context.Background())
		assert.False(t, open)
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](1)
		t.Cleanup(func() { _ = b.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		assert.Eventually(t, func() bool {
			_, open := <-sub.Receive(context.Background())
			return !open
		}, time.Second, 10*time.Millisecond)
	})
}
