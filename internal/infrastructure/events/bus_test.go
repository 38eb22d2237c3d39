package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) EventPublished(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[name]++
}

func TestBus_SyncHandlersRunInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		require.NoError(t, bus.Subscribe("x", func(ctx context.Context, evt Event) error {
			order = append(order, i)
			return nil
		}))
	}

	bus.Publish(context.Background(), "x", nil)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestBus_DeliversExactlyOncePerSubscriber(t *testing.T) {
	bus := NewBus()

	var syncCalls, asyncCalls atomic.Int32
	require.NoError(t, bus.Subscribe(TopicBookChanged, func(ctx context.Context, evt Event) error {
		syncCalls.Add(1)
		return nil
	}))
	require.NoError(t, bus.SubscribeAsync(TopicBookChanged, func(ctx context.Context, evt Event) error {
		asyncCalls.Add(1)
		return nil
	}))
	require.NoError(t, bus.Subscribe("other", func(ctx context.Context, evt Event) error {
		t.Error("handler for another event must not run")
		return nil
	}))
	bus.Seal()

	bus.Publish(context.Background(), TopicBookChanged, BookChanged{AuthorID: 7})
	bus.Wait()

	assert.EqualValues(t, 1, syncCalls.Load())
	assert.EqualValues(t, 1, asyncCalls.Load())
}

func TestBus_PayloadReachesHandler(t *testing.T) {
	bus := NewBus()

	var got BookChanged
	require.NoError(t, bus.Subscribe(TopicBookChanged, func(ctx context.Context, evt Event) error {
		got = evt.Payload.(BookChanged)
		assert.Equal(t, TopicBookChanged, evt.Name)
		assert.False(t, evt.OccurredAt.IsZero())
		return nil
	}))

	bus.Publish(context.Background(), TopicBookChanged, BookChanged{AuthorID: 42})
	assert.Equal(t, int64(42), got.AuthorID)
}

func TestBus_FailuresDoNotReachPublisher(t *testing.T) {
	bus := NewBus()

	var after atomic.Bool
	require.NoError(t, bus.Subscribe("x", func(ctx context.Context, evt Event) error {
		panic("sync boom")
	}))
	require.NoError(t, bus.Subscribe("x", func(ctx context.Context, evt Event) error {
		return errors.New("sync failure")
	}))
	require.NoError(t, bus.SubscribeAsync("x", func(ctx context.Context, evt Event) error {
		panic("async boom")
	}))
	require.NoError(t, bus.Subscribe("x", func(ctx context.Context, evt Event) error {
		after.Store(true)
		return nil
	}))

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), "x", nil)
	})
	bus.Wait()
	assert.True(t, after.Load(), "later subscribers still run after a failure")
}

func TestBus_PublishDoesNotAwaitAsyncHandlers(t *testing.T) {
	bus := NewBus()

	release := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, bus.SubscribeAsync("x", func(ctx context.Context, evt Event) error {
		<-release
		finished.Store(true)
		return nil
	}))

	returned := make(chan struct{})
	go func() {
		bus.Publish(context.Background(), "x", nil)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on an async handler")
	}
	assert.False(t, finished.Load())

	close(release)
	bus.Wait()
	assert.True(t, finished.Load())
}

func TestBus_AsyncHandlerOutlivesCanceledContext(t *testing.T) {
	bus := NewBus()

	ctxErr := make(chan error, 1)
	start := make(chan struct{})
	require.NoError(t, bus.SubscribeAsync("x", func(ctx context.Context, evt Event) error {
		<-start
		ctxErr <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, "x", nil)
	cancel()
	close(start)
	bus.Wait()

	assert.NoError(t, <-ctxErr)
}

func TestBus_SubscribeAfterSealFails(t *testing.T) {
	bus := NewBus()
	bus.Seal()

	err := bus.Subscribe("x", func(ctx context.Context, evt Event) error { return nil })
	assert.ErrorIs(t, err, ErrBusSealed)

	err = bus.SubscribeAsync("x", func(ctx context.Context, evt Event) error { return nil })
	assert.ErrorIs(t, err, ErrBusSealed)
}

func TestBus_NilHandlerRejected(t *testing.T) {
	assert.Error(t, NewBus().Subscribe("x", nil))
}

func TestBus_ObserverCountsPublishes(t *testing.T) {
	obs := &countingObserver{}
	bus := NewBus(WithObserver(obs))

	bus.Publish(context.Background(), TopicBookChanged, BookChanged{AuthorID: 1})
	bus.Publish(context.Background(), TopicBookChanged, BookChanged{AuthorID: 2})

	assert.Equal(t, 2, obs.counts[TopicBookChanged])
}

func TestBus_WaitContextTimesOut(t *testing.T) {
	bus := NewBus()

	release := make(chan struct{})
	require.NoError(t, bus.SubscribeAsync("x", func(ctx context.Context, evt Event) error {
		<-release
		return nil
	}))
	bus.Publish(context.Background(), "x", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.WaitContext(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, bus.WaitContext(context.Background()))
}
