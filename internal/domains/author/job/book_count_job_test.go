package job

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/infrastructure/events"
)

type fakeRecalculator struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (f *fakeRecalculator) RecalculateBookCount(ctx context.Context, authorID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, authorID)
	return 3, f.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	success  int
	failures int
}

func (r *fakeRecorder) RecordBookCountJob(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failures++
		return
	}
	r.success++
}

func TestHandle_AcceptsValueAndPointerPayloads(t *testing.T) {
	recalc := &fakeRecalculator{}
	rec := &fakeRecorder{}
	job := NewBookCountJob(recalc, rec)

	ctx := context.Background()
	require.NoError(t, job.Handle(ctx, events.Event{Name: events.TopicBookChanged, Payload: events.BookChanged{AuthorID: 7}}))
	require.NoError(t, job.Handle(ctx, events.Event{Name: events.TopicBookChanged, Payload: &events.BookChanged{AuthorID: 8}}))

	assert.Equal(t, []int64{7, 8}, recalc.calls)
	assert.Equal(t, 2, rec.success)
}

func TestHandle_InvalidPayloadIsRecordedNotRun(t *testing.T) {
	recalc := &fakeRecalculator{}
	rec := &fakeRecorder{}
	job := NewBookCountJob(recalc, rec)

	ctx := context.Background()
	for _, payload := range []any{nil, "7", events.BookChanged{}, (*events.BookChanged)(nil)} {
		require.NoError(t, job.Handle(ctx, events.Event{Name: events.TopicBookChanged, Payload: payload}))
	}

	assert.Empty(t, recalc.calls)
	assert.Equal(t, 4, rec.failures)
}

func TestHandle_FailureIsSwallowed(t *testing.T) {
	recalc := &fakeRecalculator{err: errors.New("author vanished")}
	rec := &fakeRecorder{}
	job := NewBookCountJob(recalc, rec)

	err := job.Handle(context.Background(), events.Event{Payload: events.BookChanged{AuthorID: 1}})
	assert.NoError(t, err)
	assert.Equal(t, 1, rec.failures)
	assert.Len(t, recalc.calls, 1, "no retry")

	assert.Error(t, job.Run(context.Background(), 1))
}

func TestRegister_RunsDetachedOnPublish(t *testing.T) {
	recalc := &fakeRecalculator{}
	job := NewBookCountJob(recalc, nil)

	bus := events.NewBus()
	require.NoError(t, job.Register(bus))
	bus.Seal()

	bus.Publish(context.Background(), events.TopicBookChanged, events.BookChanged{AuthorID: 5})
	bus.Publish(context.Background(), "other", events.BookChanged{AuthorID: 6})
	bus.Wait()

	assert.Equal(t, []int64{5}, recalc.calls)
}

func TestRegister_FailsOnSealedBus(t *testing.T) {
	bus := events.NewBus()
	bus.Seal()

	err := NewBookCountJob(&fakeRecalculator{}, nil).Register(bus)
	assert.ErrorIs(t, err, events.ErrBusSealed)
}
