package job

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"library-backend/internal/infrastructure/events"
)

// Recalculator recounts and stores an author's book count.
type Recalculator interface {
	RecalculateBookCount(ctx context.Context, authorID int64) (int64, error)
}

// ResultRecorder receives the outcome of every run. nil means success.
type ResultRecorder interface {
	RecordBookCountJob(err error)
}

// Subscriber is the part of the event bus the job registers on.
type Subscriber interface {
	SubscribeAsync(name string, h events.Handler) error
}

// BookCountJob keeps authors.book_count in line with the books table. It
// runs detached after every book.changed event, never retries and only
// logs failures.
type BookCountJob struct {
	recalculator Recalculator
	recorder     ResultRecorder
}

func NewBookCountJob(recalculator Recalculator, recorder ResultRecorder) *BookCountJob {
	return &BookCountJob{
		recalculator: recalculator,
		recorder:     recorder,
	}
}

// Register subscribes the job to book.changed.
func (j *BookCountJob) Register(bus Subscriber) error {
	if err := bus.SubscribeAsync(events.TopicBookChanged, j.Handle); err != nil {
		return fmt.Errorf("register book count job: %w", err)
	}
	return nil
}

// Handle is the bus handler. Failures are logged by Run and not returned.
func (j *BookCountJob) Handle(ctx context.Context, evt events.Event) error {
	var authorID int64
	switch p := evt.Payload.(type) {
	case events.BookChanged:
		authorID = p.AuthorID
	case *events.BookChanged:
		if p != nil {
			authorID = p.AuthorID
		}
	}

	if authorID <= 0 {
		log.Error().
			Str("event", evt.Name).
			Interface("payload", evt.Payload).
			Msg("Book count job received an invalid payload")
		j.record(fmt.Errorf("invalid payload %T", evt.Payload))
		return nil
	}

	_ = j.Run(ctx, authorID)
	return nil
}

// Run recalculates one author. It is idempotent.
func (j *BookCountJob) Run(ctx context.Context, authorID int64) error {
	count, err := j.recalculator.RecalculateBookCount(ctx, authorID)
	j.record(err)

	if err != nil {
		log.Error().
			Err(err).
			Int64("author_id", authorID).
			Msg("Failed to update author book count")
		return err
	}

	log.Debug().
		Int64("author_id", authorID).
		Int64("book_count", count).
		Msg("Author book count updated")
	return nil
}

func (j *BookCountJob) record(err error) {
	if j.recorder != nil {
		j.recorder.RecordBookCountJob(err)
	}
}
