package author

import (
	"context"

	"library-backend/internal/shared/pagination"
)

// Repository is the author data access contract.
type Repository interface {
	// Create inserts the author and returns it with id and timestamps.
	Create(ctx context.Context, req CreateAuthorRequest) (*Author, error)

	// FindByID returns the author with its books, or ErrAuthorNotFound.
	FindByID(ctx context.Context, id int64) (*Author, error)

	// Exists is the cheap existence check used by the book service.
	Exists(ctx context.Context, id int64) (bool, error)

	// List returns one page ordered by created_at DESC, id DESC, with books.
	List(ctx context.Context, filter ListFilter, p pagination.Params) ([]Author, error)

	// Count returns the number of authors matching filter.
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// Update applies the non-nil fields. Returns ErrAuthorNotFound when
	// the row is gone.
	Update(ctx context.Context, id int64, req UpdateAuthorRequest) (*Author, error)

	Delete(ctx context.Context, id int64) error

	// CountBooks counts the books referencing the author right now.
	CountBooks(ctx context.Context, id int64) (int64, error)

	// SetBookCount overwrites the derived counter. Returns
	// ErrAuthorNotFound when the author no longer exists.
	SetBookCount(ctx context.Context, id int64, count int64) error

	// ListAll returns every author ordered by name, without books.
	ListAll(ctx context.Context) ([]Author, error)
}
