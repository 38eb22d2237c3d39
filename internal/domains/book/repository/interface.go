package repository

import (
	"context"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/pagination"
)

// RepositoryInterface is the book data access contract.
type RepositoryInterface interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)

	// FindByID returns the book with its author, or model.ErrBookNotFound.
	FindByID(ctx context.Context, id int64) (*model.Book, error)

	// List returns one page ordered by created_at DESC, id DESC, with authors.
	List(ctx context.Context, filter model.ListFilter, p pagination.Params) ([]model.Book, error)
	Count(ctx context.Context, filter model.ListFilter) (int64, error)

	// Update applies the non-nil fields and returns the stored row.
	Update(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error)

	Delete(ctx context.Context, id int64) error

	// ListAll returns every book with its author, ordered by title.
	ListAll(ctx context.Context) ([]model.Book, error)
}
