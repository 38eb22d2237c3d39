package service

import (
	"context"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/pagination"
)

// ServiceInterface - book business logic
type ServiceInterface interface {
	ListBooks(ctx context.Context, filter model.ListFilter, p pagination.Params) (*pagination.Page[model.Book], error)
	GetBookDetail(ctx context.Context, id int64) (*model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// AuthorChecker is the slice of the author repository the book service needs.
type AuthorChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
