package author

import (
	"context"

	"library-backend/internal/shared/pagination"
)

// Service is the author business logic contract.
type Service interface {
	Create(ctx context.Context, req CreateAuthorRequest) (*Author, error)
	List(ctx context.Context, filter ListFilter, p pagination.Params) (*pagination.Page[Author], error)
	GetByID(ctx context.Context, id int64) (*Author, error)
	Update(ctx context.Context, id int64, req UpdateAuthorRequest) (*Author, error)
	Delete(ctx context.Context, id int64) error

	// RecalculateBookCount recounts the author's books and stores the result.
	RecalculateBookCount(ctx context.Context, id int64) (int64, error)
}
