package user

import (
	"context"

	"library-backend/internal/shared/pagination"
)

// Repository is the user data access contract.
type Repository interface {
	// Create inserts u and fills its id and timestamps. A taken email
	// yields ErrEmailAlreadyExists.
	Create(ctx context.Context, u *User) error

	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	List(ctx context.Context, filter ListFilter, p pagination.Params) ([]User, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
}
