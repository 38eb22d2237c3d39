package user

import (
	"context"

	"library-backend/internal/shared/pagination"
)

// Service is the account and authentication contract.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	ListUsers(ctx context.Context, filter ListFilter, p pagination.Params) (*pagination.Page[UserDTO], error)
	GetUser(ctx context.Context, id int64) (*UserDTO, error)
}
