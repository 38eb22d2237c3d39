package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/pagination"
)

// BcryptCost is the work factor of stored password hashes.
const BcryptCost = 10

// TokenIssuer signs access tokens. *jwt.Manager satisfies it.
type TokenIssuer interface {
	GenerateAccessToken(userID int64, email string) (string, error)
}

// userService implement user.Service interface
type userService struct {
	repo   user.Repository
	tokens TokenIssuer
}

func NewUserService(repo user.Repository, tokens TokenIssuer) user.Service {
	return &userService{
		repo:   repo,
		tokens: tokens,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.RegisterResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
	}
	// The unique index still guards a concurrent register of the same email.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Msg("User registered")
	return &user.RegisterResponse{UserID: u.ID}, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &user.LoginResponse{
		Token: token,
		User:  u.ToPrincipal(),
	}, nil
}

// ========================================
// USERS
// ========================================

func (s *userService) ListUsers(ctx context.Context, filter user.ListFilter, p pagination.Params) (*pagination.Page[user.UserDTO], error) {
	filter = filter.Normalize()

	users, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]user.UserDTO, len(users))
	for i := range users {
		dtos[i] = users[i].ToDTO()
	}

	page := pagination.NewPage(dtos, total, p)
	return &page, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*user.UserDTO, error) {
	if id <= 0 {
		return nil, user.ErrInvalidID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}
