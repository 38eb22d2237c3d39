package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/author"
	"library-backend/internal/shared/pagination"
)

// authorService implements author.Service
type authorService struct {
	repo author.Repository
}

func NewAuthorService(repo author.Repository) author.Service {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req author.CreateAuthorRequest) (*author.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("author_id", created.ID).Msg("Author created")
	return created, nil
}

// List runs the page read and the count independently over the same
// filter. No transaction spans the two.
func (s *authorService) List(ctx context.Context, filter author.ListFilter, p pagination.Params) (*pagination.Page[author.Author], error) {
	filter = filter.Normalize()

	authors, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(authors, total, p)
	return &page, nil
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	if id <= 0 {
		return nil, author.ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *authorService) Update(ctx context.Context, id int64, req author.UpdateAuthorRequest) (*author.Author, error) {
	if id <= 0 {
		return nil, author.ErrInvalidID
	}

	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, req)
}

// Delete refuses to remove an author that still has books. The live book
// count is checked, not the derived counter, which may be stale.
func (s *authorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return author.ErrInvalidID
	}

	if err := s.ensureExists(ctx, id); err != nil {
		return err
	}

	books, err := s.repo.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if books > 0 {
		return author.HasBooksError(books)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("author_id", id).Msg("Author deleted")
	return nil
}

// RecalculateBookCount counts then writes, as two separate statements.
func (s *authorService) RecalculateBookCount(ctx context.Context, id int64) (int64, error) {
	count, err := s.repo.CountBooks(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}

	if err := s.repo.SetBookCount(ctx, id, count); err != nil {
		return 0, fmt.Errorf("set book count: %w", err)
	}

	return count, nil
}

func (s *authorService) ensureExists(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return author.ErrAuthorNotFound
	}
	return nil
}
