package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/infrastructure/events"
	"library-backend/internal/shared/pagination"
)

type BookService struct {
	repo      repository.RepositoryInterface
	authors   AuthorChecker
	publisher events.Publisher
}

func NewBookService(
	repo repository.RepositoryInterface,
	authors AuthorChecker,
	publisher events.Publisher,
) ServiceInterface {
	return &BookService{
		repo:      repo,
		authors:   authors,
		publisher: publisher,
	}
}

func (s *BookService) ListBooks(ctx context.Context, filter model.ListFilter, p pagination.Params) (*pagination.Page[model.Book], error) {
	books, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(books, total, p)
	return &page, nil
}

func (s *BookService) GetBookDetail(ctx context.Context, id int64) (*model.Book, error) {
	if id <= 0 {
		return nil, model.ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

// CreateBook validates, checks the author and inserts. One change event is
// published for the author after the insert succeeded.
func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureAuthor(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	book, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.bookChanged(ctx, book.AuthorID)

	log.Info().
		Int64("book_id", book.ID).
		Int64("author_id", book.AuthorID).
		Msg("Book created")
	return book, nil
}

// UpdateBook publishes only when the body carries authorId: once for that
// author and, if it moved the book, once more for the previous author.
func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	if id <= 0 {
		return nil, model.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.AuthorID != nil {
		if err := s.ensureAuthor(ctx, *req.AuthorID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	if req.AuthorID != nil {
		s.bookChanged(ctx, *req.AuthorID)
		if *req.AuthorID != existing.AuthorID {
			s.bookChanged(ctx, existing.AuthorID)
		}
	}

	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.bookChanged(ctx, existing.AuthorID)

	log.Info().Int64("book_id", id).Msg("Book deleted")
	return nil
}

func (s *BookService) ensureAuthor(ctx context.Context, authorID int64) error {
	exists, err := s.authors.Exists(ctx, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (s *BookService) bookChanged(ctx context.Context, authorID int64) {
	s.publisher.Publish(ctx, events.TopicBookChanged, events.BookChanged{AuthorID: authorID})
}
