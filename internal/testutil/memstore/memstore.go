// Package memstore is an in-memory implementation of the repository
// interfaces, used by service tests. Authors, books and users live in one
// Store so that cross-entity reads (author books, book counts) behave like
// the PostgreSQL repositories.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book/model"
	bookRepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/pagination"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	tick    int64
	authors map[int64]author.Author
	books   map[int64]model.Book
	users   map[int64]user.User

	// CountBooksErr, when set, is returned by the author CountBooks.
	CountBooksErr error
}

func New() *Store {
	return &Store{
		authors: map[int64]author.Author{},
		books:   map[int64]model.Book{},
		users:   map[int64]user.User{},
	}
}

// Authors returns the author.Repository view of s.
func (s *Store) Authors() *AuthorRepo { return &AuthorRepo{s: s} }

// Books returns the book repository view of s.
func (s *Store) Books() *BookRepo { return &BookRepo{s: s} }

// Users returns the user.Repository view of s.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// now advances a fake clock by one second per call so creation order is
// strict.
func (s *Store) now() time.Time {
	s.tick++
	return epoch.Add(time.Duration(s.tick) * time.Second)
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func containsFold(value, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

func containsFoldPtr(value *string, filter string) bool {
	if strings.TrimSpace(filter) == "" {
		return true
	}
	if value == nil {
		return false
	}
	return containsFold(*value, filter)
}

func newestFirst(aCreated, bCreated time.Time, aID, bID int64) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID > bID
}

func page[T any](items []T, p pagination.Params) []T {
	if p.Skip >= len(items) {
		return []T{}
	}
	end := p.Skip + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Skip:end]
}

// ========================================
// AUTHORS
// ========================================

type AuthorRepo struct{ s *Store }

var _ author.Repository = (*AuthorRepo)(nil)

func (r *AuthorRepo) Create(ctx context.Context, req author.CreateAuthorRequest) (*author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	a := author.Author{
		ID:          r.s.id(),
		Name:        req.Name,
		Nationality: req.Nationality,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.authors[a.ID] = a

	a.Books = []author.BookSummary{}
	return &a, nil
}

func (r *AuthorRepo) booksOf(id int64) []author.BookSummary {
	out := []author.BookSummary{}
	for _, b := range r.s.books {
		if b.AuthorID == id {
			out = append(out, author.BookSummary{
				ID:        b.ID,
				Title:     b.Title,
				Genre:     b.Genre,
				AuthorID:  b.AuthorID,
				CreatedAt: b.CreatedAt,
				UpdatedAt: b.UpdatedAt,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *AuthorRepo) FindByID(ctx context.Context, id int64) (*author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	a.Books = r.booksOf(id)
	return &a, nil
}

func (r *AuthorRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.authors[id]
	return ok, nil
}

func (r *AuthorRepo) matching(f author.ListFilter) []author.Author {
	var out []author.Author
	for _, a := range r.s.authors {
		if containsFold(a.Name, f.Name) && containsFoldPtr(a.Nationality, f.Nationality) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *AuthorRepo) List(ctx context.Context, filter author.ListFilter, p pagination.Params) ([]author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := page(r.matching(filter), p)
	for i := range out {
		out[i].Books = r.booksOf(out[i].ID)
	}
	return out, nil
}

func (r *AuthorRepo) Count(ctx context.Context, filter author.ListFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.matching(filter))), nil
}

func (r *AuthorRepo) Update(ctx context.Context, id int64, req author.UpdateAuthorRequest) (*author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Nationality != nil {
		a.Nationality = req.Nationality
	}
	a.UpdatedAt = r.s.now()
	r.s.authors[id] = a
	return &a, nil
}

func (r *AuthorRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[id]; !ok {
		return author.ErrAuthorNotFound
	}
	delete(r.s.authors, id)
	return nil
}

func (r *AuthorRepo) CountBooks(ctx context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.CountBooksErr != nil {
		return 0, r.s.CountBooksErr
	}

	var n int64
	for _, b := range r.s.books {
		if b.AuthorID == id {
			n++
		}
	}
	return n, nil
}

func (r *AuthorRepo) SetBookCount(ctx context.Context, id int64, count int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.authors[id]
	if !ok {
		return author.ErrAuthorNotFound
	}
	a.BookCount = int(count)
	r.s.authors[id] = a
	return nil
}

func (r *AuthorRepo) ListAll(ctx context.Context) ([]author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]author.Author, 0, len(r.s.authors))
	for _, a := range r.s.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ========================================
// BOOKS
// ========================================

type BookRepo struct{ s *Store }

var _ bookRepo.RepositoryInterface = (*BookRepo)(nil)

func (r *BookRepo) withAuthor(b model.Book) model.Book {
	if a, ok := r.s.authors[b.AuthorID]; ok {
		b.Author = &model.AuthorSummary{
			ID:          a.ID,
			Name:        a.Name,
			Nationality: a.Nationality,
			BookCount:   a.BookCount,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		}
	}
	return b
}

func (r *BookRepo) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	b := model.Book{
		ID:        r.s.id(),
		Title:     req.Title,
		Genre:     req.Genre,
		AuthorID:  req.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.books[b.ID] = b
	return &b, nil
}

func (r *BookRepo) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	b = r.withAuthor(b)
	return &b, nil
}

func (r *BookRepo) matching(f model.ListFilter) []model.Book {
	var out []model.Book
	for _, b := range r.s.books {
		if !containsFold(b.Title, f.Title) || !containsFoldPtr(b.Genre, f.Genre) {
			continue
		}
		if f.AuthorID > 0 && b.AuthorID != f.AuthorID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *BookRepo) List(ctx context.Context, filter model.ListFilter, p pagination.Params) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := page(r.matching(filter), p)
	for i := range out {
		out[i] = r.withAuthor(out[i])
	}
	return out, nil
}

func (r *BookRepo) Count(ctx context.Context, filter model.ListFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.matching(filter))), nil
}

func (r *BookRepo) Update(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Genre != nil {
		b.Genre = req.Genre
	}
	if req.AuthorID != nil {
		b.AuthorID = *req.AuthorID
	}
	b.UpdatedAt = r.s.now()
	r.s.books[id] = b
	return &b, nil
}

func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}

func (r *BookRepo) ListAll(ctx context.Context) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Book, 0, len(r.s.books))
	for _, b := range r.s.books {
		out = append(out, r.withAuthor(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ========================================
// USERS
// ========================================

type UserRepo struct{ s *Store }

var _ user.Repository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
	}

	now := r.s.now()
	u.ID = r.s.id()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepo) matching(f user.ListFilter) []user.User {
	var out []user.User
	for _, u := range r.s.users {
		if containsFold(u.Email, f.Email) && containsFoldPtr(u.Name, f.Name) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *UserRepo) List(ctx context.Context, filter user.ListFilter, p pagination.Params) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := page(r.matching(filter), p)
	for i := range out {
		out[i].PasswordHash = ""
	}
	return out, nil
}

func (r *UserRepo) Count(ctx context.Context, filter user.ListFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.matching(filter))), nil
}
