package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/author"
	"library-backend/internal/shared/pagination"
	"library-backend/internal/shared/sqlbuilder"
)

const authorColumns = `id, name, nationality, book_count, created_at, updated_at`

// postgresRepository implements author.Repository on a pgx pool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) author.Repository {
	return &postgresRepository{pool: pool}
}

func scanAuthor(row pgx.Row, a *author.Author) error {
	return row.Scan(
		&a.ID,
		&a.Name,
		&a.Nationality,
		&a.BookCount,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, req author.CreateAuthorRequest) (*author.Author, error) {
	query := `
        INSERT INTO authors (name, nationality)
        VALUES ($1, $2)
        RETURNING ` + authorColumns

	var a author.Author
	if err := scanAuthor(r.pool.QueryRow(ctx, query, req.Name, req.Nationality), &a); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	a.Books = []author.BookSummary{}

	return &a, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*author.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	var a author.Author
	if err := scanAuthor(r.pool.QueryRow(ctx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	books, err := r.booksOf(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	a.Books = books[id]
	if a.Books == nil {
		a.Books = []author.BookSummary{}
	}

	return &a, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

func filterExpressions(f author.ListFilter) []exp.Expression {
	t := goqu.T("authors")
	return []exp.Expression{
		sqlbuilder.ContainsFold(t.Col("name"), f.Name),
		sqlbuilder.ContainsFold(t.Col("nationality"), f.Nationality),
	}
}

func (r *postgresRepository) List(ctx context.Context, filter author.ListFilter, p pagination.Params) ([]author.Author, error) {
	ds := sqlbuilder.Dialect.From("authors").
		Select("id", "name", "nationality", "book_count", "created_at", "updated_at")
	ds = sqlbuilder.Where(ds, filterExpressions(filter)...)
	ds = sqlbuilder.NewestFirst(ds, "authors")
	ds = sqlbuilder.Page(ds, p)

	query, args, err := sqlbuilder.ToSQL(ds)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	authors := make([]author.Author, 0, p.Limit)
	ids := make([]int64, 0, p.Limit)
	for rows.Next() {
		var a author.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authors: %w", err)
	}

	if len(ids) == 0 {
		return authors, nil
	}

	books, err := r.booksOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range authors {
		authors[i].Books = books[authors[i].ID]
		if authors[i].Books == nil {
			authors[i].Books = []author.BookSummary{}
		}
	}

	return authors, nil
}

func (r *postgresRepository) Count(ctx context.Context, filter author.ListFilter) (int64, error) {
	ds := sqlbuilder.Dialect.From("authors").Select(goqu.COUNT("*"))
	ds = sqlbuilder.Where(ds, filterExpressions(filter)...)

	query, args, err := sqlbuilder.ToSQL(ds)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return total, nil
}

// booksOf loads the books of every given author in one round trip.
func (r *postgresRepository) booksOf(ctx context.Context, ids []int64) (map[int64][]author.BookSummary, error) {
	query := `
        SELECT id, title, genre, author_id, created_at, updated_at
        FROM books
        WHERE author_id = ANY($1)
        ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query author books: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]author.BookSummary, len(ids))
	for rows.Next() {
		var b author.BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.Genre, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		out[b.AuthorID] = append(out[b.AuthorID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate author books: %w", err)
	}

	return out, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, req author.UpdateAuthorRequest) (*author.Author, error) {
	query := `
        UPDATE authors
        SET name        = COALESCE($2, name),
            nationality = COALESCE($3, nationality),
            updated_at  = NOW()
        WHERE id = $1
        RETURNING ` + authorColumns

	var a author.Author
	if err := scanAuthor(r.pool.QueryRow(ctx, query, id, req.Name, req.Nationality), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	return &a, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return author.ErrAuthorNotFound
	}
	return nil
}

func (r *postgresRepository) CountBooks(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books of author %d: %w", id, err)
	}
	return n, nil
}

func (r *postgresRepository) SetBookCount(ctx context.Context, id int64, count int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE authors SET book_count = $2 WHERE id = $1`, id, count)
	if err != nil {
		return fmt.Errorf("failed to set book count of author %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return author.ErrAuthorNotFound
	}
	return nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]author.Author, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []author.Author
	for rows.Next() {
		var a author.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}
