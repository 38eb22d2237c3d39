package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/pagination"
	"library-backend/internal/shared/sqlbuilder"
)

const bookColumns = `id, title, genre, author_id, created_at, updated_at`

// Joined reads select the book then its author, in this order.
const joinedSelect = `
    SELECT b.id, b.title, b.genre, b.author_id, b.created_at, b.updated_at,
           a.id, a.name, a.nationality, a.book_count, a.created_at, a.updated_at
    FROM books b
    JOIN authors a ON a.id = b.author_id`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanBook(row pgx.Row, b *model.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Genre, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt)
}

func scanBookWithAuthor(row pgx.Row) (model.Book, error) {
	var (
		b model.Book
		a model.AuthorSummary
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.Genre, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt,
		&a.ID, &a.Name, &a.Nationality, &a.BookCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return b, err
	}
	b.Author = &a
	return b, nil
}

func (r *postgresRepository) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	query := `
        INSERT INTO books (title, genre, author_id)
        VALUES ($1, $2, $3)
        RETURNING ` + bookColumns

	var b model.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, req.Title, req.Genre, req.AuthorID), &b); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	b, err := scanBookWithAuthor(r.pool.QueryRow(ctx, joinedSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return &b, nil
}

func filterExpressions(f model.ListFilter) []exp.Expression {
	t := goqu.T("books")
	exprs := []exp.Expression{
		sqlbuilder.ContainsFold(t.Col("title"), f.Title),
		sqlbuilder.ContainsFold(t.Col("genre"), f.Genre),
	}
	if f.AuthorID > 0 {
		exprs = append(exprs, t.Col("author_id").Eq(f.AuthorID))
	}
	return exprs
}

// List pages the matching book ids first and then loads the rows with
// their authors.
func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter, p pagination.Params) ([]model.Book, error) {
	ds := sqlbuilder.Dialect.From("books").Select(goqu.T("books").Col("id"))
	ds = sqlbuilder.Where(ds, filterExpressions(filter)...)
	ds = sqlbuilder.NewestFirst(ds, "books")
	ds = sqlbuilder.Page(ds, p)

	idQuery, args, err := sqlbuilder.ToSQL(ds)
	if err != nil {
		return nil, err
	}

	query := joinedSelect + `
    WHERE b.id IN (` + idQuery + `)
    ORDER BY b.created_at DESC, b.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, p.Limit)
	for rows.Next() {
		b, err := scanBookWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Count(ctx context.Context, filter model.ListFilter) (int64, error) {
	ds := sqlbuilder.Dialect.From("books").Select(goqu.COUNT("*"))
	ds = sqlbuilder.Where(ds, filterExpressions(filter)...)

	query, args, err := sqlbuilder.ToSQL(ds)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	query := `
        UPDATE books
        SET title      = COALESCE($2, title),
            genre      = COALESCE($3, genre),
            author_id  = COALESCE($4, author_id),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + bookColumns

	var b model.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, id, req.Title, req.Genre, req.AuthorID), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, joinedSelect+` ORDER BY b.title ASC, b.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		b, err := scanBookWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
