package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/testutil/memstore"
)

type failingAuthors struct{}

func (failingAuthors) ListAll(ctx context.Context) ([]author.Author, error) {
	return nil, errors.New("db down")
}

func TestBuildWorkbook(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	chilean := "Chilean"
	allende, err := store.Authors().Create(ctx, author.CreateAuthorRequest{Name: "Isabel Allende", Nationality: &chilean})
	require.NoError(t, err)
	borges, err := store.Authors().Create(ctx, author.CreateAuthorRequest{Name: "Borges"})
	require.NoError(t, err)

	fiction := "Fiction"
	_, err = store.Books().Create(ctx, model.CreateBookRequest{Title: "Eva Luna", Genre: &fiction, AuthorID: allende.ID})
	require.NoError(t, err)
	_, err = store.Books().Create(ctx, model.CreateBookRequest{Title: "El Aleph", AuthorID: borges.ID})
	require.NoError(t, err)
	require.NoError(t, store.Authors().SetBookCount(ctx, allende.ID, 1))

	svc := NewExportService(store.Authors(), store.Books())
	f, err := svc.BuildWorkbook(ctx)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAuthors, SheetBooks}, f.GetSheetList())

	authorRows, err := f.GetRows(SheetAuthors)
	require.NoError(t, err)
	require.Len(t, authorRows, 3)
	assert.Equal(t, []string{"ID", "Name", "Nationality", "Book Count", "Created At"}, authorRows[0])
	assert.Equal(t, []string{"2", "Borges", "", "0", "2025-01-01"}, authorRows[1][:5], "ordered by name")
	assert.Equal(t, "Isabel Allende", authorRows[2][1])
	assert.Equal(t, "Chilean", authorRows[2][2])
	assert.Equal(t, "1", authorRows[2][3])

	bookRows, err := f.GetRows(SheetBooks)
	require.NoError(t, err)
	require.Len(t, bookRows, 3)
	assert.Equal(t, []string{"ID", "Title", "Genre", "Author", "Author ID", "Created At"}, bookRows[0])
	assert.Equal(t, "El Aleph", bookRows[1][1], "ordered by title")
	assert.Equal(t, "Borges", bookRows[1][3])
	assert.Equal(t, []string{"3", "Eva Luna", "Fiction", "Isabel Allende", "1", "2025-01-01"}, bookRows[2])

	styleID, err := f.GetCellStyle(SheetBooks, "F1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, "pattern", style.Fill.Type)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, style.Fill.Color[0], "E0E0E0")
}

func TestBuildWorkbook_EmptyCatalog(t *testing.T) {
	store := memstore.New()
	f, err := NewExportService(store.Authors(), store.Books()).BuildWorkbook(context.Background())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetBooks)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestBuildWorkbook_SourceError(t *testing.T) {
	svc := NewExportService(failingAuthors{}, memstore.New().Books())
	_, err := svc.BuildWorkbook(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestFilename(t *testing.T) {
	svc := NewExportService(nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC) }
	assert.Equal(t, "library_export_2024-03-09.xlsx", svc.Filename())
}
