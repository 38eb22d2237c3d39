package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book/model"
)

const (
	SheetAuthors = "Authors"
	SheetBooks   = "Books"

	// ContentType of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout  = "2006-01-02"
	headerColor = "E0E0E0"
)

// AuthorSource lists every author ordered by name.
type AuthorSource interface {
	ListAll(ctx context.Context) ([]author.Author, error)
}

// BookSource lists every book with its author ordered by title.
type BookSource interface {
	ListAll(ctx context.Context) ([]model.Book, error)
}

type column struct {
	header string
	width  float64
}

var authorColumns = []column{
	{"ID", 10},
	{"Name", 30},
	{"Nationality", 20},
	{"Book Count", 15},
	{"Created At", 20},
}

var bookColumns = []column{
	{"ID", 10},
	{"Title", 30},
	{"Genre", 20},
	{"Author", 30},
	{"Author ID", 12},
	{"Created At", 20},
}

type ExportService struct {
	authors AuthorSource
	books   BookSource
	now     func() time.Time
}

func NewExportService(authors AuthorSource, books BookSource) *ExportService {
	return &ExportService{
		authors: authors,
		books:   books,
		now:     time.Now,
	}
}

// Filename is library_export_<UTC date>.xlsx.
func (s *ExportService) Filename() string {
	return fmt.Sprintf("library_export_%s.xlsx", s.now().UTC().Format(dateLayout))
}

// BuildWorkbook reads the full catalog and returns a two-sheet workbook.
// The caller must Close the file.
func (s *ExportService) BuildWorkbook(ctx context.Context) (*excelize.File, error) {
	authors, err := s.authors.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}

	books, err := s.books.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	f := excelize.NewFile()
	if err := buildWorkbook(f, authors, books); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	log.Debug().
		Int("authors", len(authors)).
		Int("books", len(books)).
		Msg("Export workbook built")
	return f, nil
}

func buildWorkbook(f *excelize.File, authors []author.Author, books []model.Book) error {
	// Rename default sheet
	if err := f.SetSheetName("Sheet1", SheetAuthors); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetBooks); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
	})
	if err != nil {
		return err
	}

	if err := writeHeader(f, SheetAuthors, authorColumns, headerStyle); err != nil {
		return err
	}
	for i, a := range authors {
		row := []interface{}{
			a.ID,
			a.Name,
			deref(a.Nationality),
			a.BookCount,
			a.CreatedAt.UTC().Format(dateLayout),
		}
		if err := writeRow(f, SheetAuthors, i+2, row); err != nil {
			return err
		}
	}

	if err := writeHeader(f, SheetBooks, bookColumns, headerStyle); err != nil {
		return err
	}
	for i, b := range books {
		authorName := ""
		if b.Author != nil {
			authorName = b.Author.Name
		}
		row := []interface{}{
			b.ID,
			b.Title,
			deref(b.Genre),
			authorName,
			b.AuthorID,
			b.CreatedAt.UTC().Format(dateLayout),
		}
		if err := writeRow(f, SheetBooks, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeHeader(f *excelize.File, sheet string, cols []column, style int) error {
	headers := make([]interface{}, len(cols))
	for i, col := range cols {
		headers[i] = col.header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return err
		}
	}

	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
