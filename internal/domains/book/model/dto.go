package model

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxTitleLength = 255

var (
	titleRequired    = validation.Required.Error("Title is required")
	authorIDRequired = validation.Required.Error("Author ID is required")
	authorIDPositive = validation.Min(int64(1)).Error("Author ID is required")

	// An empty genre is stored as given.
	genreLength = validation.Length(0, MaxTitleLength)
)

// CreateBookRequest - POST /api/v1/books
type CreateBookRequest struct {
	Title    string  `json:"title"`
	Genre    *string `json:"genre,omitempty"`
	AuthorID int64   `json:"authorId"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, titleRequired, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Genre, genreLength),
		validation.Field(&r.AuthorID, authorIDRequired, authorIDPositive),
	)
}

// UpdateBookRequest - PUT /api/v1/books/:id
// Absent fields keep their value.
type UpdateBookRequest struct {
	Title    *string `json:"title,omitempty"`
	Genre    *string `json:"genre,omitempty"`
	AuthorID *int64  `json:"authorId,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("Title is required"), validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Genre, genreLength),
		validation.Field(&r.AuthorID, validation.NilOrNotEmpty.Error("Author ID is required"), authorIDPositive),
	)
}

// ListFilter holds the optional filters of GET /books. AuthorID zero means
// no author filter.
type ListFilter struct {
	Title    string
	Genre    string
	AuthorID int64
}

// NewListFilter trims the text filters and keeps authorId only when it is
// a positive integer.
func NewListFilter(title, genre, rawAuthorID string) ListFilter {
	f := ListFilter{
		Title: strings.TrimSpace(title),
		Genre: strings.TrimSpace(genre),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(rawAuthorID), 10, 64); err == nil && id > 0 {
		f.AuthorID = id
	}
	return f
}
