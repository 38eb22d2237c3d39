package author

import "time"

// Author is the catalog author. BookCount is derived from the books table
// and written only by the book count job.
type Author struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Nationality *string   `json:"nationality"`
	BookCount   int       `json:"bookCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Books is filled on list and detail reads.
	Books []BookSummary `json:"books,omitempty"`
}

// BookSummary is a book as embedded in an author response.
type BookSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Genre     *string   `json:"genre"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
