package model

import "time"

// Book belongs to exactly one author.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Genre     *string   `json:"genre"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Author is filled on list and detail reads.
	Author *AuthorSummary `json:"author,omitempty"`
}

// AuthorSummary is the author as embedded in a book response.
type AuthorSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Nationality *string   `json:"nationality"`
	BookCount   int       `json:"bookCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
