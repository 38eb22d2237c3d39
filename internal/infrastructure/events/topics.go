package events

// TopicBookChanged is published after a book is created, updated or deleted.
const TopicBookChanged = "book.changed"

// BookChanged names the author whose book count may be stale.
type BookChanged struct {
	AuthorID int64 `json:"authorId"`
}
