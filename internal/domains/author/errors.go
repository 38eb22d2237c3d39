package author

import "library-backend/internal/shared/apperr"

var (
	ErrAuthorNotFound = apperr.NotFound(apperr.CodeAuthorNotFound, "Author not found")
	ErrInvalidID      = apperr.Validation(apperr.CodeInvalidAuthorID, "Invalid author ID", nil)
	ErrAuthorHasBooks = apperr.BusinessRule(apperr.CodeAuthorHasBooks, "Cannot delete author with associated books")
)

// HasBooksError is ErrAuthorHasBooks carrying the blocking count.
func HasBooksError(count int64) *apperr.AppError {
	return ErrAuthorHasBooks.WithMessage("Cannot delete author with associated books. Books count: %d", count)
}
