package model

import "library-backend/internal/shared/apperr"

var (
	ErrBookNotFound   = apperr.NotFound(apperr.CodeBookNotFound, "Book not found")
	ErrAuthorNotFound = apperr.NotFound(apperr.CodeAuthorNotFound, "Author not found")
	ErrInvalidID      = apperr.Validation(apperr.CodeInvalidBookID, "Invalid book ID", nil)
)
