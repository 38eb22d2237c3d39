package user

import "library-backend/internal/shared/apperr"

var (
	ErrUserNotFound       = apperr.NotFound(apperr.CodeUserNotFound, "User not found")
	ErrInvalidID          = apperr.Validation(apperr.CodeInvalidUserID, "Invalid user ID", nil)
	ErrEmailAlreadyExists = apperr.Conflict(apperr.CodeUserAlreadyExists, "User already exists")

	// Unknown email and wrong password are reported the same way.
	ErrInvalidCredentials = apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid credentials")
)
