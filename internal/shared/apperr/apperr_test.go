package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_Status(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{Validation(CodeValidation, "bad", nil), http.StatusBadRequest},
		{BusinessRule(CodeAuthorHasBooks, "has books"), http.StatusBadRequest},
		{Conflict(CodeUserAlreadyExists, "exists"), http.StatusConflict},
		{NotFound(CodeAuthorNotFound, "missing"), http.StatusNotFound},
		{Unauthorized(CodeInvalidToken, "nope"), http.StatusUnauthorized},
		{TooManyRequests("slow down"), http.StatusTooManyRequests},
		{Internal(CodeInternal, "boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestAppError_IsMatchesOnCode(t *testing.T) {
	sentinel := NotFound(CodeBookNotFound, "Book not found")
	wrapped := fmt.Errorf("lookup: %w", sentinel.WithMessage("Book %d not found", 7))

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, NotFound(CodeAuthorNotFound, "Author not found")))
}

func TestClassify(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Classify(nil))
	})

	t.Run("app error passes through wrapping", func(t *testing.T) {
		orig := Conflict(CodeUserAlreadyExists, "User already exists")
		got := Classify(fmt.Errorf("register: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("validation errors become field details", func(t *testing.T) {
		errs := validation.Errors{
			"title":    errors.New("cannot be blank"),
			"authorId": errors.New("must be no less than 1"),
		}
		got := Classify(errs)
		require.Equal(t, CodeValidation, got.Code)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, []FieldError{
			{Field: "authorId", Message: "must be no less than 1"},
			{Field: "title", Message: "cannot be blank"},
		}, got.Details)
	})

	t.Run("unique violation", func(t *testing.T) {
		got := Classify(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		assert.Equal(t, CodeDuplicateEntry, got.Code)
		assert.Equal(t, http.StatusConflict, got.Status)
	})

	t.Run("foreign key violation", func(t *testing.T) {
		got := Classify(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}))
		assert.Equal(t, CodeForeignKeyViolation, got.Code)
		assert.Equal(t, http.StatusBadRequest, got.Status)
	})

	t.Run("no rows", func(t *testing.T) {
		got := Classify(pgx.ErrNoRows)
		assert.Equal(t, CodeResourceNotFound, got.Code)
		assert.Equal(t, http.StatusNotFound, got.Status)
	})

	t.Run("malformed json", func(t *testing.T) {
		var v map[string]any
		err := json.Unmarshal([]byte(`{"title":`), &v)
		require.Error(t, err)
		assert.Equal(t, CodeInvalidRequestBody, Classify(err).Code)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		cause := errors.New("disk on fire")
		got := Classify(cause)
		assert.Equal(t, KindInternal, got.Kind)
		assert.ErrorIs(t, got, cause)
	})
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(pgx.ErrNoRows, KindNotFound))
	assert.False(t, IsKind(pgx.ErrNoRows, KindConflict))
}
