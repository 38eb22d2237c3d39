package apperr

import (
	"encoding/json"
	"errors"
	"io"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the API reports specifically.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Classify maps any error raised during request handling onto an *AppError.
// Unknown errors become INTERNAL_ERROR with the original kept in Err.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return Internal(CodeInternal, "Internal Server Error", err)
	}

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return FromValidation(vErrs)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			e := Conflict(CodeDuplicateEntry, "Duplicate field value entered")
			e.Details = map[string]string{"constraint": pgErr.ConstraintName}
			e.Err = err
			return e
		case pgForeignKeyViolation:
			e := newErr(KindValidation, CodeForeignKeyViolation, "Foreign key constraint failed")
			e.Details = map[string]string{"constraint": pgErr.ConstraintName}
			e.Err = err
			return e
		}
		return Internal(CodeInternal, "Database error", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(CodeResourceNotFound, "Resource not found").WithErr(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return Validation(CodeInvalidRequestBody, "Invalid request body", []FieldError{{
			Field:   typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		}}).WithErr(err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return Validation(CodeInvalidRequestBody, "Invalid request body", nil).WithErr(err)
	}

	return Internal(CodeInternal, "Internal Server Error", err)
}

// FromValidation converts ozzo validation errors into a VALIDATION_ERROR
// whose details list every failing field with its message.
func FromValidation(errs validation.Errors) *AppError {
	details := make([]FieldError, 0, len(errs))
	flatten("", errs, &details)
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })

	return Validation(CodeValidation, "Validation Error", details).WithErr(errs)
}

func flatten(prefix string, errs validation.Errors, out *[]FieldError) {
	for field, err := range errs {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}

		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(path, nested, out)
			continue
		}
		*out = append(*out, FieldError{Field: path, Message: err.Error()})
	}
}
