package author

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxNameLength = 255

// CreateAuthorRequest - POST /api/v1/authors
type CreateAuthorRequest struct {
	Name        string  `json:"name"`
	Nationality *string `json:"nationality,omitempty"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Nationality, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
	)
}

// UpdateAuthorRequest - PUT /api/v1/authors/:id
// Only the fields present in the body are changed.
type UpdateAuthorRequest struct {
	Name        *string `json:"name,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Nationality, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
	)
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateAuthorRequest) IsEmpty() bool {
	return r.Name == nil && r.Nationality == nil
}

// ListFilter holds the optional substring filters of GET /authors.
type ListFilter struct {
	Name        string
	Nationality string
}

// Normalize trims every filter; blank filters are ignored by the repository.
func (f ListFilter) Normalize() ListFilter {
	return ListFilter{
		Name:        strings.TrimSpace(f.Name),
		Nationality: strings.TrimSpace(f.Nationality),
	}
}
