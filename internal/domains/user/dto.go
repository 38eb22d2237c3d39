package user

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bytes; bcrypt rejects anything longer
)

var passwordFitsBcrypt = validation.By(func(value interface{}) error {
	pw, _ := value.(string)
	if len(pw) > MaxPasswordLength {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
})

// RegisterRequest - POST /api/v1/auth/register
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(MinPasswordLength, 0).
				Error("password must be at least 6 characters"),
			passwordFitsBcrypt,
		),
		validation.Field(&r.Name, validation.Length(0, 255)),
	)
}

// LoginRequest - POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(MinPasswordLength, 0).Error("password must be at least 6 characters"),
		),
	)
}

// RegisterResponse is merged into the 201 body.
type RegisterResponse struct {
	UserID int64 `json:"userId"`
}

// LoginResponse is merged into the 200 body.
type LoginResponse struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

// ListFilter holds the optional substring filters of GET /users.
type ListFilter struct {
	Email string
	Name  string
}

func (f ListFilter) Normalize() ListFilter {
	return ListFilter{
		Email: strings.TrimSpace(f.Email),
		Name:  strings.TrimSpace(f.Name),
	}
}
