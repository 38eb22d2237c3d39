package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/pagination"
	"library-backend/internal/testutil/memstore"
	"library-backend/pkg/jwt"
)

func newService(t *testing.T) (user.Service, *memstore.Store, *jwt.Manager) {
	t.Helper()
	store := memstore.New()
	tokens := jwt.NewManager("test-secret", time.Hour)
	return NewUserService(store.Users(), tokens), store, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store, tokens := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, user.RegisterRequest{Email: "user@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Positive(t, res.UserID)

	stored, err := store.Users().FindByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)

	_, err = svc.Register(ctx, user.RegisterRequest{Email: "user@x.com", Password: "secret1"})
	require.Error(t, err)
	appErr := apperr.Classify(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, apperr.CodeUserAlreadyExists, appErr.Code)

	login, err := svc.Login(ctx, user.LoginRequest{Email: "user@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.UserID, login.User.ID)
	assert.Equal(t, "user@x.com", login.User.Email)

	claims, err := tokens.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, claims.ID)
	assert.Equal(t, "user@x.com", claims.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Email: "user@x.com", Password: "secret1"})
	require.NoError(t, err)

	for _, req := range []user.LoginRequest{
		{Email: "user@x.com", Password: "wrong-password"},
		{Email: "nobody@x.com", Password: "secret1"},
	} {
		_, err := svc.Login(ctx, req)
		require.Error(t, err)
		appErr := apperr.Classify(err)
		assert.Equal(t, 401, appErr.Status)
		assert.Equal(t, apperr.CodeInvalidCredentials, appErr.Code)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Register(context.Background(), user.RegisterRequest{Email: "not-an-email", Password: "123"})
	require.Error(t, err)

	appErr := apperr.Classify(err)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	details, ok := appErr.Details.([]apperr.FieldError)
	require.True(t, ok)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.Equal(t, []string{"email", "password"}, fields)
}

func TestRegister_PasswordLimitIsBytes(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	// 40 runes, 80 bytes
	_, err := svc.Register(ctx, user.RegisterRequest{Email: "long@x.com", Password: strings.Repeat("é", 40)})
	require.Error(t, err)

	appErr := apperr.Classify(err)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, []apperr.FieldError{
		{Field: "password", Message: "password must be at most 72 bytes"},
	}, appErr.Details)

	// 36 runes, 72 bytes
	res, err := svc.Register(ctx, user.RegisterRequest{Email: "edge@x.com", Password: strings.Repeat("é", 36)})
	require.NoError(t, err)
	assert.Positive(t, res.UserID)
}

func TestListAndGetUser(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	ana := "Ana"
	for _, req := range []user.RegisterRequest{
		{Email: "ana@library.com", Password: "secret1", Name: &ana},
		{Email: "bob@example.com", Password: "secret1"},
	} {
		_, err := svc.Register(ctx, req)
		require.NoError(t, err)
	}

	page, err := svc.ListUsers(ctx, user.ListFilter{Email: "LIBRARY"}, pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "ana@library.com", page.Data[0].Email)
	assert.Equal(t, int64(1), page.Pagination.Total)

	page, err = svc.ListUsers(ctx, user.ListFilter{Name: "an"}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, page.Data, 1, "users without a name never match a name filter")

	got, err := svc.GetUser(ctx, page.Data[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@library.com", got.Email)

	_, err = svc.GetUser(ctx, 0)
	assert.ErrorIs(t, err, user.ErrInvalidID)

	_, err = svc.GetUser(ctx, 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
