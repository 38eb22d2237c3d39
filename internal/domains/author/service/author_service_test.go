package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/pagination"
	"library-backend/internal/testutil/memstore"
)

func strPtr(s string) *string { return &s }

func TestCreate_ValidatesName(t *testing.T) {
	svc := NewAuthorService(memstore.New().Authors())

	_, err := svc.Create(context.Background(), author.CreateAuthorRequest{Name: ""})
	require.Error(t, err)
	appErr := apperr.Classify(err)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, 400, appErr.Status)

	created, err := svc.Create(context.Background(), author.CreateAuthorRequest{
		Name:        "Isabel Allende",
		Nationality: strPtr("Chilean"),
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, 0, created.BookCount)
	assert.Empty(t, created.Books)
}

func TestGetByID(t *testing.T) {
	store := memstore.New()
	svc := NewAuthorService(store.Authors())
	ctx := context.Background()

	a, err := svc.Create(ctx, author.CreateAuthorRequest{Name: "Borges"})
	require.NoError(t, err)
	_, err = store.Books().Create(ctx, model.CreateBookRequest{Title: "Ficciones", AuthorID: a.ID})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Ficciones", got.Books[0].Title)

	_, err = svc.GetByID(ctx, 0)
	assert.ErrorIs(t, err, author.ErrInvalidID)

	_, err = svc.GetByID(ctx, 404)
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
}

func TestUpdate_PartialAndChecksExistenceFirst(t *testing.T) {
	svc := NewAuthorService(memstore.New().Authors())
	ctx := context.Background()

	a, err := svc.Create(ctx, author.CreateAuthorRequest{Name: "Borges", Nationality: strPtr("Argentine")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, author.UpdateAuthorRequest{Name: strPtr("Jorge Luis Borges")})
	require.NoError(t, err)
	assert.Equal(t, "Jorge Luis Borges", updated.Name)
	require.NotNil(t, updated.Nationality)
	assert.Equal(t, "Argentine", *updated.Nationality)

	// An invalid body on a missing author reports the missing author.
	_, err = svc.Update(ctx, 999, author.UpdateAuthorRequest{Name: strPtr("")})
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)

	_, err = svc.Update(ctx, a.ID, author.UpdateAuthorRequest{Name: strPtr("")})
	assert.Equal(t, apperr.CodeValidation, apperr.Classify(err).Code)
}

func TestDelete_RefusesAuthorWithBooks(t *testing.T) {
	store := memstore.New()
	svc := NewAuthorService(store.Authors())
	ctx := context.Background()

	a, err := svc.Create(ctx, author.CreateAuthorRequest{Name: "Borges"})
	require.NoError(t, err)
	for _, title := range []string{"Ficciones", "El Aleph"} {
		_, err := store.Books().Create(ctx, model.CreateBookRequest{Title: title, AuthorID: a.ID})
		require.NoError(t, err)
	}

	err = svc.Delete(ctx, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, author.ErrAuthorHasBooks))

	appErr := apperr.Classify(err)
	assert.Equal(t, apperr.KindBusinessRule, appErr.Kind)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Cannot delete author with associated books. Books count: 2", appErr.Message)

	exists, err := store.Authors().Exists(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDelete(t *testing.T) {
	store := memstore.New()
	svc := NewAuthorService(store.Authors())
	ctx := context.Background()

	a, err := svc.Create(ctx, author.CreateAuthorRequest{Name: "Nobody"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), author.ErrAuthorNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, -1), author.ErrInvalidID)
}

func TestList_FiltersAndMeta(t *testing.T) {
	svc := NewAuthorService(memstore.New().Authors())
	ctx := context.Background()

	for _, req := range []author.CreateAuthorRequest{
		{Name: "Gabriel García Márquez", Nationality: strPtr("Colombian")},
		{Name: "Isabel Allende", Nationality: strPtr("Chilean")},
		{Name: "Jorge Luis Borges", Nationality: strPtr("Argentine")},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, author.ListFilter{}, pagination.New(2, 2))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Gabriel García Márquez", page.Data[0].Name, "oldest is last")
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 3, TotalPages: 2, HasNext: false, HasPrev: true}, page.Pagination)

	page, err = svc.List(ctx, author.ListFilter{Nationality: "  CHIL "}, pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Isabel Allende", page.Data[0].Name)

	page, err = svc.List(ctx, author.ListFilter{Name: "   "}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total, "blank filter is ignored")
}

func TestRecalculateBookCount(t *testing.T) {
	store := memstore.New()
	svc := NewAuthorService(store.Authors())
	ctx := context.Background()

	a, err := svc.Create(ctx, author.CreateAuthorRequest{Name: "Borges"})
	require.NoError(t, err)
	_, err = store.Books().Create(ctx, model.CreateBookRequest{Title: "Ficciones", AuthorID: a.ID})
	require.NoError(t, err)

	n, err := svc.RecalculateBookCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Running it again changes nothing.
	n, err = svc.RecalculateBookCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.BookCount)

	_, err = svc.RecalculateBookCount(ctx, 999)
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
}
