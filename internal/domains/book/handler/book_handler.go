package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/request"
	"library-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{service: s}
}

// ListBooks godoc
// GET /api/v1/books?page=1&limit=10&title=&genre=&authorId=
func (h *Handler) ListBooks(c *gin.Context) {
	filter := model.NewListFilter(c.Query("title"), c.Query("genre"), c.Query("authorId"))

	page, err := h.service.ListBooks(c.Request.Context(), filter, request.Page(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, page)
}

// GetBookDetail godoc
// GET /api/v1/books/:id
func (h *Handler) GetBookDetail(c *gin.Context) {
	id, err := request.ParamID(c, "id", model.ErrInvalidID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	book, err := h.service.GetBookDetail(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "", book)
}

// CreateBook godoc
// POST /api/v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := request.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// UpdateBook godoc
// PUT /api/v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, err := request.ParamID(c, "id", model.ErrInvalidID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdateBookRequest
	if err := request.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook godoc
// DELETE /api/v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, err := request.ParamID(c, "id", model.ErrInvalidID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}
