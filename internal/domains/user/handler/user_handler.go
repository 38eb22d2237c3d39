package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/request"
	"library-backend/internal/shared/response"
)

// UserHandler serves /auth and /users.
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

type registerBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	user.RegisterResponse
}

type loginBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	user.LoginResponse
}

// Register godoc
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := request.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.JSON(c, http.StatusCreated, registerBody{
		Success:          true,
		Message:          "User created successfully",
		RegisterResponse: *res,
	})
}

// Login godoc
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := request.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, loginBody{
		Success:       true,
		Message:       "Login successful",
		LoginResponse: *res,
	})
}

// ListUsers godoc
// GET /api/v1/users?page=1&limit=10&email=&name=
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := user.ListFilter{
		Email: c.Query("email"),
		Name:  c.Query("name"),
	}

	page, err := h.service.ListUsers(c.Request.Context(), filter, request.Page(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, page)
}

// GetUser godoc
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := request.ParamID(c, "id", user.ErrInvalidID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "", u)
}
