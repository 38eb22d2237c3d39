// Package request holds the small parsing helpers shared by the handlers.
package request

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/pagination"
)

// ParamID parses the numeric path parameter key. Anything but a positive
// integer yields invalid.
func ParamID(c *gin.Context, key string, invalid *apperr.AppError) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

// BindJSON decodes the body into dst. Decode errors are left to the error
// middleware, which reports them as INVALID_REQUEST_BODY.
func BindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return apperr.Validation(apperr.CodeInvalidRequestBody, "Request body is required", nil)
	}
	return c.ShouldBindJSON(dst)
}

// Page reads ?page and ?limit.
func Page(c *gin.Context) pagination.Params {
	return pagination.FromQuery(c.Query("page"), c.Query("limit"))
}
