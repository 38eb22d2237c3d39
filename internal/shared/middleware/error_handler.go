package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/response"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// With debug set, the raw error text is added to the envelope.
func ErrorHandler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperr.Classify(err)

		evt := log.Warn()
		if appErr.Kind == apperr.KindInternal {
			evt = log.Error().Err(err)
		}
		evt.
			Str("request_id", c.GetString(ContextKeyRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("code", appErr.Code).
			Msg(appErr.Message)

		var raw string
		if debug {
			raw = err.Error()
		}
		response.Error(c, appErr, raw)
	}
}

// NotFound answers unknown routes with ROUTE_NOT_FOUND.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c,
			apperr.NotFound(apperr.CodeRouteNotFound, "Route "+c.Request.Method+" "+c.Request.URL.Path+" not found"),
			"",
		)
	}
}
