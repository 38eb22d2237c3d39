package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/export/service"
	"library-backend/internal/shared/apperr"
)

// WorkbookBuilder is satisfied by *service.ExportService.
type WorkbookBuilder interface {
	BuildWorkbook(ctx context.Context) (*excelize.File, error)
	Filename() string
}

type ExportHandler struct {
	service WorkbookBuilder
}

func NewExportHandler(s WorkbookBuilder) *ExportHandler {
	return &ExportHandler{service: s}
}

// Export godoc
// GET /api/v1/export
func (h *ExportHandler) Export(c *gin.Context) {
	f, err := h.service.BuildWorkbook(c.Request.Context())
	if err != nil {
		_ = c.Error(apperr.Internal(apperr.CodeExportFailed, "Error generating export file", err))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		_ = c.Error(apperr.Internal(apperr.CodeExportFailed, "Error generating export file", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.service.Filename()))
	c.Data(http.StatusOK, service.ContentType, buf.Bytes())
}
