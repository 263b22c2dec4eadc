package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ids-upch/advisory-api/internal/service"
	"github.com/ids-upch/advisory-api/pkg/response"
)

// ExportHandler streams director history exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// History godoc
// @Summary Export the advisory history as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /advisories/history/export [get]
func (h *ExportHandler) History(c *gin.Context) {
	file, err := h.exports.RenderHistory(c.Request.Context(), claimsFromContext(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
