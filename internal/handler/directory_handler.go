package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ids-upch/advisory-api/internal/service"
	"github.com/ids-upch/advisory-api/pkg/response"
)

// DirectoryHandler exposes the synchronized professor directory.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// List godoc
// @Summary List the synchronized professor directory
// @Tags Professors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /professors [get]
func (h *DirectoryHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.directory.List(), nil)
}
