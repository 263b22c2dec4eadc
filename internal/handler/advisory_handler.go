package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ids-upch/advisory-api/internal/service"
	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
	"github.com/ids-upch/advisory-api/pkg/response"
)

// AdvisoryHandler exposes advisory lifecycle endpoints.
type AdvisoryHandler struct {
	advisories *service.AdvisoryService
}

// NewAdvisoryHandler constructs handler.
func NewAdvisoryHandler(advisories *service.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{advisories: advisories}
}

// ListByStudent godoc
// @Summary List a student's advisory requests
// @Tags Advisories
// @Produce json
// @Param id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Router /advisories/student/{id} [get]
func (h *AdvisoryHandler) ListByStudent(c *gin.Context) {
	views, err := h.advisories.ListForStudent(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// ListByProfessor godoc
// @Summary List the advisories addressed to a professor
// @Tags Advisories
// @Produce json
// @Param id path string true "Professor id"
// @Success 200 {object} response.Envelope
// @Router /advisories/professor/{id} [get]
func (h *AdvisoryHandler) ListByProfessor(c *gin.Context) {
	views, err := h.advisories.ListForProfessor(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// History godoc
// @Summary Full advisory history for director review
// @Tags Advisories
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /advisories/history/director [get]
func (h *AdvisoryHandler) History(c *gin.Context) {
	views, err := h.advisories.History(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Create godoc
// @Summary File a new advisory request
// @Tags Advisories
// @Accept json
// @Produce json
// @Param payload body service.CreateAdvisoryRequest true "Advisory payload"
// @Success 201 {object} response.Envelope
// @Router /advisories [post]
func (h *AdvisoryHandler) Create(c *gin.Context) {
	var req service.CreateAdvisoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.advisories.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// RegisterCompleted godoc
// @Summary Record an already-delivered advisory session
// @Tags Advisories
// @Accept json
// @Produce json
// @Param payload body service.ManualAdvisoryRequest true "Manual advisory payload"
// @Success 201 {object} response.Envelope
// @Router /advisories/manual [post]
func (h *AdvisoryHandler) RegisterCompleted(c *gin.Context) {
	var req service.ManualAdvisoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.advisories.RegisterCompleted(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// UpdateStatus godoc
// @Summary Apply a lifecycle transition to an advisory
// @Tags Advisories
// @Accept json
// @Produce json
// @Param id path string true "Advisory id"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 200 {object} response.Envelope
// @Router /advisories/{id}/status [put]
func (h *AdvisoryHandler) UpdateStatus(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.advisories.Transition(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
