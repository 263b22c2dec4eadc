package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ids-upch/advisory-api/internal/service"
	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
	"github.com/ids-upch/advisory-api/pkg/response"
)

// ScheduleHandler exposes weekly schedule and availability endpoints.
type ScheduleHandler struct {
	schedules    *service.ScheduleService
	availability *service.AvailabilityService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService, availability *service.AvailabilityService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, availability: availability}
}

// ListMine godoc
// @Summary List a professor's weekly template
// @Tags Schedules
// @Produce json
// @Param professorId query string true "Professor id"
// @Success 200 {object} response.Envelope
// @Router /schedules/my-schedules [get]
func (h *ScheduleHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	professorID := c.Query("professorId")
	if professorID == "" && claims != nil {
		professorID = claims.SubjectID
	}
	slots, err := h.schedules.ListMine(c.Request.Context(), claims, professorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Create godoc
// @Summary Add a slot to the weekly template
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.schedules.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// SetAvailability godoc
// @Summary Toggle a slot's enabled flag
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Slot id"
// @Param payload body object true "Availability payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/availability [put]
func (h *ScheduleHandler) SetAvailability(c *gin.Context) {
	var req struct {
		IsAvailable *bool `json:"isAvailable" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.schedules.SetAvailability(c.Request.Context(), claimsFromContext(c), c.Param("id"), *req.IsAvailable)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Remove a slot from the weekly template
// @Tags Schedules
// @Produce json
// @Param id path string true "Slot id"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Available godoc
// @Summary Resolve bookable slots for a professor on a date
// @Tags Schedules
// @Produce json
// @Param professorId path string true "Professor id"
// @Param date path string true "Date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /schedules/available/{professorId}/{date} [get]
func (h *ScheduleHandler) Available(c *gin.Context) {
	slots := h.availability.Resolve(c.Request.Context(), c.Param("professorId"), c.Param("date"))
	response.JSON(c, http.StatusOK, slots, nil)
}
