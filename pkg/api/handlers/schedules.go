package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/gaposa/pkg/api/types"
	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/schema"
)

// SchedulesHandler manages hub schedules and their events
type SchedulesHandler struct {
	controller device.Controller
	validator  *schema.Validator
}

// NewSchedulesHandler creates a new schedules handler
func NewSchedulesHandler(controller device.Controller, validator *schema.Validator) *SchedulesHandler {
	return &SchedulesHandler{controller: controller, validator: validator}
}

// ListSchedules handles GET /devices/:serial/schedules
// @Summary      List schedules
// @Tags         schedules
// @Produce      json
// @Param        serial  path      string  true  "Hub serial"
// @Success      200     {object}  types.ListSchedulesResponse
// @Failure      404     {object}  types.ErrorResponse  "Hub not found"
// @Router       /devices/{serial}/schedules [get]
func (h *SchedulesHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.controller.ListSchedules(c.Request.Context(), c.Param("serial"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if schedules == nil {
		schedules = []device.Schedule{}
	}
	c.JSON(http.StatusOK, types.ListSchedulesResponse{
		Schedules: schedules,
		Count:     len(schedules),
	})
}

// AddSchedule handles POST /devices/:serial/schedules
// @Summary      Add schedule
// @Description  Creates a schedule and waits until the hub document lists it. Names must be unique per hub.
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        serial   path      string                  true  "Hub serial"
// @Param        request  body      device.ScheduleRequest  true  "Schedule"
// @Success      201      {object}  types.ScheduleResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Name already used"
// @Failure      504      {object}  types.ErrorResponse  "Not confirmed"
// @Router       /devices/{serial}/schedules [post]
func (h *SchedulesHandler) AddSchedule(c *gin.Context) {
	var req device.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	s, err := h.controller.AddSchedule(c.Request.Context(), c.Param("serial"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.ScheduleResponse{Schedule: *s})
}

// DeleteSchedule handles DELETE /devices/:serial/schedules/:id
// @Summary      Delete schedule
// @Tags         schedules
// @Produce      json
// @Param        serial  path      string  true  "Hub serial"
// @Param        id      path      string  true  "Schedule id"
// @Success      200     {object}  types.DeletedResponse
// @Failure      404     {object}  types.ErrorResponse  "Schedule not found"
// @Router       /devices/{serial}/schedules/{id} [delete]
func (h *SchedulesHandler) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")
	if err := h.controller.DeleteSchedule(c.Request.Context(), c.Param("serial"), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DeletedResponse{Status: "deleted", ID: id})
}

// SetActive handles PATCH /devices/:serial/schedules/:id
// @Summary      Enable or disable a schedule
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        serial   path      string                  true  "Hub serial"
// @Param        id       path      string                  true  "Schedule id"
// @Param        request  body      types.SetActiveRequest  true  "Active flag"
// @Success      200      {object}  types.ScheduleResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Schedule not found"
// @Router       /devices/{serial}/schedules/{id} [patch]
func (h *SchedulesHandler) SetActive(c *gin.Context) {
	var req types.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	s, err := h.controller.SetScheduleActive(c.Request.Context(), c.Param("serial"), c.Param("id"), *req.Active)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ScheduleResponse{Schedule: *s})
}

// SetEvent handles PUT /devices/:serial/schedules/:id/events/:slot
// @Summary      Set schedule event
// @Description  Writes the UP, DOWN or PRESET event of a schedule. The body is validated against the event document schema.
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        serial   path      string               true  "Hub serial"
// @Param        id       path      string               true  "Schedule id"
// @Param        slot     path      string               true  "UP, DOWN or PRESET"
// @Param        request  body      model.ScheduleEvent  true  "Event"
// @Success      200      {object}  types.ScheduleResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid event"
// @Failure      404      {object}  types.ErrorResponse  "Schedule not found"
// @Router       /devices/{serial}/schedules/{id}/events/{slot} [put]
func (h *SchedulesHandler) SetEvent(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validator.ValidateJSON(schema.ScheduleEvent, raw); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}
	var event model.ScheduleEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		badRequest(c, err.Error())
		return
	}

	s, err := h.controller.SetScheduleEvent(c.Request.Context(), c.Param("serial"), c.Param("id"), slotParam(c), event)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ScheduleResponse{Schedule: *s})
}

// DeleteEvent handles DELETE /devices/:serial/schedules/:id/events/:slot
// @Summary      Delete schedule event
// @Tags         schedules
// @Produce      json
// @Param        serial  path      string  true  "Hub serial"
// @Param        id      path      string  true  "Schedule id"
// @Param        slot    path      string  true  "UP, DOWN or PRESET"
// @Success      200     {object}  types.ScheduleResponse
// @Failure      404     {object}  types.ErrorResponse  "Schedule not found"
// @Router       /devices/{serial}/schedules/{id}/events/{slot} [delete]
func (h *SchedulesHandler) DeleteEvent(c *gin.Context) {
	s, err := h.controller.DeleteScheduleEvent(c.Request.Context(), c.Param("serial"), c.Param("id"), slotParam(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ScheduleResponse{Schedule: *s})
}

func slotParam(c *gin.Context) model.EventSlot {
	return model.EventSlot(strings.ToUpper(c.Param("slot")))
}
