package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/gaposa/pkg/api/types"
	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/model"
)

// ControlHandler sends motor and group commands
type ControlHandler struct {
	controller device.Controller
}

// NewControlHandler creates a new control handler
func NewControlHandler(controller device.Controller) *ControlHandler {
	return &ControlHandler{controller: controller}
}

// Motor handles POST /devices/:serial/motors/:id/:command
// @Summary      Command a motor
// @Description  Sends up, down, stop or preset to one motor and waits until the hub reports the expected state. A 200 with confirmed=false means the hub never reported it.
// @Tags         control
// @Produce      json
// @Param        serial   path      string  true  "Hub serial"
// @Param        id       path      string  true  "Motor (channel) id"
// @Param        command  path      string  true  "up, down, stop or preset"
// @Success      200      {object}  types.CommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Unknown command"
// @Failure      404      {object}  types.ErrorResponse  "Hub or motor not found"
// @Failure      502      {object}  types.ErrorResponse  "Command rejected"
// @Router       /devices/{serial}/motors/{id}/{command} [post]
func (h *ControlHandler) Motor(c *gin.Context) {
	h.command(c, device.TargetMotor)
}

// Group handles POST /devices/:serial/groups/:id/:command
// @Summary      Command a group
// @Description  Sends up, down, stop or preset to a group and waits until its first motor reports the expected state
// @Tags         control
// @Produce      json
// @Param        serial   path      string  true  "Hub serial"
// @Param        id       path      string  true  "Group id"
// @Param        command  path      string  true  "up, down, stop or preset"
// @Success      200      {object}  types.CommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Unknown command"
// @Failure      404      {object}  types.ErrorResponse  "Hub or group not found"
// @Failure      502      {object}  types.ErrorResponse  "Command rejected"
// @Router       /devices/{serial}/groups/{id}/{command} [post]
func (h *ControlHandler) Group(c *gin.Context) {
	h.command(c, device.TargetGroup)
}

func (h *ControlHandler) command(c *gin.Context, target device.Target) {
	cmd, err := model.ParseCommand(c.Param("command"))
	if err != nil {
		badRequest(c, fmt.Sprintf("unknown command %q, want up, down, stop or preset", c.Param("command")))
		return
	}

	res, err := h.controller.Command(c.Request.Context(), c.Param("serial"), target, c.Param("id"), cmd)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.CommandResponse{Result: *res})
}
