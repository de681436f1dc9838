package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/gaposa/pkg/api/types"
	"github.com/urmzd/gaposa/pkg/device"
)

// DevicesHandler serves hub state
type DevicesHandler struct {
	controller device.Controller
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(controller device.Controller) *DevicesHandler {
	return &DevicesHandler{controller: controller}
}

// ListDevices handles GET /devices
// @Summary      List hubs
// @Description  Returns every hub of every client with its motors, groups, rooms and schedules
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Failure      503  {object}  types.ErrorResponse  "Not signed in"
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	devices, err := h.controller.ListDevices(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if devices == nil {
		devices = []device.Device{}
	}
	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Devices: devices,
		Count:   len(devices),
	})
}

// GetDevice handles GET /devices/:serial
// @Summary      Get hub
// @Description  Returns the last fetched state of one hub
// @Tags         devices
// @Produce      json
// @Param        serial  path      string  true  "Hub serial"
// @Success      200     {object}  types.DeviceResponse
// @Failure      404     {object}  types.ErrorResponse  "Hub not found"
// @Router       /devices/{serial} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	d, err := h.controller.GetDevice(c.Request.Context(), c.Param("serial"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DeviceResponse{Device: *d})
}

// RefreshDevice handles POST /devices/:serial/refresh
// @Summary      Refresh hub
// @Description  Fetches the hub document once and returns the updated state
// @Tags         devices
// @Produce      json
// @Param        serial  path      string  true  "Hub serial"
// @Success      200     {object}  types.DeviceResponse
// @Failure      404     {object}  types.ErrorResponse  "Hub not found"
// @Failure      502     {object}  types.ErrorResponse  "Fetch failed"
// @Router       /devices/{serial}/refresh [post]
func (h *DevicesHandler) RefreshDevice(c *gin.Context) {
	d, err := h.controller.RefreshDevice(c.Request.Context(), c.Param("serial"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DeviceResponse{Device: *d})
}
