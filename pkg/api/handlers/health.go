package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/gaposa/pkg/api/types"
	"github.com/urmzd/gaposa/pkg/device"
)

// HealthHandler reports whether the account is signed in
type HealthHandler struct {
	controller device.Controller
	now        func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller device.Controller) *HealthHandler {
	return &HealthHandler{controller: controller, now: time.Now}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the cloud session
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Not signed in"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, controller, code := "healthy", "connected", http.StatusOK
	if !h.controller.IsConnected() {
		status, controller, code = "degraded", "disconnected", http.StatusServiceUnavailable
	}

	c.JSON(code, types.HealthResponse{
		Status:     status,
		Controller: controller,
		Timestamp:  h.now(),
	})
}
