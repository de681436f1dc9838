package types

import (
	"time"

	"github.com/urmzd/gaposa/pkg/device"
)

// --- Request DTOs ---

// SetActiveRequest is the request body for PATCH /devices/:serial/schedules/:id
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status     string    `json:"status"`
	Controller string    `json:"controller"`
	Timestamp  time.Time `json:"timestamp"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Devices []device.Device `json:"devices"`
	Count   int             `json:"count"`
}

// DeviceResponse is returned from GET /devices/:serial
type DeviceResponse struct {
	Device device.Device `json:"device"`
}

// CommandResponse is returned from the motor and group command endpoints
type CommandResponse struct {
	Result device.CommandResult `json:"result"`
}

// ListSchedulesResponse is returned from GET /devices/:serial/schedules
type ListSchedulesResponse struct {
	Schedules []device.Schedule `json:"schedules"`
	Count     int               `json:"count"`
}

// ScheduleResponse is returned by the schedule mutation endpoints
type ScheduleResponse struct {
	Schedule device.Schedule `json:"schedule"`
}

// DeletedResponse is returned from DELETE /devices/:serial/schedules/:id
type DeletedResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}
