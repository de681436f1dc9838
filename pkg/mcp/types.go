package mcp

import "github.com/urmzd/gaposa/pkg/device"

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status     string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Controller string `json:"controller" jsonschema:"description=Cloud session status"`
	Timestamp  string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	Devices []device.Device `json:"devices" jsonschema:"description=Hubs of every client"`
	Count   int             `json:"count" jsonschema:"description=Total number of hubs"`
}

// DeviceOutput is the output for the get_device and refresh_device tools
type DeviceOutput struct {
	Device device.Device `json:"device" jsonschema:"description=Hub state"`
}

// CommandOutput is the output for the control_motor and control_group tools
type CommandOutput struct {
	Result  device.CommandResult `json:"result" jsonschema:"description=Command and confirmation outcome"`
	Message string               `json:"message" jsonschema:"description=Human readable summary"`
}

// ListSchedulesOutput is the output for the list_schedules tool
type ListSchedulesOutput struct {
	Schedules []device.Schedule `json:"schedules" jsonschema:"description=Schedules of the hub"`
	Count     int               `json:"count" jsonschema:"description=Total number of schedules"`
}

// ScheduleOutput is the output for the schedule mutation tools
type ScheduleOutput struct {
	Schedule device.Schedule `json:"schedule" jsonschema:"description=Schedule after the change"`
}

// DeleteScheduleOutput is the output for the delete_schedule tool
type DeleteScheduleOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the schedule is gone"`
	Message string `json:"message" jsonschema:"description=Status message"`
}
