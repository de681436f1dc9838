package device

import (
	"context"

	"github.com/urmzd/gaposa/pkg/model"
)

// Controller is the surface the REST bridge, MCP server and CLI drive.
// Devices are addressed by hub serial; motors, groups and schedules by their
// id within the hub document.
type Controller interface {
	// ListDevices returns every hub of every client
	ListDevices(ctx context.Context) ([]Device, error)

	// GetDevice returns the last known state of one hub
	GetDevice(ctx context.Context, serial string) (*Device, error)

	// RefreshDevice fetches the hub document once and returns the result
	RefreshDevice(ctx context.Context, serial string) (*Device, error)

	// Command sends cmd to a motor or group and waits for it to settle
	Command(ctx context.Context, serial string, target Target, id string, cmd model.Command) (*CommandResult, error)

	// ListSchedules returns the hub's schedules with their events
	ListSchedules(ctx context.Context, serial string) ([]Schedule, error)

	// AddSchedule creates a schedule and waits until it appears
	AddSchedule(ctx context.Context, serial string, req ScheduleRequest) (*Schedule, error)

	// DeleteSchedule removes a schedule and waits until it is gone
	DeleteSchedule(ctx context.Context, serial, id string) error

	// SetScheduleActive enables or disables a schedule
	SetScheduleActive(ctx context.Context, serial, id string, active bool) (*Schedule, error)

	// SetScheduleEvent writes one event slot of a schedule
	SetScheduleEvent(ctx context.Context, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*Schedule, error)

	// DeleteScheduleEvent clears one event slot of a schedule
	DeleteScheduleEvent(ctx context.Context, serial, id string, slot model.EventSlot) (*Schedule, error)

	// IsConnected returns true once the account is signed in
	IsConnected() bool

	// Close stops background polling
	Close()
}
