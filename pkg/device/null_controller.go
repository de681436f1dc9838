package device

import (
	"context"

	"github.com/urmzd/gaposa/pkg/model"
)

// NullController is a no-op controller used when sign-in fails.
// It allows the surfaces to run in limited mode and report the outage.
type NullController struct{}

// NewNullController creates a new NullController.
func NewNullController() *NullController {
	return &NullController{}
}

func (c *NullController) ListDevices(ctx context.Context) ([]Device, error) {
	return []Device{}, nil
}

func (c *NullController) GetDevice(ctx context.Context, serial string) (*Device, error) {
	return nil, ErrNotFound
}

func (c *NullController) RefreshDevice(ctx context.Context, serial string) (*Device, error) {
	return nil, ErrNotConnected
}

func (c *NullController) Command(ctx context.Context, serial string, target Target, id string, cmd model.Command) (*CommandResult, error) {
	return nil, ErrNotConnected
}

func (c *NullController) ListSchedules(ctx context.Context, serial string) ([]Schedule, error) {
	return nil, ErrNotConnected
}

func (c *NullController) AddSchedule(ctx context.Context, serial string, req ScheduleRequest) (*Schedule, error) {
	return nil, ErrNotConnected
}

func (c *NullController) DeleteSchedule(ctx context.Context, serial, id string) error {
	return ErrNotConnected
}

func (c *NullController) SetScheduleActive(ctx context.Context, serial, id string, active bool) (*Schedule, error) {
	return nil, ErrNotConnected
}

func (c *NullController) SetScheduleEvent(ctx context.Context, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*Schedule, error) {
	return nil, ErrNotConnected
}

func (c *NullController) DeleteScheduleEvent(ctx context.Context, serial, id string, slot model.EventSlot) (*Schedule, error) {
	return nil, ErrNotConnected
}

func (c *NullController) IsConnected() bool {
	return false
}

func (c *NullController) Close() {}
