package gaposa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urmzd/gaposa/pkg/backend"
	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
)

// Controller exposes an open session through device.Controller.
type Controller struct {
	g   *Gaposa
	now func() time.Time
}

var _ device.Controller = (*Controller)(nil)

// NewController wraps g. Closing the controller closes g.
func NewController(g *Gaposa) *Controller {
	return &Controller{g: g, now: time.Now}
}

func (c *Controller) ListDevices(ctx context.Context) ([]device.Device, error) {
	devices := c.g.Devices()
	out := make([]device.Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, deviceView(d))
	}
	return out, nil
}

func (c *Controller) GetDevice(ctx context.Context, serial string) (*device.Device, error) {
	d, err := c.device(serial)
	if err != nil {
		return nil, err
	}
	v := deviceView(d)
	return &v, nil
}

func (c *Controller) RefreshDevice(ctx context.Context, serial string) (*device.Device, error) {
	d, err := c.device(serial)
	if err != nil {
		return nil, err
	}
	if _, err := d.Refresh(ctx); err != nil {
		return nil, mapError(err)
	}
	if err := d.LastError(); err != nil {
		return nil, fmt.Errorf("%w: %w", device.ErrUpstream, err)
	}
	v := deviceView(d)
	return &v, nil
}

func (c *Controller) Command(ctx context.Context, serial string, target device.Target, id string, cmd model.Command) (*device.CommandResult, error) {
	d, err := c.device(serial)
	if err != nil {
		return nil, err
	}

	var (
		outcome poll.Outcome
		state   func() string
	)
	switch target {
	case device.TargetMotor:
		m := d.Motor(id)
		if m == nil {
			return nil, fmt.Errorf("%w: motor %s on %s", device.ErrNotFound, id, serial)
		}
		outcome, err = m.Command(ctx, cmd)
		state = m.State
	case device.TargetGroup:
		g := d.Group(id)
		if g == nil {
			return nil, fmt.Errorf("%w: group %s on %s", device.ErrNotFound, id, serial)
		}
		outcome, err = g.Command(ctx, cmd)
		state = func() string {
			if motors := g.Motors(); len(motors) > 0 {
				return motors[0].State()
			}
			return ""
		}
	default:
		return nil, fmt.Errorf("%w: unknown target %q", device.ErrValidation, target)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return &device.CommandResult{
		Serial:    serial,
		Target:    target,
		ID:        id,
		Command:   cmd.Name(),
		Expected:  model.ExpectedState(cmd),
		State:     state(),
		Confirmed: outcome == poll.Satisfied,
		Outcome:   outcome.String(),
		Timestamp: c.now(),
	}, nil
}

func (c *Controller) ListSchedules(ctx context.Context, serial string) ([]device.Schedule, error) {
	d, err := c.device(serial)
	if err != nil {
		return nil, err
	}
	schedules := d.Schedules()
	out := make([]device.Schedule, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, scheduleView(s))
	}
	return out, nil
}

func (c *Controller) AddSchedule(ctx context.Context, serial string, req device.ScheduleRequest) (*device.Schedule, error) {
	d, err := c.device(serial)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: schedule name required", device.ErrValidation)
	}

	props := model.ScheduleUpdate{
		Motors:   req.Motors,
		Groups:   req.Groups,
		Active:   req.Active,
		Location: req.Location,
	}
	if req.Icon != "" {
		props.Icon = &req.Icon
	}

	s, outcome, err := d.AddSchedule(ctx, req.Name, props)
	if err != nil {
		return nil, mapError(err)
	}
	if outcome != poll.Satisfied || s == nil {
		return nil, fmt.Errorf("%w: schedule %q not reported by hub", device.ErrTimeout, req.Name)
	}
	v := scheduleView(s)
	return &v, nil
}

func (c *Controller) DeleteSchedule(ctx context.Context, serial, id string) error {
	s, err := c.schedule(serial, id)
	if err != nil {
		return err
	}
	outcome, err := s.Delete(ctx)
	return confirm(outcome, err, "schedule %s still reported by hub", id)
}

func (c *Controller) SetScheduleActive(ctx context.Context, serial, id string, active bool) (*device.Schedule, error) {
	s, err := c.schedule(serial, id)
	if err != nil {
		return nil, err
	}
	outcome, err := s.SetActive(ctx, active)
	if err := confirm(outcome, err, "schedule %s active flag not updated", id); err != nil {
		return nil, err
	}
	return c.scheduleResult(serial, id)
}

func (c *Controller) SetScheduleEvent(ctx context.Context, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*device.Schedule, error) {
	if slot.Index() < 0 {
		return nil, fmt.Errorf("%w: unknown event slot %q", device.ErrValidation, slot)
	}
	s, err := c.schedule(serial, id)
	if err != nil {
		return nil, err
	}
	outcome, err := s.SetEvent(ctx, slot, event)
	if err := confirm(outcome, err, "schedule %s %s event not updated", id, slot); err != nil {
		return nil, err
	}
	return c.scheduleResult(serial, id)
}

func (c *Controller) DeleteScheduleEvent(ctx context.Context, serial, id string, slot model.EventSlot) (*device.Schedule, error) {
	if slot.Index() < 0 {
		return nil, fmt.Errorf("%w: unknown event slot %q", device.ErrValidation, slot)
	}
	s, err := c.schedule(serial, id)
	if err != nil {
		return nil, err
	}
	outcome, err := s.DeleteEvent(ctx, slot)
	if err := confirm(outcome, err, "schedule %s %s event still reported", id, slot); err != nil {
		return nil, err
	}
	return c.scheduleResult(serial, id)
}

func (c *Controller) IsConnected() bool {
	c.g.mu.RLock()
	defer c.g.mu.RUnlock()
	return !c.g.closed
}

func (c *Controller) Close() {
	_ = c.g.Close()
}

func (c *Controller) device(serial string) (*Device, error) {
	if !c.IsConnected() {
		return nil, device.ErrNotConnected
	}
	d := c.g.Device(serial)
	if d == nil {
		return nil, fmt.Errorf("%w: device %s", device.ErrNotFound, serial)
	}
	return d, nil
}

func (c *Controller) schedule(serial, id string) (*Schedule, error) {
	d, err := c.device(serial)
	if err != nil {
		return nil, err
	}
	s := d.Schedule(id)
	if s == nil {
		return nil, fmt.Errorf("%w: schedule %s on %s", device.ErrNotFound, id, serial)
	}
	return s, nil
}

func (c *Controller) scheduleResult(serial, id string) (*device.Schedule, error) {
	s, err := c.schedule(serial, id)
	if err != nil {
		return nil, err
	}
	v := scheduleView(s)
	return &v, nil
}

func confirm(outcome poll.Outcome, err error, format string, args ...any) error {
	if err != nil {
		return mapError(err)
	}
	if outcome != poll.Satisfied {
		return fmt.Errorf("%w: %s", device.ErrTimeout, fmt.Sprintf(format, args...))
	}
	return nil
}

// mapError translates library errors to the surface taxonomy, keeping the
// original in the chain.
func mapError(err error) error {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, ErrScheduleExists):
		return fmt.Errorf("%w: %w", device.ErrConflict, err)
	case errors.Is(err, ErrMotorNotFound):
		return fmt.Errorf("%w: %w", device.ErrNotFound, err)
	case errors.Is(err, poll.ErrClosed):
		return fmt.Errorf("%w: %w", device.ErrNotConnected, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", device.ErrTimeout, err)
	case errors.Is(err, backend.ErrBadRequest):
		return fmt.Errorf("%w: %w", device.ErrValidation, err)
	case errors.As(err, &apiErr), errors.Is(err, backend.ErrForbidden), errors.Is(err, backend.ErrServer):
		return fmt.Errorf("%w: %w", device.ErrUpstream, err)
	}
	return err
}

func deviceView(d *Device) device.Device {
	state := d.State()
	_, tz := d.Location()
	v := device.Device{
		Serial:      d.Serial(),
		Name:        d.Name(),
		Client:      d.Auth().Client,
		Online:      state.OnLine,
		LastCommand: state.LastCmd,
		TimeStamp:   state.TimeStamp,
		Software:    d.HeartBeat().Software,
		TimeZone:    tz,
		Motors:      []device.Motor{},
		Groups:      []device.Group{},
		Rooms:       []device.Room{},
		Schedules:   []device.Schedule{},
	}
	for _, m := range d.Motors() {
		ch := m.Channel()
		v.Motors = append(v.Motors, device.Motor{
			ID:         m.ID(),
			Name:       ch.Name,
			State:      ch.State,
			StatusCode: ch.StatusCode,
			Percent:    ch.HomePercent,
			Running:    ch.HomeRunning,
			Paused:     ch.HomePaused,
			Location:   ch.Location,
			Icon:       ch.Icon,
		})
	}
	for _, g := range d.Groups() {
		v.Groups = append(v.Groups, device.Group{
			ID:        g.ID(),
			Name:      g.Name(),
			Icon:      g.Icon(),
			Favourite: g.Favourite(),
			Motors:    motorIDs(g.Motors()),
		})
	}
	for _, r := range d.Rooms() {
		v.Rooms = append(v.Rooms, device.Room{
			ID:        r.ID(),
			Name:      r.Name(),
			Icon:      r.Icon(),
			Favourite: r.Favourite(),
			Motors:    motorIDs(r.Motors()),
		})
	}
	for _, s := range d.Schedules() {
		v.Schedules = append(v.Schedules, scheduleView(s))
	}
	return v
}

func scheduleView(s *Schedule) device.Schedule {
	info := s.Info()
	v := device.Schedule{
		ID:       s.ID(),
		Name:     info.Name,
		Icon:     info.Icon,
		Active:   info.Active,
		Motors:   motorIDs(s.Motors()),
		Groups:   info.Groups,
		Location: info.Location,
	}
	for i, ev := range s.Events() {
		if ev == nil {
			continue
		}
		if v.Events == nil {
			v.Events = make(map[model.EventSlot]*model.ScheduleEvent, 3)
		}
		v.Events[model.EventSlots[i]] = ev
	}
	if v.Groups == nil {
		v.Groups = []int{}
	}
	return v
}

func motorIDs(motors []*Motor) []string {
	ids := make([]string, 0, len(motors))
	for _, m := range motors {
		ids = append(ids, m.ID())
	}
	return ids
}
