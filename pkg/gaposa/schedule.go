package gaposa

import (
	"context"
	"fmt"
	"slices"

	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
)

// Schedule is a named automation with up to three events (UP, DOWN and
// PRESET).
type Schedule struct {
	device *Device
	id     string
	info   model.Schedule
	events [3]*model.ScheduleEvent
}

func (s *Schedule) set(info model.Schedule) { s.info = info }

func (s *Schedule) ID() string { return s.id }

func (s *Schedule) Device() *Device { return s.device }

// Info returns a copy of the schedule's document entry.
func (s *Schedule) Info() model.Schedule {
	s.device.mu.RLock()
	defer s.device.mu.RUnlock()
	info := s.info
	info.ID = s.id
	info.Groups = slices.Clone(s.info.Groups)
	info.Motors = slices.Clone(s.info.Motors)
	return info
}

func (s *Schedule) Name() string             { return s.Info().Name }
func (s *Schedule) Icon() string             { return s.Info().Icon }
func (s *Schedule) Active() bool             { return s.Info().Active }
func (s *Schedule) Groups() []int            { return s.Info().Groups }
func (s *Schedule) MotorIDs() []int          { return s.Info().Motors }
func (s *Schedule) Location() model.GeoPoint { return s.Info().Location }

// Motors returns the scheduled motors that exist on the hub.
func (s *Schedule) Motors() []*Motor {
	s.device.mu.RLock()
	defer s.device.mu.RUnlock()
	return s.device.motorsLocked(s.info.Motors)
}

// Events returns the UP, DOWN and PRESET events; unset slots are nil.
func (s *Schedule) Events() [3]*model.ScheduleEvent {
	s.device.mu.RLock()
	defer s.device.mu.RUnlock()
	var out [3]*model.ScheduleEvent
	for i, ev := range s.events {
		if ev != nil {
			c := *ev
			out[i] = &c
		}
	}
	return out
}

// Event returns the event in slot, or nil.
func (s *Schedule) Event(slot model.EventSlot) *model.ScheduleEvent {
	i := slot.Index()
	if i < 0 {
		return nil
	}
	return s.Events()[i]
}

// SetActive enables or disables the schedule.
func (s *Schedule) SetActive(ctx context.Context, active bool) (poll.Outcome, error) {
	return s.Update(ctx, model.ScheduleUpdate{Active: &active})
}

// Update changes the fields set in u and waits until the hub reports them.
func (s *Schedule) Update(ctx context.Context, u model.ScheduleUpdate) (poll.Outcome, error) {
	u.ID = s.id
	d := s.device
	return d.command(ctx,
		func(ctx context.Context) error {
			if _, err := d.api.UpdateSchedule(ctx, d.auth, d.serial, u); err != nil {
				return fmt.Errorf("updating schedule %s: %w", s.id, err)
			}
			return nil
		},
		func() bool {
			current := d.Schedule(s.id)
			return current != nil && matches(current.Info(), u)
		},
	)
}

// Delete removes the schedule and waits until it is gone.
func (s *Schedule) Delete(ctx context.Context) (poll.Outcome, error) {
	d := s.device
	return d.command(ctx,
		func(ctx context.Context) error {
			if _, err := d.api.DeleteSchedule(ctx, d.auth, d.serial, s.id); err != nil {
				return fmt.Errorf("deleting schedule %s: %w", s.id, err)
			}
			return nil
		},
		func() bool { return !d.HasSchedule(s.id) },
	)
}

// SetEvent writes the event in slot and waits until the hub reports it.
func (s *Schedule) SetEvent(ctx context.Context, slot model.EventSlot, event model.ScheduleEvent) (poll.Outcome, error) {
	if slot.Index() < 0 {
		return poll.Abandoned, fmt.Errorf("unknown event slot %q", slot)
	}
	d := s.device
	return d.command(ctx,
		func(ctx context.Context) error {
			if _, err := d.api.AddScheduleEvent(ctx, d.auth, d.serial, s.id, slot, event); err != nil {
				return fmt.Errorf("setting %s event of schedule %s: %w", slot, s.id, err)
			}
			return nil
		},
		func() bool {
			current := s.currentEvent(slot)
			return current != nil && eventEqual(*current, event)
		},
	)
}

// DeleteEvent clears slot and waits until the hub reports it empty.
func (s *Schedule) DeleteEvent(ctx context.Context, slot model.EventSlot) (poll.Outcome, error) {
	if slot.Index() < 0 {
		return poll.Abandoned, fmt.Errorf("unknown event slot %q", slot)
	}
	d := s.device
	return d.command(ctx,
		func(ctx context.Context) error {
			if _, err := d.api.DeleteScheduleEvent(ctx, d.auth, d.serial, s.id, slot); err != nil {
				return fmt.Errorf("deleting %s event of schedule %s: %w", slot, s.id, err)
			}
			return nil
		},
		func() bool { return s.currentEvent(slot) == nil },
	)
}

// currentEvent reads slot from the schedule with this id in the latest
// snapshot, which may be a different entity if the schedule was recreated.
func (s *Schedule) currentEvent(slot model.EventSlot) *model.ScheduleEvent {
	current := s.device.Schedule(s.id)
	if current == nil {
		return nil
	}
	return current.Event(slot)
}

func matches(info model.Schedule, u model.ScheduleUpdate) bool {
	switch {
	case u.Name != nil && info.Name != *u.Name:
		return false
	case u.Icon != nil && info.Icon != *u.Icon:
		return false
	case u.Active != nil && info.Active != *u.Active:
		return false
	case u.Location != nil && info.Location != *u.Location:
		return false
	case u.Groups != nil && !slices.Equal(info.Groups, u.Groups):
		return false
	case u.Motors != nil && !slices.Equal(info.Motors, u.Motors):
		return false
	}
	return true
}

func eventEqual(a, b model.ScheduleEvent) bool {
	return a.EventRepeat == b.EventRepeat &&
		a.TimeZone == b.TimeZone &&
		a.Active == b.Active &&
		a.FutureEvent == b.FutureEvent &&
		a.Submit == b.Submit &&
		a.EventEpoch == b.EventEpoch &&
		a.Location == b.Location &&
		a.EventMode == b.EventMode &&
		slices.Equal(a.Motors, b.Motors)
}
