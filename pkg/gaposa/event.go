package gaposa

import (
	"fmt"
	"time"

	"github.com/urmzd/gaposa/pkg/geo"
	"github.com/urmzd/gaposa/pkg/model"
)

// TimeOfDayEvent builds an event firing at offset past local midnight on the
// given days. EventEpoch carries the offset in seconds.
func (d *Device) TimeOfDayEvent(days model.EventRepeat, offset time.Duration, motors []int) model.ScheduleEvent {
	ev := d.baseEvent(days, motors)
	ev.EventMode.TimeDay = true
	ev.EventEpoch = int64(offset / time.Second)
	return ev
}

// SunriseEvent builds an event firing at sunrise. EventEpoch is the Unix
// time of the next sunrise at the hub's location after now.
func (d *Device) SunriseEvent(days model.EventRepeat, motors []int, now time.Time) (model.ScheduleEvent, error) {
	ev := d.baseEvent(days, motors)
	at, err := geo.NextSunrise(ev.Location, now)
	if err != nil {
		return ev, fmt.Errorf("computing sunrise: %w", err)
	}
	ev.EventMode.Sunrise = true
	ev.EventEpoch = at.Unix()
	return ev, nil
}

// SunsetEvent builds an event firing at sunset, like SunriseEvent.
func (d *Device) SunsetEvent(days model.EventRepeat, motors []int, now time.Time) (model.ScheduleEvent, error) {
	ev := d.baseEvent(days, motors)
	at, err := geo.NextSunset(ev.Location, now)
	if err != nil {
		return ev, fmt.Errorf("computing sunset: %w", err)
	}
	ev.EventMode.Sunset = true
	ev.EventEpoch = at.Unix()
	return ev, nil
}

func (d *Device) baseEvent(days model.EventRepeat, motors []int) model.ScheduleEvent {
	loc, tz := d.Location()
	if motors == nil {
		motors = []int{}
	}
	return model.ScheduleEvent{
		EventRepeat: days,
		TimeZone:    tz,
		Active:      true,
		Submit:      true,
		Location:    loc,
		Motors:      motors,
	}
}
