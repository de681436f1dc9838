package geo

import (
	"errors"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/urmzd/gaposa/pkg/model"
)

// ErrNoSunEvent is returned at latitudes where the sun does not rise or set
// within a year of the reference time.
var ErrNoSunEvent = errors.New("no sun event within a year")

// NextSunrise returns the first sunrise at point strictly after t.
func NextSunrise(point model.GeoPoint, t time.Time) (time.Time, error) {
	return next(point, t, func(rise, _ time.Time) time.Time { return rise })
}

// NextSunset returns the first sunset at point strictly after t.
func NextSunset(point model.GeoPoint, t time.Time) (time.Time, error) {
	return next(point, t, func(_, set time.Time) time.Time { return set })
}

func next(point model.GeoPoint, t time.Time, pick func(rise, set time.Time) time.Time) (time.Time, error) {
	day := t.UTC().AddDate(0, 0, -1)
	for i := 0; i < 367; i++ {
		rise, set := sunrise.SunriseSunset(point.Latitude, point.Longitude, day.Year(), day.Month(), day.Day())
		if at := pick(rise, set); !at.IsZero() && at.After(t) {
			return at, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNoSunEvent
}
