package device

import (
	"fmt"
	"strings"
	"time"

	"github.com/urmzd/gaposa/pkg/model"
)

// Target selects what a command addresses.
type Target string

const (
	TargetMotor Target = "motor"
	TargetGroup Target = "group"
)

// ParseTarget accepts "motor", "channel" or "group".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "motor", "motors", "channel", "channels":
		return TargetMotor, nil
	case "group", "groups":
		return TargetGroup, nil
	}
	return "", fmt.Errorf("%w: unknown target %q", ErrValidation, s)
}

// Device is a hub with its derived entities
type Device struct {
	Serial      string     `json:"serial" yaml:"serial"`
	Name        string     `json:"name" yaml:"name"`
	Client      string     `json:"client" yaml:"client"`
	Online      bool       `json:"online" yaml:"online"`
	LastCommand string     `json:"last_command,omitempty" yaml:"last_command,omitempty"`
	TimeStamp   string     `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Software    string     `json:"software,omitempty" yaml:"software,omitempty"`
	TimeZone    string     `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Motors      []Motor    `json:"motors" yaml:"motors"`
	Groups      []Group    `json:"groups" yaml:"groups"`
	Rooms       []Room     `json:"rooms" yaml:"rooms"`
	Schedules   []Schedule `json:"schedules" yaml:"schedules"`
}

// Motor is one shade channel
type Motor struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	State      string `json:"state" yaml:"state"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Percent    int    `json:"percent" yaml:"percent"`
	Running    bool   `json:"running" yaml:"running"`
	Paused     bool   `json:"paused" yaml:"paused"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	Icon       string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Group is a named set of motors
type Group struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Icon      string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Favourite bool     `json:"favourite" yaml:"favourite"`
	Motors    []string `json:"motors" yaml:"motors"`
}

// Room is a display grouping of motors
type Room struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Icon      string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Favourite bool     `json:"favourite" yaml:"favourite"`
	Motors    []string `json:"motors" yaml:"motors"`
}

// Schedule is an automation with up to three timed events
type Schedule struct {
	ID       string                                    `json:"id" yaml:"id"`
	Name     string                                    `json:"name" yaml:"name"`
	Icon     string                                    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Active   bool                                      `json:"active" yaml:"active"`
	Motors   []string                                  `json:"motors" yaml:"motors"`
	Groups   []int                                     `json:"groups" yaml:"groups"`
	Location model.GeoPoint                            `json:"location" yaml:"location"`
	Events   map[model.EventSlot]*model.ScheduleEvent `json:"events,omitempty" yaml:"events,omitempty"`
}

// ScheduleRequest describes a schedule to create
type ScheduleRequest struct {
	Name     string          `json:"name" binding:"required"`
	Motors   []int           `json:"motors"`
	Groups   []int           `json:"groups"`
	Icon     string          `json:"icon,omitempty"`
	Active   *bool           `json:"active,omitempty"`
	Location *model.GeoPoint `json:"location,omitempty"`
}

// CommandResult reports a command and whether the hub confirmed it
type CommandResult struct {
	Serial    string    `json:"serial" yaml:"serial"`
	Target    Target    `json:"target" yaml:"target"`
	ID        string    `json:"id" yaml:"id"`
	Command   string    `json:"command" yaml:"command"`
	Expected  string    `json:"expected_state" yaml:"expected_state"`
	State     string    `json:"state" yaml:"state"`
	Confirmed bool      `json:"confirmed" yaml:"confirmed"`
	Outcome   string    `json:"outcome" yaml:"outcome"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
