package model

import (
	"fmt"
	"strings"
)

// Command is a motor command code understood by the control endpoint.
type Command string

const (
	CommandUp     Command = "0xdd"
	CommandDown   Command = "0xee"
	CommandStop   Command = "0xcc"
	CommandPreset Command = "0xbb"
)

// Channel states reported by the device document.
const (
	StateUp   = "UP"
	StateDown = "DOWN"
	StateStop = "STOP"
)

// ExpectedState is the channel state a motor settles in after cmd.
// Preset positions report STOP once reached.
func ExpectedState(cmd Command) string {
	switch cmd {
	case CommandUp:
		return StateUp
	case CommandDown:
		return StateDown
	default:
		return StateStop
	}
}

// Name returns the lower-case verb for cmd.
func (c Command) Name() string {
	switch c {
	case CommandUp:
		return "up"
	case CommandDown:
		return "down"
	case CommandStop:
		return "stop"
	case CommandPreset:
		return "preset"
	default:
		return string(c)
	}
}

// ParseCommand accepts a verb (up, down, stop, preset) or a raw command code.
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", string(CommandUp):
		return CommandUp, nil
	case "down", string(CommandDown):
		return CommandDown, nil
	case "stop", string(CommandStop):
		return CommandStop, nil
	case "preset", string(CommandPreset):
		return CommandPreset, nil
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// Scope selects what a control request addresses.
type Scope string

const (
	ScopeChannel Scope = "channel"
	ScopeGroup   Scope = "group"
)
