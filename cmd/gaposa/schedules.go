package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/model"
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"schedules"},
	Short:   "Manage hub schedules",
}

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage the UP, DOWN and PRESET events of a schedule",
}

var addFlags struct {
	Motors []int
	Groups []int
	Icon   string
}

var eventFlags struct {
	Days    string
	At      string
	Sunrise bool
	Sunset  bool
	Motors  []int
}

func init() {
	scheduleAddCmd.Flags().IntSliceVar(&addFlags.Motors, "motors", nil, "Motor ids the schedule drives")
	scheduleAddCmd.Flags().IntSliceVar(&addFlags.Groups, "groups", nil, "Group ids the schedule drives")
	scheduleAddCmd.Flags().StringVar(&addFlags.Icon, "icon", "", "Icon name")

	eventSetCmd.Flags().StringVar(&eventFlags.Days, "days", "all", "Days to repeat on: all, weekdays, weekends or a list like mon,wed,fri")
	eventSetCmd.Flags().StringVar(&eventFlags.At, "at", "", "Local time of day, HH:MM")
	eventSetCmd.Flags().BoolVar(&eventFlags.Sunrise, "sunrise", false, "Fire at sunrise")
	eventSetCmd.Flags().BoolVar(&eventFlags.Sunset, "sunset", false, "Fire at sunset")
	eventSetCmd.Flags().IntSliceVar(&eventFlags.Motors, "motors", nil, "Motor ids (default: the schedule's motors)")
	eventSetCmd.MarkFlagsMutuallyExclusive("at", "sunrise", "sunset")
	eventSetCmd.MarkFlagsOneRequired("at", "sunrise", "sunset")

	scheduleCmd.AddCommand(scheduleListCmd, scheduleAddCmd, scheduleDeleteCmd,
		activeCmd("activate", true), activeCmd("deactivate", false))
	eventCmd.AddCommand(eventSetCmd, eventDeleteCmd)
	rootCmd.AddCommand(scheduleCmd, eventCmd)
}

var scheduleListCmd = &cobra.Command{
	Use:   "list <serial>",
	Short: "List schedules and their events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schedules, err := session.Controller.ListSchedules(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return show(cmd, schedules)
	},
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add <serial> <name>",
	Short: "Create a schedule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session.Controller.AddSchedule(cmd.Context(), args[0], device.ScheduleRequest{
			Name:   args[1],
			Motors: addFlags.Motors,
			Groups: addFlags.Groups,
			Icon:   addFlags.Icon,
		})
		if err != nil {
			return err
		}
		return show(cmd, s)
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete <serial> <id>",
	Short: "Delete a schedule and its events",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Controller.DeleteSchedule(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		return show(cmd, map[string]string{"deleted": args[1]})
	},
}

func activeCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <serial> <id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Controller.SetScheduleActive(cmd.Context(), args[0], args[1], active)
			if err != nil {
				return err
			}
			return show(cmd, s)
		},
	}
}

var eventSetCmd = &cobra.Command{
	Use:   "set <serial> <id> <up|down|preset>",
	Short: "Set one event of a schedule",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial, id := args[0], args[1]
		slot, err := parseSlot(args[2])
		if err != nil {
			return err
		}
		days, err := parseDays(eventFlags.Days)
		if err != nil {
			return err
		}

		d := session.Device(serial)
		if d == nil {
			return fmt.Errorf("%w: device %s", device.ErrNotFound, serial)
		}
		motors := eventFlags.Motors
		if motors == nil {
			if s := d.Schedule(id); s != nil {
				motors = s.MotorIDs()
			}
		}

		var ev model.ScheduleEvent
		switch {
		case eventFlags.Sunrise:
			ev, err = d.SunriseEvent(days, motors, time.Now())
		case eventFlags.Sunset:
			ev, err = d.SunsetEvent(days, motors, time.Now())
		default:
			var offset time.Duration
			if offset, err = parseTimeOfDay(eventFlags.At); err == nil {
				ev = d.TimeOfDayEvent(days, offset, motors)
			}
		}
		if err != nil {
			return err
		}

		s, err := session.Controller.SetScheduleEvent(cmd.Context(), serial, id, slot, ev)
		if err != nil {
			return err
		}
		return show(cmd, s)
	},
}

var eventDeleteCmd = &cobra.Command{
	Use:   "delete <serial> <id> <up|down|preset>",
	Short: "Delete one event of a schedule",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(args[2])
		if err != nil {
			return err
		}
		s, err := session.Controller.DeleteScheduleEvent(cmd.Context(), args[0], args[1], slot)
		if err != nil {
			return err
		}
		return show(cmd, s)
	},
}

func parseSlot(s string) (model.EventSlot, error) {
	slot := model.EventSlot(strings.ToUpper(s))
	if slot.Index() < 0 {
		return "", fmt.Errorf("unknown event slot %q, want up, down or preset", s)
	}
	return slot, nil
}

var dayNames = map[string]model.EventDays{
	"mon": model.Monday, "tue": model.Tuesday, "wed": model.Wednesday,
	"thu": model.Thursday, "fri": model.Friday, "sat": model.Saturday,
	"sun": model.Sunday, "all": model.AllDays, "weekdays": model.Weekdays,
	"weekends": model.Weekends,
}

// parseDays reads a comma separated list of day selectors.
func parseDays(s string) (model.EventRepeat, error) {
	var days []model.EventDays
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if len(name) > 3 && name != "weekdays" && name != "weekends" {
			name = name[:3]
		}
		d, ok := dayNames[name]
		if !ok {
			return model.EventRepeat{}, fmt.Errorf("unknown day %q", part)
		}
		days = append(days, d)
	}
	return model.RepeatOn(days...), nil
}

// parseTimeOfDay turns HH:MM into an offset past midnight.
func parseTimeOfDay(s string) (time.Duration, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}
