package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/schema"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	controllerStatus := "disconnected"
	if s.controller.IsConnected() {
		controllerStatus = "connected"
	}

	status := "healthy"
	if controllerStatus != "connected" {
		status = "unhealthy"
	}

	out := GetHealthOutput{
		Status:     status,
		Controller: controllerStatus,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.controller.ListDevices(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list devices: %s", err)), nil
	}
	if devices == nil {
		devices = []device.Device{}
	}

	return mcp.NewToolResultText(formatJSON(ListDevicesOutput{
		Devices: devices,
		Count:   len(devices),
	})), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, err := requiredString(request, "serial")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.controller.GetDevice(ctx, serial)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("device not found: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(DeviceOutput{Device: *d})), nil
}

func (s *Server) handleRefreshDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, err := requiredString(request, "serial")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.controller.RefreshDevice(ctx, serial)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to refresh device: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(DeviceOutput{Device: *d})), nil
}

func (s *Server) handleControlMotor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.command(ctx, request, device.TargetMotor)
}

func (s *Server) handleControlGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.command(ctx, request, device.TargetGroup)
}

func (s *Server) command(ctx context.Context, request mcp.CallToolRequest, target device.Target) (*mcp.CallToolResult, error) {
	serial, err := requiredString(request, "serial")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := requiredString(request, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cmd, err := model.ParseCommand(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.controller.Command(ctx, serial, target, id, cmd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to send %s to %s %s: %s", cmd.Name(), target, id, err)), nil
	}

	msg := fmt.Sprintf("%s %s reached %s", target, id, res.State)
	if !res.Confirmed {
		msg = fmt.Sprintf("%s sent to %s %s but the hub still reports %s (%s)", cmd.Name(), target, id, res.State, res.Outcome)
	}
	return mcp.NewToolResultText(formatJSON(CommandOutput{Result: *res, Message: msg})), nil
}

func (s *Server) handleListSchedules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, err := requiredString(request, "serial")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	schedules, err := s.controller.ListSchedules(ctx, serial)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list schedules: %s", err)), nil
	}
	if schedules == nil {
		schedules = []device.Schedule{}
	}
	return mcp.NewToolResultText(formatJSON(ListSchedulesOutput{
		Schedules: schedules,
		Count:     len(schedules),
	})), nil
}

func (s *Server) handleAddSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, err := requiredString(request, "serial")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	req := device.ScheduleRequest{Name: name}
	if req.Motors, err = intSlice(args, "motors"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.Groups, err = intSlice(args, "groups"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if icon, ok := args["icon"].(string); ok {
		req.Icon = icon
	}
	if active, ok := args["active"].(bool); ok {
		req.Active = &active
	}

	sched, err := s.controller.AddSchedule(ctx, serial, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add schedule: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(ScheduleOutput{Schedule: *sched})), nil
}

func (s *Server) handleDeleteSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, id, err := scheduleArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.controller.DeleteSchedule(ctx, serial, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete schedule: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(DeleteScheduleOutput{
		Success: true,
		Message: fmt.Sprintf("Schedule %s deleted from %s", id, serial),
	})), nil
}

func (s *Server) handleSetScheduleActive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, id, err := scheduleArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	active, ok := request.GetArguments()["active"].(bool)
	if !ok {
		return mcp.NewToolResultError(`parameter "active" must be a boolean`), nil
	}

	sched, err := s.controller.SetScheduleActive(ctx, serial, id, active)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update schedule: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(ScheduleOutput{Schedule: *sched})), nil
}

func (s *Server) handleSetScheduleEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, id, err := scheduleArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slot, err := slotArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, ok := request.GetArguments()["event"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError(`parameter "event" must be an object`), nil
	}
	// Round-trip through JSON so integers are checked exactly.
	body, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid event: %s", err)), nil
	}
	if err := s.validator.ValidateJSON(schema.ScheduleEvent, body); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}
	var event model.ScheduleEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid event: %s", err)), nil
	}

	sched, err := s.controller.SetScheduleEvent(ctx, serial, id, slot, event)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set schedule event: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(ScheduleOutput{Schedule: *sched})), nil
}

func (s *Server) handleDeleteScheduleEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, id, err := scheduleArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slot, err := slotArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sched, err := s.controller.DeleteScheduleEvent(ctx, serial, id, slot)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete schedule event: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(ScheduleOutput{Schedule: *sched})), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func scheduleArgs(request mcp.CallToolRequest) (serial, id string, err error) {
	if serial, err = requiredString(request, "serial"); err != nil {
		return "", "", err
	}
	if id, err = requiredString(request, "id"); err != nil {
		return "", "", err
	}
	return serial, id, nil
}

func slotArg(request mcp.CallToolRequest) (model.EventSlot, error) {
	s, err := requiredString(request, "slot")
	if err != nil {
		return "", err
	}
	slot := model.EventSlot(strings.ToUpper(s))
	if slot.Index() < 0 {
		return "", fmt.Errorf("parameter \"slot\" must be one of UP, DOWN or PRESET, got %q", s)
	}
	return slot, nil
}

// intSlice reads an optional array of whole numbers.
func intSlice(args map[string]any, key string) ([]int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an array of numbers", key)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		f, ok := item.(float64)
		if !ok || f != float64(int(f)) {
			return nil, fmt.Errorf("parameter %q must contain whole numbers, got %v", key, item)
		}
		out = append(out, int(f))
	}
	return out, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
