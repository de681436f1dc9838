package mcp

import "github.com/mark3labs/mcp-go/mcp"

var (
	commandNames = []string{"up", "down", "stop", "preset"}
	slotNames    = []string{"UP", "DOWN", "PRESET"}
)

func serialParam() mcp.ToolOption {
	return mcp.WithString("serial",
		mcp.Required(),
		mcp.Description("Hub serial number"),
	)
}

func scheduleIDParam() mcp.ToolOption {
	return mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Schedule id within the hub"),
	)
}

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check whether the Gaposa cloud session is signed in"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List every hub with its motors, groups, rooms and schedules"),
		),
		s.handleListDevices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get the last fetched state of one hub"),
			serialParam(),
		),
		s.handleGetDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("refresh_device",
			mcp.WithDescription("Fetch a hub's state from the cloud now and return it"),
			serialParam(),
		),
		s.handleRefreshDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("control_motor",
			mcp.WithDescription("Move one shade motor and wait until the hub reports the new state"),
			serialParam(),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Motor (channel) id"),
			),
			mcp.WithString("command",
				mcp.Required(),
				mcp.Enum(commandNames...),
				mcp.Description("Command to send"),
			),
		),
		s.handleControlMotor,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("control_group",
			mcp.WithDescription("Move every motor of a group and wait until the group's first motor reports the new state"),
			serialParam(),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Group id"),
			),
			mcp.WithString("command",
				mcp.Required(),
				mcp.Enum(commandNames...),
				mcp.Description("Command to send"),
			),
		),
		s.handleControlGroup,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_schedules",
			mcp.WithDescription("List a hub's schedules with their UP, DOWN and PRESET events"),
			serialParam(),
		),
		s.handleListSchedules,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_schedule",
			mcp.WithDescription("Create a schedule. Names must be unique on the hub."),
			serialParam(),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Schedule name"),
			),
			mcp.WithArray("motors",
				mcp.Description("Motor ids the schedule drives"),
				mcp.WithNumberItems(),
			),
			mcp.WithArray("groups",
				mcp.Description("Group ids the schedule drives"),
				mcp.WithNumberItems(),
			),
			mcp.WithString("icon",
				mcp.Description("Icon name (default noImg)"),
			),
			mcp.WithBoolean("active",
				mcp.Description("Enable the schedule immediately (default false)"),
			),
		),
		s.handleAddSchedule,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_schedule",
			mcp.WithDescription("Delete a schedule and its events"),
			serialParam(),
			scheduleIDParam(),
		),
		s.handleDeleteSchedule,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_schedule_active",
			mcp.WithDescription("Enable or disable a schedule"),
			serialParam(),
			scheduleIDParam(),
			mcp.WithBoolean("active",
				mcp.Required(),
				mcp.Description("Whether the schedule runs"),
			),
		),
		s.handleSetScheduleActive,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_schedule_event",
			mcp.WithDescription("Write the UP, DOWN or PRESET event of a schedule. The event object uses the hub's field names (EventRepeat, EventMode, EventEpoch, Motors, ...)."),
			serialParam(),
			scheduleIDParam(),
			mcp.WithString("slot",
				mcp.Required(),
				mcp.Enum(slotNames...),
				mcp.Description("Event slot"),
			),
			mcp.WithObject("event",
				mcp.Required(),
				mcp.Description(`Event document, e.g. {"EventRepeat":[true,true,true,true,true,false,false],"EventMode":{"TimeDay":true},"EventEpoch":25200,"Motors":[1]}`),
			),
		),
		s.handleSetScheduleEvent,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_schedule_event",
			mcp.WithDescription("Clear one event slot of a schedule"),
			serialParam(),
			scheduleIDParam(),
			mcp.WithString("slot",
				mcp.Required(),
				mcp.Enum(slotNames...),
				mcp.Description("Event slot"),
			),
		),
		s.handleDeleteScheduleEvent,
	)
}
