package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(devicesCmd, deviceCmd, refreshCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List hubs with their motors, groups, rooms and schedules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := session.Controller.ListDevices(cmd.Context())
		if err != nil {
			return err
		}
		return show(cmd, devices)
	},
}

var deviceCmd = &cobra.Command{
	Use:   "device <serial>",
	Short: "Show one hub",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := session.Controller.GetDevice(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return show(cmd, d)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <serial>",
	Short: "Fetch a hub's state now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := session.Controller.RefreshDevice(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return show(cmd, d)
	},
}
