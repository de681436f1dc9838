package main

import (
	"github.com/spf13/cobra"

	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/model"
)

func init() {
	rootCmd.AddCommand(
		commandCmd("motor", "Send up, down, stop or preset to a motor", device.TargetMotor),
		commandCmd("group", "Send up, down, stop or preset to a group", device.TargetGroup),
	)
}

func commandCmd(use, short string, target device.Target) *cobra.Command {
	return &cobra.Command{
		Use:       use + " <serial> <id> <up|down|stop|preset>",
		Short:     short,
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"up", "down", "stop", "preset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := model.ParseCommand(args[2])
			if err != nil {
				return err
			}
			res, err := session.Controller.Command(cmd.Context(), args[0], target, args[1], c)
			if err != nil {
				return err
			}
			return show(cmd, res)
		},
	}
}
