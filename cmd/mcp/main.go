package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/urmzd/gaposa/pkg/app"
	"github.com/urmzd/gaposa/pkg/config"
	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/logging"
	gaposamcp "github.com/urmzd/gaposa/pkg/mcp"
)

func main() {
	v := config.New()
	var configPath string

	cmd := &cobra.Command{
		Use:          "gaposa-mcp",
		Short:        "Serve Gaposa shade control as MCP tools on stdio",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().Bool("emulate", false, "Use the local emulator instead of the cloud service")
	cmd.Flags().String("db", "", "Path to database file (default: ~/.config/gaposa/gaposa.db)")
	_ = v.BindPFlag("emulate", cmd.Flags().Lookup("emulate"))
	_ = v.BindPFlag("db.path", cmd.Flags().Lookup("db"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// stdout is the MCP transport, so logs must never reach it
	logger, closer, err := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Console: os.Stderr})
	if err != nil {
		return err
	}
	defer closer.Close()

	var controller device.Controller
	session, err := app.Open(ctx, cfg, logger)
	if err != nil {
		log.Warn().Err(err).Msg("Gaposa session unavailable, using null controller")
		controller = device.NewNullController()
	} else {
		defer session.Close()
		controller = session.Controller
	}

	server := gaposamcp.NewServer(controller, nil)

	log.Info().Msg("Starting MCP server on stdio")
	if err := server.ServeStdio(); err != nil {
		log.Error().Err(err).Msg("MCP server failed")
		return err
	}
	return nil
}
