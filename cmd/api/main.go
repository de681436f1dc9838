package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/urmzd/gaposa/pkg/api"
	"github.com/urmzd/gaposa/pkg/app"
	"github.com/urmzd/gaposa/pkg/config"
	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/logging"

	_ "github.com/urmzd/gaposa/docs"
)

// @title           Gaposa API
// @version         1.0
// @description     REST API for controlling Gaposa motorised shades through the cloud service

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	v := config.New()
	var configPath string

	cmd := &cobra.Command{
		Use:          "gaposa-api",
		Short:        "Serve the Gaposa REST bridge",
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
	cmd.Flags().String("address", "", "Listen address (default 0.0.0.0:8080)")
	cmd.Flags().String("db", "", "Path to database file (default: ~/.config/gaposa/gaposa.db)")
	_ = v.BindPFlag("emulate", cmd.Flags().Lookup("emulate"))
	_ = v.BindPFlag("api.address", cmd.Flags().Lookup("address"))
	_ = v.BindPFlag("db.path", cmd.Flags().Lookup("db"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, closer, err := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closer.Close()

	// Fall back to NullController when sign-in fails so /health can report it
	var (
		controller device.Controller
		metrics    http.Handler
	)
	session, err := app.Open(ctx, cfg, logger)
	if err != nil {
		log.Warn().Err(err).Msg("Gaposa session unavailable, using null controller")
		controller = device.NewNullController()
	} else {
		defer session.Close()
		controller = session.Controller
		metrics = session.Metrics.Handler()
		log.Info().Int("devices", len(session.Devices())).Msg("Signed in")
	}

	router := api.NewRouter(controller, nil, metrics)
	srv := &http.Server{
		Addr:              cfg.API.Address,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	log.Info().Str("address", cfg.API.Address).Msg("Starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Server failed")
		return err
	}
	return nil
}
