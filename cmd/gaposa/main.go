// Command gaposa drives Gaposa shades from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/urmzd/gaposa/pkg/app"
	"github.com/urmzd/gaposa/pkg/config"
	"github.com/urmzd/gaposa/pkg/logging"
)

// offline marks commands that read the local database without signing in.
const offline = "offline"

var (
	v = config.New()

	flags struct {
		Config string
		Output string
	}

	cfg     *config.Config
	session *app.Session
	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "gaposa",
	Short:         "Control Gaposa motorised shades",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flags.Output != "json" && flags.Output != "yaml" {
			return fmt.Errorf("unknown output format %q, want json or yaml", flags.Output)
		}
		_, local := cmd.Annotations[offline]
		if local {
			// Reading the database needs no credentials.
			v.Set("emulate", true)
		}

		var err error
		if cfg, err = config.Load(v, flags.Config); err != nil {
			return err
		}
		logger, closer, err := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Console: os.Stderr})
		if err != nil {
			return err
		}
		closers = append(closers, closer)

		if local {
			return nil
		}
		if session, err = app.Open(cmd.Context(), cfg, logger); err != nil {
			return err
		}
		closers = append(closers, session)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.Config, "config", "c", "", "Path to config file")
	pf.StringVarP(&flags.Output, "output", "o", "yaml", "Output format: json or yaml")
	pf.Bool("emulate", false, "Use the local emulator instead of the cloud service")
	pf.String("db", "", "Path to database file (default: ~/.config/gaposa/gaposa.db)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	bind(v, "emulate", "emulate")
	bind(v, "db.path", "db")
	bind(v, "log.level", "log-level")
}

func bind(v *viper.Viper, key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close()
	}
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
