package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urmzd/gaposa/pkg/db"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show")
	rootCmd.AddCommand(snapshotCmd, historyCmd)
}

var snapshotCmd = &cobra.Command{
	Use:         "snapshot [path]",
	Short:       "Show documents cached in the local database",
	Long:        "With no path, lists the stored hubs. A collection path lists its documents; a document path prints it.",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{offline: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLocal(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		path := "Devices"
		if len(args) == 1 {
			path = args[0]
		}
		raw, err := store.Get(cmd.Context(), path)
		if err != nil {
			return err
		}
		if raw != nil {
			var doc any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("failed to decode %s: %w", path, err)
			}
			return show(cmd, doc)
		}
		paths, err := store.List(cmd.Context(), path)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("nothing stored at %s", path)
		}
		return show(cmd, paths)
	},
}

var historyCmd = &cobra.Command{
	Use:         "history <serial>",
	Short:       "Show commands the emulator has accepted for a hub",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{offline: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLocal(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.RecentCommands(cmd.Context(), args[0], historyLimit)
		if err != nil {
			return err
		}
		if records == nil {
			records = []db.CommandRecord{}
		}
		return show(cmd, records)
	},
}

func openLocal(ctx context.Context) (*db.DB, error) {
	store, err := db.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
