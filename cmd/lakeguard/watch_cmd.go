package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the data lake and refresh sidecars as files are written",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			l, err := buildLake()
			if err != nil {
				return err
			}
			if err := l.Lock(); err != nil {
				return err
			}
			defer l.Unlock()

			err = buildMonitor(l).Watch(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			slog.Info("watcher stopped")
			return nil
		},
	}
}
