package main

import (
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newUpdateCmd())
}

func newUpdateCmd() *cobra.Command {
	var oneshot bool

	cmd := &cobra.Command{
		Use:   "update [files...]",
		Short: "Compute and persist digest sidecars for tracked files",
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

			files, err := selectFiles(l, args, oneshot)
			if err != nil {
				return err
			}

			res, err := buildMonitor(l).Update(cmd.Context(), files)
			if err != nil {
				return err
			}

			slog.Info("sidecars updated",
				"count", res.Written,
				"hashed", humanize.Bytes(uint64(res.Bytes)),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneshot, "oneshot", false, "Scan the whole data lake root instead of taking file arguments")
	return cmd
}
