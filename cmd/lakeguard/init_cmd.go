package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"lakeguard/internal/utils"
)

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or re-establish the data lake directory skeleton",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			l, err := buildLake()
			if err != nil {
				return err
			}

			created, err := l.Init()
			for _, dir := range created {
				slog.Info("created or verified", "dir", dir)
			}
			if err != nil {
				return err
			}

			// drop a starter config in the checkout dir unless one exists
			cfgPath := cfg.Path
			if cfgPath == "" {
				cfgPath = filepath.Join(filepath.Dir(l.Root), configFileName+".yaml")
			}
			if !utils.FileExists(cfgPath) {
				if err := cfg.Save(cfgPath); err != nil {
					return err
				}
				slog.Info("wrote config", "path", cfgPath)
			}
			return nil
		},
	}
}
