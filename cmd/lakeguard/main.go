package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lakeguard/internal/config"
	"lakeguard/internal/version"
)

var (
	home, _        = os.UserHomeDir()
	configFileName = "lakeguard"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:     "lakeguard",
	Short:   "Sidecar digest integrity guard for the data lake",
	Version: version.Detailed(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.PersistentFlags().StringP("root", "r", config.DefaultRoot, "Data lake root directory")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "Parallel hash workers (0 = number of CPUs)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default lakeguard.yaml)")
}

func main() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	// config path
	if cmd.Flags().Changed("config") {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(".")                                // lake checkout dir first
		viper.AddConfigPath(filepath.Join(home, ".lakeguard"))  // then the user-level config
		viper.SetConfigName(configFileName)
		viper.SetConfigType("yaml")
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	// Bind flags to viper
	viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	// Set up environment variables
	viper.SetEnvPrefix("LAKEGUARD")
	viper.AutomaticEnv()

	// create & validate config
	cfg = &config.Config{
		Root:       viper.GetString("root"),
		Categories: viper.GetStringSlice("categories"),
		Extensions: viper.GetStringSlice("extensions"),
		Algorithm:  viper.GetString("algorithm"),
		Workers:    viper.GetInt("workers"),
		IgnoreFile: viper.GetString("ignore_file"),
		Path:       viper.ConfigFileUsed(),
	}
	return cfg.Validate()
}
