package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/api"
	"github.com/Project-Sylos/Cabinet/internal/config"
	"github.com/Project-Sylos/Cabinet/internal/logging"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/Project-Sylos/Cabinet/sdk"
	"github.com/spf13/cobra"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cabinet-api [config-file]",
		Short:         "Serves the Cabinet folder/file store over HTTP",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString(flagConfig)
			if len(args) == 1 {
				configPath = args[0]
			}
			logLevel, _ := cmd.Flags().GetString(flagLogLevel)
			return serve(configPath, logLevel)
		},
	}

	cmd.Flags().String(flagConfig, "", "Configuration file path (JSON or YAML); defaults apply when empty")
	cmd.Flags().String(flagLogLevel, "", "Override the configured log level (debug, info, warn, error)")
	return cmd
}

func serve(configPath, logLevel string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := logging.Setup(cfg.Log); err != nil {
		return err
	}

	cabinet, err := sdk.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cabinet: %w", err)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return api.Serve(ctx, cabinet, 30*time.Second)
}

func loadConfig(configPath string) (*types.Config, error) {
	if configPath == "" {
		cfg := config.DefaultConfig()
		return &cfg, nil
	}
	return config.LoadFromFile(configPath)
}
