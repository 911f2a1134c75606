package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bizlist/internal/config"
	logpkg "github.com/kailas-cloud/bizlist/internal/logger"
	"github.com/kailas-cloud/bizlist/internal/version"
)

var (
	// Global flags
	envFlag    string
	configFlag string

	// Resolved values
	env    string
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "bizlist",
	Short:         "Business listing API",
	Long:          `bizlist serves filtered and randomly sampled listings of approved businesses with their photos.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env = envFlag
		if env == "" {
			env = config.GetEnv()
		}

		var err error
		if configFlag != "" {
			cfg, err = config.LoadFile(configFlag)
		} else {
			cfg, err = config.Load(env)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "environment name (overrides ENV)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "explicit config file path")
}
