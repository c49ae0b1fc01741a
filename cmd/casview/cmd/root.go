package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"casview/internal/config"
	"casview/internal/logging"
	"casview/internal/view"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "casview",
	Short: "Browse content-addressed directory snapshots",
	Long: `casview indexes a directory into a content-addressed snapshot, where every
file and directory is identified by its digest (hash/size), and displays the
snapshot as a lazily expanded tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
			return fmt.Errorf("failed to init logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", getEnvOrDefault("CASVIEW_CONFIG", "casview.yaml"), "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("CASVIEW_LOG_LEVEL"), "Log level (debug, info, warn, error)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func glyphs() view.Glyphs {
	return view.Glyphs{
		Download:  cfg.Glyphs.File,
		Expanded:  cfg.Glyphs.Expanded,
		Collapsed: cfg.Glyphs.Collapsed,
	}
}
