// chiron is a field triage assistant: it captures an injury report,
// obtains emergency guidance through a tiered assessment pipeline, and
// keeps the assessment history synchronized with a document store.
package main

import (
	"fmt"
	"os"

	"chiron/internal/config"
	"chiron/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	userID     string
	verbose    bool

	// Loaded at startup
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "chiron",
	Short: "chiron - emergency injury triage assistant",
	Long: `chiron guides you through capturing an injury report and obtaining
AI-generated emergency medical guidance.

Assessment requests degrade through a tiered fallback chain: a
specialized trauma-assessment backend, then a generative provider, then
fixed default guidance. You always get an answer, even fully offline.

chiron is not a medical device; in a real emergency call your local
emergency number first.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Configure(cfg.DataDir(), logging.Settings{
			DebugMode:  cfg.Logging.DebugMode,
			Categories: cfg.Logging.Categories,
			Level:      cfg.Logging.Level,
		}); err != nil {
			logger.Warn("Debug logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "local-user", "identity that owns the assessment history")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose process logging")

	rootCmd.AddCommand(triageCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(chatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "chiron.yaml"
	}
	return home + "/.chiron/config.yaml"
}
