package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dom/league-rest-explorer/internal/config"
	"github.com/dom/league-rest-explorer/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	apiBaseURL string
	ddragonURL string
	prefsDir   string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "League REST explorer dashboard",
	Long: `explorer walks through the REST architectural constraints using live
League of Legends data, falling back to demo data whenever the proxy or
Data Dragon cannot be reached.

Run "explorer serve" to start the dashboard API, or "explorer fetch" to load
sections from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if apiBaseURL != "" {
			cfg.APIBaseURL = apiBaseURL
		}
		if timeout > 0 {
			cfg.HTTPTimeout = timeout
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Environment)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "Proxy base URL (default API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&ddragonURL, "ddragon", "", "Data Dragon CDN base URL")
	rootCmd.PersistentFlags().StringVar(&prefsDir, "prefs-dir", "", "Directory of preferences.yaml (default user config dir)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Upstream request timeout (default HTTP_TIMEOUT)")

	rootCmd.AddCommand(serveCmd, fetchCmd, sectionsCmd, themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
