package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clinops/trialpulse/pkg/config"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trialpulse",
	Short: "trialpulse - clinical trial monitoring backend",
	Long: `trialpulse Unified CLI

Reads per-study spreadsheet exports, normalizes them into sites, subjects,
queries, SAEs and visit projections, and serves them to the dashboard.

Usage:
  go run ./cmd/trialpulse [command]

Examples:
  go run ./cmd/trialpulse api
  go run ./cmd/trialpulse studies
  go run ./cmd/trialpulse load study-1_cpid
  go run ./cmd/trialpulse index generate --dir ./dataset`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file to load before the environment (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig applies the global flags on top of the environment
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := godotenv.Overload(configFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", configFile, err)
		}
	}
	if env != "" {
		os.Setenv("ENV", env)
	}
	if verbose {
		os.Setenv("LOG_LEVEL", "debug")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
