package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bodymetrics/internal/config"
)

var (
	storageFlag string
	dbURLFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "bodymetrics",
	Short: "bodymetrics tracks weight and body composition",
	Long: "bodymetrics records weigh-ins, body measurements and blood pressure, " +
		"and turns them into statistics, trends and insight cards.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "Storage backend: postgres or memory (overrides STORAGE)")
	rootCmd.PersistentFlags().StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Parse()
	if err != nil {
		return cfg, err
	}
	if storageFlag != "" {
		cfg.Storage = storageFlag
	}
	if dbURLFlag != "" {
		cfg.DatabaseURL = dbURLFlag
	}
	return cfg, nil
}
