package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportUser int64
	reportKind string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a user's analytics as JSON",
	Long:  "report prints statistics, insight cards or a body composition assessment for one user.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportUser <= 0 {
			return errors.New("--user must be a positive user id")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.close() }()

		svc := st.insightsService(cfg.Logger())
		ctx := cmd.Context()

		var out any
		switch reportKind {
		case "statistics":
			out, err = svc.Statistics(ctx, reportUser)
		case "insights":
			out, err = svc.Insights(ctx, reportUser)
		case "assessment":
			out, err = svc.Assessment(ctx, reportUser)
		default:
			return fmt.Errorf("unknown --kind %q (want statistics, insights or assessment)", reportKind)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	reportCmd.Flags().Int64Var(&reportUser, "user", 0, "User id to report on")
	reportCmd.Flags().StringVar(&reportKind, "kind", "statistics", "Report kind: statistics, insights or assessment")
	rootCmd.AddCommand(reportCmd)
}
