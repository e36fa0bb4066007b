package main

import (
	"github.com/spf13/cobra"
	"github.com/yacobolo/tailwindify"
	"github.com/yacobolo/tailwindify/internal/report"
	"gitlab.com/tozd/go/errors"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rewrite rules in the order they are applied",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := tailwindify.NewRuleSet(buildMarkers(),
				tailwindify.WithDisabled(getStringsWithFallback("disable", "rewrite.disable", nil)...))
			if err != nil {
				return errors.Errorf("building rules: %w", err)
			}

			opts := report.Options{UseColors: getBoolWithFallback("color", "color", false)}
			reporter := report.NewReporter(cmd.OutOrStdout(), opts)
			report.PrintRules(cmd.OutOrStdout(), rules, reporter.UseColors())
			return nil
		},
	}
}
