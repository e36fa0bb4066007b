package main

import (
	"github.com/spf13/cobra"
	"github.com/yacobolo/tailwindify"
	"github.com/yacobolo/tailwindify/internal/report"
	"gitlab.com/tozd/go/errors"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tailwindify <directory>",
		Short: "Rewrite atomic CSS classes into Tailwind classes",
		Long: `Scan a directory for .vue, .tsx, .jsx, .js and .ts files and rewrite
atomic utility classes (mt4, fs14, lh20p, ...) into Tailwind classes in place.
Rewrites without a safe equivalent are wrapped in warn markers for manual review.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
		RunE:          runRewrite,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags (inherited by all subcommands)
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Log every rewritten file")
	pf.BoolP("debug", "d", false, "Enable debug logging")
	pf.Bool("quiet", false, "Suppress the summary (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".tailwindify.yaml", "Config file path")
	pf.StringP("warn-prefix", "p", "", "Marker placed before rewrites that need review (default \""+tailwindify.DefaultWarnPrefix+"\")")
	pf.StringP("warn-suffix", "s", "", "Marker placed after rewrites that need review (default \""+tailwindify.DefaultWarnSuffix+"\")")
	pf.StringSlice("disable", nil, "Rule names to skip (see `tailwindify rules`)")

	f := cmd.Flags()
	f.StringSlice("extensions", nil, "File extensions to scan (default vue,tsx,jsx,js,ts)")
	f.StringSlice("exclude", nil, "Glob patterns, relative to the directory, to skip")
	f.Bool("gitignore", false, "Skip paths matched by the directory's .gitignore")
	f.Int("workers", 0, "Parallelism used to size file groups (0 = number of CPUs)")
	f.Bool("dry-run", false, "Report what would change without writing files")
	f.String("output-format", "", "Summary format: text|json")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runRewrite(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(),
		getBoolWithFallback("verbose", "verbose", false),
		getBoolWithFallback("debug", "debug", false))
	ctx := logger.WithContext(cmd.Context())

	config := buildRunConfig(args[0])

	result, err := tailwindify.Run(ctx, config)
	if err != nil {
		return errors.Errorf("rewrite failed: %w", err)
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}

	format := report.DetermineOutputFormat(getStringWithFallback("output-format", "output.format", "text"))
	report.WriteOutput(cmd.OutOrStdout(), result, format, report.Options{
		UseColors: getBoolWithFallback("color", "color", false),
		Markers:   config.Markers,
	})
	return nil
}
