package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default .tailwindify.yaml config file",
		Long:  `Create a .tailwindify.yaml configuration file in the current directory with the default settings.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			if _, err := os.Stat(".tailwindify.yaml"); err == nil && !force {
				return errors.New(".tailwindify.yaml already exists (use --force to overwrite)")
			}

			if err := os.WriteFile(".tailwindify.yaml", []byte(defaultConfig), 0o644); err != nil {
				return errors.Errorf("writing config file: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Created .tailwindify.yaml")
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite existing config file")
	return cmd
}

const defaultConfig = `# tailwindify configuration
# Precedence: flags > TAILWINDIFY_* env vars > this file > defaults

verbose: false
debug: false

# Rewrites without a safe Tailwind equivalent are wrapped in these markers
markers:
  prefix: "__MANUAL_REVIEW>"
  suffix: "<MANUAL_REVIEW__"

scan:
  extensions: [vue, tsx, jsx, js, ts]
  exclude: []              # e.g. "**/node_modules"
  gitignore: false

rewrite:
  workers: 0               # 0 = number of CPUs
  disable: []              # rule names, see "tailwindify rules"
  dry-run: false

output:
  format: text             # text | json
`
