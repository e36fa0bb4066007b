package main

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/tailwindify"
	"gitlab.com/tozd/go/errors"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	k = koanf.New(".")

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".tailwindify.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence). Only flags set on the command line
	// are loaded so their zero defaults never mask file or env values.
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return errors.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return errors.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (TAILWINDIFY_* prefix)
	if err := k.Load(env.Provider("TAILWINDIFY_", ".", func(s string) string {
		// TAILWINDIFY_MARKERS_PREFIX -> markers.prefix
		// TAILWINDIFY_SCAN_GITIGNORE -> scan.gitignore
		// TAILWINDIFY_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "TAILWINDIFY_")),
			"_", ".",
		)
	}), nil); err != nil {
		return errors.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildMarkers reads the warn markers, falling back to the built-in defaults.
// An explicitly empty marker is kept.
func buildMarkers() tailwindify.Markers {
	return tailwindify.Markers{
		Prefix: getSetStringWithFallback("warn-prefix", "markers.prefix", tailwindify.DefaultWarnPrefix),
		Suffix: getSetStringWithFallback("warn-suffix", "markers.suffix", tailwindify.DefaultWarnSuffix),
	}
}

// buildRunConfig constructs the library's Config struct from koanf state.
func buildRunConfig(root string) tailwindify.Config {
	return tailwindify.Config{
		Root:             root,
		Markers:          buildMarkers(),
		Extensions:       getStringsWithFallback("extensions", "scan.extensions", tailwindify.DefaultExtensions),
		Exclude:          getStringsWithFallback("exclude", "scan.exclude", nil),
		RespectGitignore: getBoolWithFallback("gitignore", "scan.gitignore", false),
		Workers:          getIntWithFallback("workers", "rewrite.workers", 0),
		DisabledRules:    getStringsWithFallback("disable", "rewrite.disable", nil),
		DryRun:           getBoolWithFallback("dry-run", "rewrite.dry-run", false),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getSetStringWithFallback is like getStringWithFallback but treats a key that
// is present with an empty value as set.
func getSetStringWithFallback(flagKey, configKey, defaultVal string) string {
	if k.Exists(flagKey) {
		return k.String(flagKey)
	}
	if k.Exists(configKey) {
		return k.String(configKey)
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
// Comma separated strings (as set through env vars) are split.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	for _, key := range []string{flagKey, configKey} {
		if !k.Exists(key) {
			continue
		}
		raw := k.Strings(key)
		if s, ok := k.Get(key).(string); ok {
			raw = []string{s}
		}
		if vals := splitList(raw); len(vals) > 0 {
			return vals
		}
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// splitList trims entries and splits comma separated ones.
func splitList(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
