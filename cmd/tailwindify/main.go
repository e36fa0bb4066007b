// Package main provides the tailwindify CLI.
package main

import (
	"os"

	"github.com/yacobolo/tailwindify/internal/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		report.NewReporter(os.Stderr, report.Options{}).PrintError(err)
		os.Exit(1)
	}
}
