package report

import (
	"io"
	"os"

	"github.com/yacobolo/tailwindify"
)

// OutputFormat selects how a run summary is written.
type OutputFormat string

const (
	// OutputText prints skipped files and a one-line summary.
	OutputText OutputFormat = "text"
	// OutputJSON exports the full result for tooling.
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat maps the flag value to a format. Unknown values fall
// back to text.
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "json":
		return OutputJSON
	default:
		return OutputText
	}
}

// WriteOutput writes the run result in the requested format.
func WriteOutput(w io.Writer, result *tailwindify.RunResult, format OutputFormat, opts Options) {
	switch format {
	case OutputJSON:
		if err := WriteJSON(w, result, opts.Markers); err != nil {
			// Log error but don't crash
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}

	default:
		reporter := NewReporter(w, opts)
		reporter.PrintSkipped(result)
		reporter.PrintSummary(result)
	}
}
