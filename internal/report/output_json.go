package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/tailwindify"
)

// JSONOutput is the structured export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Markers   JSONMarkers `json:"markers"`
	Files     []JSONFile  `json:"files"`
}

// JSONSummary contains run totals
type JSONSummary struct {
	FilesDiscovered int    `json:"files_discovered"`
	Rewritten       int    `json:"rewritten"`
	Unchanged       int    `json:"unchanged"`
	Skipped         int    `json:"skipped"`
	Replacements    int    `json:"replacements"`
	Flagged         int    `json:"flagged"`
	Groups          int    `json:"groups"`
	DryRun          bool   `json:"dry_run"`
	Duration        string `json:"duration"`
}

// JSONMarkers records the markers used for flagged rewrites
type JSONMarkers struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// JSONFile is the outcome for one touched or skipped file. Unchanged files
// are left out.
type JSONFile struct {
	Path         string `json:"path"`
	Outcome      string `json:"outcome"`
	Replacements int    `json:"replacements,omitempty"`
	Flagged      int    `json:"flagged,omitempty"`
	Error        string `json:"error,omitempty"`
}

// WriteJSON writes the run result as indented JSON
func WriteJSON(w io.Writer, result *tailwindify.RunResult, markers tailwindify.Markers) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(result, markers))
}

func buildJSONOutput(result *tailwindify.RunResult, markers tailwindify.Markers) JSONOutput {
	files := make([]JSONFile, 0, result.Rewritten+result.Skipped)
	for _, f := range result.Files {
		if f.Outcome == tailwindify.Unchanged {
			continue
		}
		jf := JSONFile{
			Path:         f.File.Path,
			Outcome:      f.Outcome.String(),
			Replacements: f.Replacements,
			Flagged:      f.Flagged,
		}
		if f.Err != nil {
			jf.Error = f.Err.Error()
		}
		files = append(files, jf)
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			FilesDiscovered: result.FilesDiscovered,
			Rewritten:       result.Rewritten,
			Unchanged:       result.Unchanged,
			Skipped:         result.Skipped,
			Replacements:    result.Replacements,
			Flagged:         result.Flagged,
			Groups:          result.Groups,
			DryRun:          result.DryRun,
			Duration:        result.Duration.String(),
		},
		Markers: JSONMarkers{Prefix: markers.Prefix, Suffix: markers.Suffix},
		Files:   files,
	}
}
