package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yacobolo/tailwindify"
	"gitlab.com/tozd/go/errors"
)

// Options controls the human readable output.
type Options struct {
	UseColors bool // force colors; otherwise auto-detected
	Markers   tailwindify.Markers
}

// Reporter prints run summaries and errors.
type Reporter struct {
	w         io.Writer
	useColors bool
	markers   tailwindify.Markers
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts Options) *Reporter {
	return &Reporter{
		w:         w,
		useColors: shouldUseColors(opts.UseColors),
		markers:   opts.Markers,
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(force bool) bool {
	if force {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintSkipped lists every skipped file with its reason.
func (r *Reporter) PrintSkipped(result *tailwindify.RunResult) {
	skipped := result.SkippedFiles()
	if len(skipped) == 0 {
		return
	}

	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Skipped files", r.useColors))
	for _, f := range skipped {
		fmt.Fprintf(r.w, "  %s: %v\n", RenderStyle(StyleCyan, f.File.Path, r.useColors), f.Err)
	}
	fmt.Fprintln(r.w, "")
}

// PrintSummary prints the totals line, plus a review hint when rewrites were flagged.
func (r *Reporter) PrintSummary(result *tailwindify.RunResult) {
	if result.FilesDiscovered == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleYellow, "No matching files found", r.useColors))
		return
	}

	verb := "rewrote"
	if result.DryRun {
		verb = "would rewrite"
	}

	line := fmt.Sprintf("Scanned %s, %s %s (%s, %s) in %s",
		pluralizeCount(result.FilesDiscovered, "file", "files"),
		verb,
		pluralizeCount(result.Rewritten, "file", "files"),
		pluralizeCount(result.Replacements, "replacement", "replacements"),
		pluralizeCount(result.Skipped, "skipped", "skipped"),
		result.Duration.Round(time.Millisecond))
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, line, r.useColors))

	if result.Flagged > 0 {
		hint := fmt.Sprintf("%s need manual review; search for %q",
			pluralizeCount(result.Flagged, "rewrite", "rewrites"), r.markers.Prefix)
		fmt.Fprintln(r.w, RenderStyle(StyleYellow, hint, r.useColors))
	}
}

// PrintError prints a fatal error followed by each wrapped cause, outermost first.
func (r *Reporter) PrintError(err error) {
	chain := ErrorChain(err)
	if len(chain) == 0 {
		return
	}
	fmt.Fprintln(r.w, RenderStyle(StyleRed, "Error: "+chain[0], r.useColors))
	for _, cause := range chain[1:] {
		fmt.Fprintln(r.w, RenderStyle(StyleRed, "  caused by: ", r.useColors)+cause)
	}
}

// ErrorChain returns the messages along the Unwrap chain, outermost first.
// Stack-only wrappers repeat their cause's message and are collapsed.
func ErrorChain(err error) []string {
	var chain []string
	for err != nil {
		msg := err.Error()
		if n := len(chain); n == 0 || chain[n-1] != msg {
			chain = append(chain, msg)
		}
		err = errors.Unwrap(err)
	}
	return chain
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
