package tailwindify

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// Config holds everything a run needs.
type Config struct {
	Root             string
	Markers          Markers
	Extensions       []string // empty means DefaultExtensions
	Exclude          []string
	RespectGitignore bool
	Workers          int      // parallelism used for partitioning; 0 means runtime.NumCPU()
	DisabledRules    []string // rule names to skip
	DryRun           bool     // report changes without writing

	// Writer overrides the file writer. Nil selects AtomicWriter, or
	// DiscardWriter when DryRun is set.
	Writer FileWriter
}

// RunResult summarizes a run.
type RunResult struct {
	FilesDiscovered int
	Rewritten       int
	Unchanged       int
	Skipped         int
	Groups          int
	Replacements    int
	Flagged         int
	DryRun          bool
	Duration        time.Duration
	Files           []FileResult // discovery order
}

// SkippedFiles returns the results that were skipped.
func (r *RunResult) SkippedFiles() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Outcome == Skipped {
			out = append(out, f)
		}
	}
	return out
}

// Run discovers files under cfg.Root and rewrites them concurrently.
// Per-file failures are recorded in the result; directory read failures,
// rule compile failures and worker faults abort the run.
func Run(ctx context.Context, cfg Config) (*RunResult, error) {
	start := time.Now()
	log := zerolog.Ctx(ctx)

	// Built once and shared read-only by every worker.
	rules, err := NewRuleSet(cfg.Markers, WithDisabled(cfg.DisabledRules...))
	if err != nil {
		return nil, errors.Errorf("building rules: %w", err)
	}
	for _, rule := range rules.Rules() {
		log.Debug().Stringer("rule", rule).Msg("rule loaded")
	}

	log.Info().Str("root", cfg.Root).Msg("scanning files")
	files, err := Discover(ctx, cfg.Root, DiscoverOptions{
		Extensions:       cfg.Extensions,
		Exclude:          cfg.Exclude,
		RespectGitignore: cfg.RespectGitignore,
	})
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}

	result := &RunResult{FilesDiscovered: len(files), DryRun: cfg.DryRun}
	if len(files) == 0 {
		log.Warn().Str("root", cfg.Root).Msg("no matching files found")
		result.Duration = time.Since(start)
		return result, nil
	}
	log.Info().Int("files", len(files)).Msg("files found")

	parallelism := cfg.Workers
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	groups := Partition(files, parallelism)
	result.Groups = len(groups)
	log.Debug().
		Int("files", len(files)).
		Int("parallelism", parallelism).
		Int("group_size", GroupSize(len(files), parallelism)).
		Int("groups", len(groups)).
		Msg("partitioned files")

	writer := cfg.Writer
	if writer == nil {
		if cfg.DryRun {
			writer = DiscardWriter{}
		} else {
			writer = NewAtomicWriter()
		}
	}

	var (
		progress atomic.Int64
		g        errgroup.Group
	)
	perGroup := make([][]FileResult, len(groups))
	for i, group := range groups {
		w := newWorker(ctx, i, group, rules, writer, &progress, len(files))
		g.Go(func() error {
			res, err := w.run()
			perGroup[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("worker failed")
		return nil, errors.Errorf("rewriting files: %w", err)
	}

	aggregate(result, perGroup)
	result.Duration = time.Since(start)

	log.Info().
		Int("discovered", result.FilesDiscovered).
		Int("rewritten", result.Rewritten).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("run complete")
	return result, nil
}

// aggregate folds per-group results, in group order, into result.
func aggregate(result *RunResult, perGroup [][]FileResult) {
	for _, group := range perGroup {
		for _, f := range group {
			switch f.Outcome {
			case Rewritten:
				result.Rewritten++
			case Skipped:
				result.Skipped++
			default:
				result.Unchanged++
			}
			result.Replacements += f.Replacements
			result.Flagged += f.Flagged
			result.Files = append(result.Files, f)
		}
	}
}
