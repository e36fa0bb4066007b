package tailwindify

import (
	"context"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Outcome is what happened to one file.
type Outcome int

const (
	Unchanged Outcome = iota
	Rewritten
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Rewritten:
		return "rewritten"
	case Skipped:
		return "skipped"
	default:
		return "unchanged"
	}
}

// FileResult records the outcome for one file. Err is set for Skipped and
// holds a *FileReadError or *FileWriteError.
type FileResult struct {
	File         SourceFile
	Outcome      Outcome
	Err          error
	Replacements int
	Flagged      int
}

// worker owns one group. Only rules, writer and progress are shared.
type worker struct {
	id       int
	group    []SourceFile
	rules    *RuleSet
	writer   FileWriter
	progress *atomic.Int64
	total    int
	log      zerolog.Logger
}

// run processes every file in order and never stops on a per-file error.
// A panic is converted into a *WorkerFaultError.
func (w *worker) run() (results []FileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.WithStack(&WorkerFaultError{Group: w.id, Value: r, Stack: debug.Stack()})
		}
	}()

	w.log.Debug().Int("files", len(w.group)).Msg("worker started")

	results = make([]FileResult, 0, len(w.group))
	rewritten := 0
	for _, file := range w.group {
		res := w.processFile(file)
		switch res.Outcome {
		case Rewritten:
			rewritten++
		case Skipped:
			w.log.Warn().Err(res.Err).Str("file", file.Path).Msg("skipping file")
		}
		results = append(results, res)
	}

	w.log.Debug().Int("rewritten", rewritten).Msg("worker finished")
	return results, nil
}

func (w *worker) processFile(file SourceFile) FileResult {
	w.log.Debug().Str("file", file.Path).Msg("processing file")

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return FileResult{
			File:    file,
			Outcome: Skipped,
			Err:     errors.WithStack(&FileReadError{Path: file.Path, Err: err}),
		}
	}

	res := w.rules.Apply(string(data))
	if !res.Changed {
		w.log.Debug().Str("file", file.Path).Msg("no changes")
		return FileResult{File: file, Outcome: Unchanged}
	}

	if err := w.writer.WriteFile(file.Path, []byte(res.Content)); err != nil {
		var we *FileWriteError
		if !errors.As(err, &we) {
			err = errors.WithStack(&FileWriteError{Path: file.Path, Stage: StageTemp, Err: err})
		}
		return FileResult{File: file, Outcome: Skipped, Err: err}
	}

	current := w.progress.Add(1)
	w.log.Info().
		Int("replacements", res.Replacements).
		Int("flagged", res.Flagged).
		Msgf("[%d/%d] %s", current, w.total, file.Path)

	return FileResult{
		File:         file,
		Outcome:      Rewritten,
		Replacements: res.Replacements,
		Flagged:      res.Flagged,
	}
}

// newWorker derives the worker logger from the run context.
func newWorker(ctx context.Context, id int, group []SourceFile, rules *RuleSet, writer FileWriter, progress *atomic.Int64, total int) *worker {
	return &worker{
		id:       id,
		group:    group,
		rules:    rules,
		writer:   writer,
		progress: progress,
		total:    total,
		log:      zerolog.Ctx(ctx).With().Int("worker", id).Logger(),
	}
}
