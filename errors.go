package tailwindify

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	ErrDirectoryRead = errors.New("cannot read directory")
	ErrRuleCompile   = errors.New("cannot compile rule pattern")
	ErrFileRead      = errors.New("cannot read file")
	ErrFileWrite     = errors.New("cannot write file")
	ErrWorkerFault   = errors.New("worker fault")
)

// DirectoryReadError is fatal: discovery stops and the run aborts.
type DirectoryReadError struct {
	Path string
	Err  error
}

func (e *DirectoryReadError) Error() string {
	return fmt.Sprintf("cannot read directory %s", e.Path)
}

func (e *DirectoryReadError) Unwrap() error { return e.Err }

func (e *DirectoryReadError) Is(target error) bool { return target == ErrDirectoryRead }

// RuleCompileError reports a rule pattern that failed to compile.
// It is returned before any file is touched.
type RuleCompileError struct {
	Pattern string
	Err     error
}

func (e *RuleCompileError) Error() string {
	return fmt.Sprintf("cannot compile rule pattern %q", e.Pattern)
}

func (e *RuleCompileError) Unwrap() error { return e.Err }

func (e *RuleCompileError) Is(target error) bool { return target == ErrRuleCompile }

// FileReadError skips a single file.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read file %s", e.Path)
}

func (e *FileReadError) Unwrap() error { return e.Err }

func (e *FileReadError) Is(target error) bool { return target == ErrFileRead }

// WriteStage identifies which step of an atomic write failed.
type WriteStage string

const (
	// StageTemp covers creating, writing, syncing and closing the temporary file.
	StageTemp WriteStage = "temp"
	// StageRename is the final rename onto the target path.
	StageRename WriteStage = "rename"
)

// FileWriteError skips a single file. In both stages the target file is left
// with its previous content.
type FileWriteError struct {
	Path  string
	Stage WriteStage
	Err   error
}

func (e *FileWriteError) Error() string {
	switch e.Stage {
	case StageRename:
		return fmt.Sprintf("cannot replace file %s (original kept)", e.Path)
	default:
		return fmt.Sprintf("cannot write temporary file for %s (original kept)", e.Path)
	}
}

func (e *FileWriteError) Unwrap() error { return e.Err }

func (e *FileWriteError) Is(target error) bool { return target == ErrFileWrite }

// Replaced reports whether the target path holds the new content.
// It is always false: a FileWriteError is only returned when the rename did not happen.
func (e *FileWriteError) Replaced() bool { return false }

// WorkerFaultError is a failure that escaped a worker's per-file handling.
type WorkerFaultError struct {
	Group int
	Value any
	Stack []byte
}

func (e *WorkerFaultError) Error() string {
	return fmt.Sprintf("worker %d crashed: %v", e.Group, e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *WorkerFaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func (e *WorkerFaultError) Is(target error) bool { return target == ErrWorkerFault }
