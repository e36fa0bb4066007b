package tailwindify

import (
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// TempSuffix is appended to the target path to name the in-flight temp file.
const TempSuffix = ".tmp"

// FileWriter replaces the content of a file.
type FileWriter interface {
	WriteFile(path string, content []byte) error
}

// AtomicWriter writes to a sibling temp file, syncs it, and renames it over
// the target. Readers see either the old or the new content, never a mix.
type AtomicWriter struct {
	// Suffix names the temp file; empty means TempSuffix.
	Suffix string

	// test hooks
	sync   func(*os.File) error
	rename func(oldpath, newpath string) error
}

// NewAtomicWriter returns a writer using TempSuffix.
func NewAtomicWriter() *AtomicWriter {
	return &AtomicWriter{Suffix: TempSuffix}
}

// WriteFile replaces path with content. A symlinked path is resolved first so
// the file it points to is updated and the link is kept. On error the target
// is unchanged and any temp file this call created has been removed. The
// returned error is a *FileWriteError whose Stage tells whether the temp
// write or the rename failed. An existing file at the temp path is never
// overwritten; the write fails with StageTemp instead.
func (w *AtomicWriter) WriteFile(path string, content []byte) error {
	suffix := w.Suffix
	if suffix == "" {
		suffix = TempSuffix
	}

	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	tmp := target + suffix

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	if created, err := w.writeTemp(tmp, content, perm); err != nil {
		if created {
			_ = os.Remove(tmp)
		}
		return errors.WithStack(&FileWriteError{Path: path, Stage: StageTemp, Err: err})
	}

	rename := w.rename
	if rename == nil {
		rename = os.Rename
	}
	if err := rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return errors.WithStack(&FileWriteError{Path: path, Stage: StageRename, Err: err})
	}
	return nil
}

// writeTemp reports whether it created tmp, so callers only clean up their own file.
func (w *AtomicWriter) writeTemp(tmp string, content []byte, perm fs.FileMode) (bool, error) {
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return false, errors.Errorf("creating temp file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return true, errors.Errorf("writing temp file: %w", err)
	}

	syncFile := w.sync
	if syncFile == nil {
		syncFile = (*os.File).Sync
	}
	if err := syncFile(f); err != nil {
		_ = f.Close()
		return true, errors.Errorf("syncing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		return true, errors.Errorf("closing temp file: %w", err)
	}
	return true, nil
}

// DiscardWriter accepts every write without touching disk. Used for dry runs.
type DiscardWriter struct{}

func (DiscardWriter) WriteFile(string, []byte) error { return nil }
