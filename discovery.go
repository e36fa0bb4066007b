package tailwindify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtensions are the front-end source types scanned by default.
var DefaultExtensions = []string{"vue", "tsx", "jsx", "js", "ts"}

// SourceFile is one unit of work found by Discover.
type SourceFile struct {
	Path string
	Ext  string // lower case, no leading dot
}

// DiscoverOptions controls which files Discover returns.
type DiscoverOptions struct {
	Extensions       []string // case-insensitive, with or without leading dot; empty means DefaultExtensions
	Exclude          []string // doublestar globs relative to the root, e.g. "**/node_modules"
	RespectGitignore bool     // drop paths matched by <root>/.gitignore
}

// discoverer holds the per-call filtering state
type discoverer struct {
	root      string
	exts      map[string]bool
	exclude   []string
	gitignore *ignore.GitIgnore
	log       *zerolog.Logger
}

// Discover walks root depth-first, in name order, and returns every regular
// file whose extension is allowed. Symlinks are followed. A directory that
// cannot be read, including a root that is not a directory, aborts the walk
// with a *DirectoryReadError.
func Discover(ctx context.Context, root string, opts DiscoverOptions) ([]SourceFile, error) {
	d := &discoverer{
		root:    root,
		exts:    normalizeExtensions(opts.Extensions),
		exclude: opts.Exclude,
		log:     zerolog.Ctx(ctx),
	}

	for _, pattern := range d.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	if opts.RespectGitignore {
		d.gitignore = loadGitIgnore(root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WithStack(&DirectoryReadError{Path: root, Err: err})
	}
	if !info.IsDir() {
		return nil, errors.WithStack(&DirectoryReadError{Path: root, Err: syscall.ENOTDIR})
	}

	var files []SourceFile
	if err := d.walk(root, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (d *discoverer) walk(dir string, files *[]SourceFile) error {
	d.log.Debug().Str("dir", dir).Msg("scanning directory")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.WithStack(&DirectoryReadError{Path: dir, Err: err})
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		// os.Stat follows symlinks, DirEntry.Info does not
		info, err := os.Stat(path)
		if err != nil {
			d.log.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			continue
		}

		if d.excluded(path, info.IsDir()) {
			d.log.Debug().Str("path", path).Msg("excluded")
			continue
		}

		if info.IsDir() {
			if err := d.walk(path, files); err != nil {
				return err
			}
			continue
		}

		if f, ok := d.match(path, info); ok {
			*files = append(*files, f)
		} else {
			d.log.Debug().Str("path", path).Msg("skipping unsupported file type")
		}
	}
	return nil
}

func (d *discoverer) match(path string, info os.FileInfo) (SourceFile, bool) {
	if !info.Mode().IsRegular() {
		return SourceFile{}, false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !d.exts[ext] {
		return SourceFile{}, false
	}
	return SourceFile{Path: path, Ext: ext}, true
}

// excluded applies the exclude globs and the gitignore, both against the
// slash-separated path relative to the root.
func (d *discoverer) excluded(path string, isDir bool) bool {
	if len(d.exclude) == 0 && d.gitignore == nil {
		return false
	}

	rel, err := filepath.Rel(d.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range d.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}

	if d.gitignore != nil {
		if isDir && d.gitignore.MatchesPath(rel+"/") {
			return true
		}
		if d.gitignore.MatchesPath(rel) {
			return true
		}
	}
	return false
}

// loadGitIgnore reads <root>/.gitignore. A missing file disables the filter.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func normalizeExtensions(exts []string) map[string]bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = true
		}
	}
	return set
}
