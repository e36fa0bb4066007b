package tailwindify

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// writeTree creates files (relative path -> content) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func relPaths(t *testing.T, root string, files []SourceFile) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"App.vue":                "",
		"README.md":              "",
		"b/index.TS":             "",
		"b/nested/deep/Card.jsx": "",
		"b/style.css":            "",
		"a/main.js":              "",
		"a/types.d.ts":           "",
		"c/Button.tsx":           "",
		"noext":                  "",
	})

	files, err := Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"App.vue",
		"a/main.js",
		"a/types.d.ts",
		"b/index.TS",
		"b/nested/deep/Card.jsx",
		"c/Button.tsx",
	}, relPaths(t, root, files))

	for _, f := range files {
		assert.Contains(t, DefaultExtensions, f.Ext)
	}
	assert.Equal(t, "ts", files[3].Ext, "extension is lower cased")
}

func TestDiscover_CustomExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.svelte": "",
		"b.js":     "",
		"c.HTML":   "",
	})

	files, err := Discover(context.Background(), root, DiscoverOptions{Extensions: []string{".svelte", "html"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.svelte", "c.HTML"}, relPaths(t, root, files))
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	files, err := Discover(context.Background(), t.TempDir(), DiscoverOptions{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := Discover(context.Background(), missing, DiscoverOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDirectoryRead))

	var dre *DirectoryReadError
	require.True(t, errors.As(err, &dre))
	assert.Equal(t, missing, dre.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDiscover_UnreadableSubdirectoryIsFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := writeTree(t, map[string]string{
		"ok.js":         "",
		"locked/in.vue": "",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	files, err := Discover(context.Background(), root, DiscoverOptions{})
	require.Error(t, err)
	assert.Nil(t, files)

	var dre *DirectoryReadError
	require.True(t, errors.As(err, &dre))
	assert.Equal(t, locked, dre.Path)
}

func TestDiscover_RootIsFile(t *testing.T) {
	root := writeTree(t, map[string]string{"one.vue": "", "two.css": ""})

	for _, name := range []string{"one.vue", "two.css"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(root, name)

			files, err := Discover(context.Background(), path, DiscoverOptions{})
			require.Error(t, err)
			assert.Nil(t, files)
			assert.True(t, errors.Is(err, ErrDirectoryRead))
			assert.True(t, errors.Is(err, syscall.ENOTDIR))

			var dre *DirectoryReadError
			require.True(t, errors.As(err, &dre))
			assert.Equal(t, path, dre.Path)
		})
	}
}

func TestDiscover_FollowsSymlinks(t *testing.T) {
	shared := writeTree(t, map[string]string{"Shared.vue": ""})
	root := writeTree(t, map[string]string{"local.js": ""})

	if err := os.Symlink(shared, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.js"), filepath.Join(root, "dangling.js")))

	files, err := Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"linked/Shared.vue", "local.js"}, relPaths(t, root, files))
}

func TestDiscover_Exclude(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.vue":                  "",
		"src/gen/api.ts":               "",
		"node_modules/lib/index.js":    "",
		"packages/x/node_modules/y.js": "",
	})

	files, err := Discover(context.Background(), root, DiscoverOptions{
		Exclude: []string{"**/node_modules", "src/gen/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/App.vue"}, relPaths(t, root, files))
}

func TestDiscover_InvalidExclude(t *testing.T) {
	_, err := Discover(context.Background(), t.TempDir(), DiscoverOptions{Exclude: []string{"[unclosed"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestDiscover_Gitignore(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":     "dist/\n*.min.js\n",
		"dist/bundle.js": "",
		"src/app.min.js": "",
		"src/app.js":     "",
	})

	files, err := Discover(context.Background(), root, DiscoverOptions{RespectGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.js"}, relPaths(t, root, files))

	// off by default
	files, err = Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscover_GitignoreMissingIsFine(t *testing.T) {
	root := writeTree(t, map[string]string{"a.js": ""})

	files, err := Discover(context.Background(), root, DiscoverOptions{RespectGitignore: true})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
