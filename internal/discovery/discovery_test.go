package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func tree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range []string{
		"app.js",
		"README.md",
		"src/user.js",
		"src/lib/util.c",
		"node_modules/left-pad/index.js",
		".codefold/config.yml",
		"dist/bundle.min.js",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), "x")
	}
	return root
}

func rel(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover_IncludePatterns(t *testing.T) {
	t.Parallel()

	root := tree(t)
	d, err := New(root, []string{"**/*.js"}, []string{"node_modules/**"})
	require.NoError(t, err)

	files, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "dist/bundle.min.js", "src/user.js"}, rel(t, root, files))
}

func TestDiscover_EmptyIncludeSelectsEverythingNotIgnored(t *testing.T) {
	t.Parallel()

	root := tree(t)
	d, err := New(root, nil, []string{"node_modules/**", "dist/**", "*.md"})
	require.NoError(t, err)

	files, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "src/lib/util.c", "src/user.js"}, rel(t, root, files),
		"settings directory is always skipped")
}

func TestDiscover_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir(), []string{"[unclosed"}, nil)
	assert.Error(t, err)
}

func TestDiscover_CancelledContext(t *testing.T) {
	t.Parallel()

	d, err := New(tree(t), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	d, err := New("/unused", []string{"**/*.c", "src/**"}, []string{"vendor/**"})
	require.NoError(t, err)

	assert.True(t, d.Match("main.c"))
	assert.True(t, d.Match("lib/deep/x.c"))
	assert.True(t, d.Match("src/a/b.txt"))
	assert.False(t, d.Match("notes.txt"))
	assert.False(t, d.Match("vendor/x.c"))
	assert.False(t, d.Match(".codefold/a.c"))
}

func TestIgnored(t *testing.T) {
	t.Parallel()

	d, err := New("/project", nil, []string{"node_modules/**"})
	require.NoError(t, err)

	assert.Equal(t, "/project", d.Root())
	assert.True(t, d.Ignored("node_modules"))
	assert.True(t, d.Ignored(".codefold"))
	assert.False(t, d.Ignored("src"))
}
