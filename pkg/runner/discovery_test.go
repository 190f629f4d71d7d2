package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/runner"
)

// writeTree creates files (relative to dir) with the given content.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relAll returns paths relative to dir with forward slashes.
func relAll(t *testing.T, dir string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tree := map[string]string{
		"story.yml":               "text: x",
		"lesson.json":             "{}",
		"lines.txt":               "{漢|かん}",
		"docs/guide.md":           "# Guide",
		"docs/api.markdown":       "# API",
		"src/main.go":             "package main",
		"vendor/pkg/doc.md":       "vendored",
		"node_modules/lib/a.yaml": "text: y",
		".hidden.md":              "hidden",
		".git/config.md":          "git",
		"docs/.secret.txt":        "secret",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extensions",
			opts: runner.Options{Paths: []string{"."}, ExcludeGlobs: []string{"vendor/**", "node_modules/**"}},
			want: []string{"docs/api.markdown", "docs/guide.md", "lesson.json", "lines.txt", "story.yml"},
		},
		{
			name: "defaults to working directory",
			opts: runner.Options{Extensions: []string{".yml"}},
			want: []string{"story.yml"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Paths: []string{"."}, Extensions: []string{"json", ".TXT"}},
			want: []string{"lesson.json", "lines.txt"},
		},
		{
			name: "double star prefix matches top level",
			opts: runner.Options{Paths: []string{"."}, ExcludeGlobs: []string{"**/docs/**", "**/*.json", "vendor", "node_modules/**"}},
			want: []string{"lines.txt", "story.yml"},
		},
		{
			name: "include globs",
			opts: runner.Options{Paths: []string{"."}, IncludeGlobs: []string{"docs/**"}},
			want: []string{"docs/api.markdown", "docs/guide.md"},
		},
		{
			name: "config ignore patterns",
			opts: runner.Options{
				Paths:  []string{"docs", "story.yml"},
				Config: &config.Config{Ignore: []string{"*.markdown"}},
			},
			want: []string{"docs/guide.md", "story.yml"},
		},
		{
			name: "config extensions",
			opts: runner.Options{
				Paths:  []string{"."},
				Config: &config.Config{Extensions: []string{".json"}},
			},
			want: []string{"lesson.json"},
		},
		{
			name: "duplicate paths",
			opts: runner.Options{Paths: []string{"story.yml", "./story.yml", "story.yml"}},
			want: []string{"story.yml"},
		},
	}

	dir := t.TempDir()
	writeTree(t, dir, tree)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = dir

			got, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, dir, got))
		})
	}
}

func TestDiscover_SkipsOutputDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":               "{漢字|かんじ}",
		"rendered/a.ruby.txt": "{漢字|かんじ}",
		"rendered/a.txt":      "かんじ",
	})

	for _, out := range []string{"rendered", filepath.Join(dir, "rendered")} {
		cfg := config.NewConfig()
		cfg.OutDir = out

		got, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt"}, relAll(t, dir, got), out)
	}
}

func TestDiscover_OptionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts runner.Options
		want error
	}{
		{name: "extension without format", opts: runner.Options{Extensions: []string{".go"}}, want: runner.ErrUnknownExtension},
		{name: "malformed ignore", opts: runner.Options{ExcludeGlobs: []string{"docs/[a"}}, want: runner.ErrInvalidGlob},
		{name: "malformed include", opts: runner.Options{IncludeGlobs: []string{"[a"}}, want: runner.ErrInvalidGlob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = t.TempDir()
			_, err := runner.Discover(context.Background(), opts)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDiscover_DeterministicOrdering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"z.txt": "", "a.txt": "", "m.yml": "", "b.md": ""})

	opts := runner.Options{Paths: []string{"."}, WorkingDir: dir}

	first, err := runner.Discover(context.Background(), opts)
	require.NoError(t, err)
	assert.IsIncreasing(t, first)

	for range 4 {
		again, err := runner.Discover(context.Background(), opts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"nonexistent"},
		WorkingDir: t.TempDir(),
	})
	require.Error(t, err)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "", "b.txt": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{Paths: []string{"."}, WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"real/doc.txt": "{字|じ}"})

	external := t.TempDir()
	writeTree(t, external, map[string]string{"external.yml": "text: x"})

	if err := os.Symlink(external, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "real", "doc.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	opts := runner.Options{Paths: []string{"."}, WorkingDir: dir}

	got, err := runner.Discover(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"link.txt", "real/doc.txt"}, relAll(t, dir, got))

	opts.FollowSymlinks = true
	got, err = runner.Discover(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.DefaultExtensions, runner.DefaultExtensions())
}
