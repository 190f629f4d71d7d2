package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/gofurigana/pkg/document"
)

var (
	// ErrUnknownExtension is returned for a configured extension that no
	// document format reads.
	ErrUnknownExtension = errors.New("extension has no document format")

	// ErrInvalidGlob is returned for a malformed include or ignore pattern.
	ErrInvalidGlob = errors.New("invalid glob pattern")
)

// Discover finds documents under the given paths and returns their absolute
// paths, sorted and without duplicates.
//
// Hidden files and directories are skipped, as is the output directory of
// the run so rendered documents are never read back as input. Named files
// pass the same extension and pattern checks as walked ones.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d, err := newDiscoverer(workDir, opts)
	if err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			if d.accept(abs) {
				d.add(abs)
			}
			continue
		}
		if err := d.walk(ctx, abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type discoverer struct {
	workDir        string
	outDir         string
	formats        map[string]document.Format
	include        globSet
	exclude        globSet
	followSymlinks bool

	seen  map[string]struct{}
	files []string
}

func newDiscoverer(workDir string, opts Options) (*discoverer, error) {
	formats, err := extensionFormats(opts.effectiveExtensions())
	if err != nil {
		return nil, err
	}
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.effectiveExcludes())
	if err != nil {
		return nil, err
	}

	return &discoverer{
		workDir:        workDir,
		outDir:         opts.outDir(workDir),
		formats:        formats,
		include:        include,
		exclude:        exclude,
		followSymlinks: opts.FollowSymlinks,
		seen:           make(map[string]struct{}),
	}, nil
}

// extensionFormats maps each extension, lowercased, to the format that reads it.
func extensionFormats(extensions []string) (map[string]document.Format, error) {
	formats := make(map[string]document.Format, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		format := document.DetectFormat("document" + ext)
		if format == document.FormatUnknown {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, ext)
		}
		formats[ext] = format
	}
	return formats, nil
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// accept reports whether the file at path is a document to process.
func (d *discoverer) accept(path string) bool {
	if _, ok := d.formats[strings.ToLower(filepath.Ext(path))]; !ok {
		return false
	}
	rel := d.rel(path)
	if d.exclude.match(rel, false) {
		return false
	}
	return len(d.include) == 0 || d.include.match(rel, false)
}

// skipDir reports whether the walk should not descend into dir.
func (d *discoverer) skipDir(dir, root string) bool {
	if d.outDir != "" && dir == d.outDir {
		return true
	}
	if dir != root && strings.HasPrefix(filepath.Base(dir), ".") {
		return true
	}
	return d.exclude.match(d.rel(dir), true)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if d.skipDir(path, root) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !d.followSymlinks || d.skipDir(target, "") {
					return nil
				}
				// WalkDir does not follow the link itself, so walk its target.
				return d.walk(ctx, target)
			}
		}

		if d.accept(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// globSet matches slash-separated relative paths against compiled patterns.
//
// "*" stays within one path segment and "**" crosses segments. A pattern
// without a slash also matches the base name, a leading "**/" also matches
// at the top level, and "dir/**" also matches dir itself.
type globSet []compiledGlob

type compiledGlob struct {
	pattern  glob.Glob
	baseOnly bool
}

func compileGlobs(patterns []string) (globSet, error) {
	set := make(globSet, 0, len(patterns))
	for _, raw := range patterns {
		pattern := filepath.ToSlash(raw)
		variants := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidGlob, raw, err)
			}
			set = append(set, compiledGlob{pattern: g, baseOnly: !strings.Contains(v, "/")})
		}
	}
	return set, nil
}

func (s globSet) match(rel string, dir bool) bool {
	for _, g := range s {
		if g.pattern.Match(rel) {
			return true
		}
		if dir && g.pattern.Match(rel+"/") {
			return true
		}
		if g.baseOnly && g.pattern.Match(path.Base(rel)) {
			return true
		}
	}
	return false
}
