// Package runner provides multi-file furigana processing.
package runner

import (
	"path/filepath"

	"github.com/yaklabco/gofurigana/pkg/config"
)

// Options controls multi-file processing behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered documents. Defaults to config.DefaultExtensions.
	Extensions []string

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// These merge ignore patterns from config and CLI (e.g. --ignore).
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the default set of document file extensions.
func DefaultExtensions() []string {
	var cfg config.Config
	return cfg.ExtensionsOrDefault()
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) > 0 {
		return o.Extensions
	}
	if o.Config != nil {
		return o.Config.ExtensionsOrDefault()
	}
	return DefaultExtensions()
}

// effectiveExcludes merges ExcludeGlobs with the configured ignore patterns.
func (o Options) effectiveExcludes() []string {
	if o.Config == nil || len(o.Config.Ignore) == 0 {
		return o.ExcludeGlobs
	}
	excludes := make([]string, 0, len(o.ExcludeGlobs)+len(o.Config.Ignore))
	excludes = append(excludes, o.ExcludeGlobs...)
	return append(excludes, o.Config.Ignore...)
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// outDir returns the configured output directory resolved against workDir,
// or "" when no output is written.
func (o Options) outDir(workDir string) string {
	if o.Config == nil || o.Config.OutDir == "" {
		return ""
	}
	if filepath.IsAbs(o.Config.OutDir) {
		return filepath.Clean(o.Config.OutDir)
	}
	return filepath.Join(workDir, o.Config.OutDir)
}
