package configloader

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Scope names the level a configuration file applies to.
type Scope string

const (
	ScopeSystem   Scope = "system"
	ScopeUser     Scope = "user"
	ScopeProject  Scope = "project"
	ScopeExplicit Scope = "explicit"
)

// ConfigPaths holds the configuration file found for each scope.
// An empty path means the scope has no file.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// Project files are looked up in each directory in this order. JSON is
// accepted because `furigana init --format json` writes it.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	projectConfigNames = []string{".furigana.yml", ".furigana.yaml", ".furigana.json", "furigana.yml", "furigana.yaml"}
	scopeConfigNames   = []string{"config.yml", "config.yaml", "config.json"}
	repoRootMarkers    = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths finds the system, user and project configuration files for
// a run in workDir. Files that do not exist are left empty.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), scopeConfigNames),
		User:    firstFile(userConfigDir(), scopeConfigNames),
		Project: project,
	}, nil
}

// systemConfigDir is /etc/furigana, or %ProgramData%\furigana on Windows.
func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(cmp.Or(os.Getenv("ProgramData"), `C:\ProgramData`), "furigana")
	}
	return "/etc/furigana"
}

// userConfigDir is $XDG_CONFIG_HOME/furigana, falling back to ~/.config/furigana.
func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "furigana")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "furigana")
}

// FindProjectConfig walks from startDir towards the filesystem root and
// returns the first project configuration file it sees, or "". The walk ends
// at a repository root or the home directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if path := firstFile(dir, projectConfigNames); path != "" {
			return path, nil
		}
		if dir == home || isRepoRoot(dir) {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func isRepoRoot(dir string) bool {
	for _, marker := range repoRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
