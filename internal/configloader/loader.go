// Package configloader resolves the furigana configuration for a run.
//
// Files are discovered per scope (system, user, project or an explicit
// --config path), validated one by one, merged over the defaults, and then
// overridden by FURIGANA_* environment variables and command line flags.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/gofurigana/pkg/config"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Defaults to the
	// process working directory.
	WorkingDir string

	// ExplicitPath is a --config file. It replaces the project config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds flag values; they take precedence over everything else.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config

	// Paths are the files found per scope, loaded or not.
	Paths *ConfigPaths

	// LoadedFrom lists the files merged into Config, lowest precedence first.
	LoadedFrom []string

	// Warnings are validation findings that did not stop loading.
	Warnings []string
}

type layer struct {
	scope  Scope
	path   string
	ignore bool
}

// Load resolves the configuration. Sources are applied in this order, later
// ones winning: defaults, system, user, project or explicit file,
// environment, flags.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	for _, l := range []layer{
		{ScopeSystem, paths.System, opts.IgnoreSystemConfig},
		{ScopeUser, paths.User, opts.IgnoreUserConfig},
		{ScopeProject, paths.Project, opts.IgnoreProjectConfig || opts.ExplicitPath != ""},
		{ScopeExplicit, paths.Explicit, false},
	} {
		if l.ignore || l.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", l.scope, err)
		}
		if validation := ValidateWithFile(fileCfg, l.path); !validation.Valid() {
			return nil, &validation.Errors[0]
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, l.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile reads a YAML or JSON configuration file.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return config.FromYAML(content)
}
