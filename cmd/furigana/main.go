// Package main is the entry point for the furigana CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/gofurigana/internal/cli"
	"github.com/yaklabco/gofurigana/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, cli.ErrProcessFailures):
			// Already reported per file.
			return cli.ExitProcessErrors
		case errors.Is(err, cli.ErrConfig):
			logging.Default().Error("command failed", logging.FieldError, err)
			return cli.ExitConfigError
		default:
			logging.Default().Error("command failed", logging.FieldError, err)
			return cli.ExitInternalError
		}
	}

	return cli.ExitSuccess
}
