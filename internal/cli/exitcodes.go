package cli

import "github.com/yaklabco/gofurigana/pkg/runner"

// Exit codes for furigana.
const (
	// ExitSuccess indicates every file was processed.
	ExitSuccess = 0

	// ExitProcessErrors indicates at least one file failed to process.
	ExitProcessErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code for a processing run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitProcessErrors
	}
	return ExitSuccess
}
