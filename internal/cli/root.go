// Package cli provides the Cobra command structure for furigana.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gofurigana/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root furigana command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "furigana",
		Short: "Lay out furigana readings over base text",
		Long: `furigana encodes ruby annotations and reserves room for them in the base text.

Documents are read from YAML, JSON, inline {base|reading} markup or Markdown.
Where a reading is wider than the text it annotates, placeholders are
inserted around the span so the reading fits, and every annotation is
attached to its adjusted range. Results can be reported or rendered to
the terminal, HTML, plain text or markup.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newEncodeCommand())
	rootCmd.AddCommand(newDecodeCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd)

	return rootCmd
}
