package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gofurigana/internal/logging"
	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/reporter"
	"github.com/yaklabco/gofurigana/pkg/runner"
)

// ErrProcessFailures is returned when one or more files failed to process.
var ErrProcessFailures = errors.New("some files failed to process")

type processFlags struct {
	format    string
	flavor    string
	render    string
	ignore    []string
	strict    bool
	disable   bool
	noSpans   bool
	noSummary bool
	compact   bool
}

func newProcessCommand() *cobra.Command {
	var cfg config.Config
	flags := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process [paths...]",
		Short: "Adjust annotated documents and report their spans",
		Long:  processLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, &cfg, flags)
		},
	}

	addProcessFlags(cmd, &cfg, flags)

	return cmd
}

const processLongDescription = `Process annotated documents and report the adjusted spans.

By default, processes every .yml, .yaml, .json, .txt, .md and .markdown file
in the current directory and subdirectories. Specify paths to process
specific files or directories.

With --out, each document is also rendered and written under the output
directory, mirroring the input layout.

Examples:
  furigana process                      # Process current directory
  furigana process docs/                # Process docs directory
  furigana process lesson.txt           # Process single file
  furigana process --out build --render html
  furigana process --format json        # Output as JSON for CI
  furigana process --strict-order       # Reject unordered annotations`

func runProcess(cmd *cobra.Command, args []string, cfg *config.Config, flags *processFlags) error {
	ctx, logger := commandContext(cmd)

	// Only set values that were explicitly provided via CLI flags.
	cfg.Format = config.OutputFormat(flags.format)
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if cmd.Flags().Changed("render") {
		cfg.Render = flags.render
	}
	if cmd.Flags().Changed("strict-order") {
		cfg.StrictOrder = &flags.strict
	}
	if flags.disable {
		enabled := false
		cfg.Enabled = &enabled
	}
	cfg.Ignore = flags.ignore
	if cfg.Width == 0 {
		cfg.Width = terminalWidth(cmd.OutOrStdout())
	}

	finalCfg, workDir, err := loadConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	pipeline := runner.NewPipeline(string(finalCfg.Flavor))
	fileRunner := runner.New(pipeline)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   finalCfg.ExtensionsOrDefault(),
		ExcludeGlobs: finalCfg.Ignore,
		Jobs:         finalCfg.Jobs,
		Config:       finalCfg,
	}

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldOutput, finalCfg.OutDir,
	)

	result, err := fileRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("run failed"), err)
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithErrors, result.Stats.FilesErrored,
		logging.FieldFilesRendered, result.Stats.FilesRendered,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowSpans:   !flags.noSpans,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		Width:       finalCfg.Width,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrProcessFailures
	}

	return nil
}

func addProcessFlags(cmd *cobra.Command, cfg *config.Config, flags *processFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "report format: text, table, json")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVarP(&cfg.OutDir, "out", "o", "", "write rendered documents to this directory")
	cmd.Flags().StringVar(&flags.render, "render", "terminal", "renderer for --out: terminal, html, text, markup")
	cmd.Flags().IntVar(&cfg.Width, "width", 0, "line width for terminal alignment (0 = detect)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.strict, "strict-order", false, "reject unordered or overlapping annotations")
	cmd.Flags().BoolVar(&flags.disable, "disable", false, "skip furigana processing and pass text through")
	cmd.Flags().BoolVar(&flags.noSpans, "no-spans", false, "hide per-span lines in text output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the run summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
}
