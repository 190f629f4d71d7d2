package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gofurigana/internal/logging"
	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/fsutil"
	"github.com/yaklabco/gofurigana/pkg/layout"
	"github.com/yaklabco/gofurigana/pkg/runner"
)

// stdinName selects inline markup for documents read from stdin.
const stdinName = "stdin.txt"

type renderFlags struct {
	render  string
	flavor  string
	disable bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render one document to stdout",
		Long: `Render a single document with its readings laid out.

With no file, or with "-", inline {base|reading} markup is read from stdin.

Examples:
  furigana render lesson.yml
  furigana render --render html notes.md > notes.html
  echo '{漢字|かんじ}' | furigana render`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.render, "render", "terminal", "renderer: terminal, html, text, markup")
	cmd.Flags().IntVar(&cfg.Width, "width", 0, "line width for terminal alignment (0 = detect)")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.disable, "disable", false, "skip furigana processing and pass text through")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, cfg *config.Config, flags *renderFlags) error {
	ctx, logger := commandContext(cmd)

	if cmd.Flags().Changed("render") {
		cfg.Render = flags.render
	}
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if flags.disable {
		enabled := false
		cfg.Enabled = &enabled
	}
	if cfg.Width == 0 {
		cfg.Width = terminalWidth(cmd.OutOrStdout())
	}

	finalCfg, _, err := loadConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	path := stdinName
	var content []byte
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	} else {
		path = args[0]
		content, _, err = fsutil.ReadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}

	opts, err := runner.PipelineOptionsFromConfig(finalCfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pipeline := runner.NewPipeline(string(finalCfg.Flavor))
	result, err := pipeline.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return err
	}

	renderer, err := layout.NewRenderer(opts.Render, result.Style, opts.Width, opts.Enabled)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	logger.Debug("rendering document",
		logging.FieldInput, path,
		logging.FieldRenderer, opts.Render,
		logging.FieldAnnotations, result.Annotations(),
		logging.FieldInserted, result.Result.Inserted,
	)

	if err := renderer.Render(cmd.OutOrStdout(), result.Result); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
