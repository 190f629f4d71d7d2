package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gofurigana/internal/logging"
	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/fsutil"
)

const configFilePermissions = 0o644

// initFileNames maps --format to the file written when --output is unset.
//
//nolint:gochecknoglobals // Read-only lookup table.
var initFileNames = map[string]string{
	"yaml": ".furigana.yml",
	"json": ".furigana.json",
}

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write a .furigana.yml (or .furigana.json) to the current directory.
The minimal template sets the placeholder, style and renderer; --full lists
every option with its default.`,
		Example: `  furigana init
  furigana init --full
  furigana init --format json
  furigana init --output config/furigana.yml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInit(c.Context(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "List every option with its default")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "File format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "File to write (default .furigana.yml or .furigana.json)")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	name, ok := initFileNames[flags.format]
	if !ok {
		return fmt.Errorf("invalid format %q: must be yaml or json", flags.format)
	}
	if flags.output != "" {
		name = flags.output
	}

	path, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	logger := logging.NewInteractive()
	switch _, err := os.Stat(path); {
	case err == nil && !flags.force:
		return fmt.Errorf("file %q already exists; use --force to overwrite", name)
	case err == nil:
		logger.Warn("overwriting existing file", logging.FieldPath, name)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", name, err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, name, "full", flags.full)
	return nil
}
