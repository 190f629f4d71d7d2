package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gofurigana/internal/ui/pretty"
	"github.com/yaklabco/gofurigana/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to process."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return annotationCount(result), nil
}

// reportFile writes the header and spans of one file.
func (r *TextReporter) reportFile(file runner.FileOutcome) {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return
	}

	if file.Result == nil {
		return
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, file.Result.Annotations(), file.Result.Padded()))

	if r.opts.ShowSpans {
		for _, row := range pretty.SpanRows(file.Result.Result) {
			r.writeSpan(row)
		}
	}

	switch {
	case file.Result.Written:
		fmt.Fprintf(r.bw, "  %s %s\n", r.styles.Dim.Render("wrote"), displayPath(file.Result.OutputPath, r.opts.WorkingDir))
	case file.Result.Skipped:
		fmt.Fprintf(r.bw, "  %s %s\n", r.styles.Warning.Render("skipped:"), file.Result.SkipReason)
	}
}

// writeSpan writes one span line: range, reading, original and padding.
func (r *TextReporter) writeSpan(row pretty.SpanRow) {
	fmt.Fprintf(r.bw, "  %s %s %s",
		r.styles.Range.Render(row.Range),
		r.styles.Original.Render(row.Original),
		r.styles.Reading.Render("("+row.Reading+")"),
	)
	if row.Padding > 0 {
		fmt.Fprint(r.bw, " "+r.styles.Padding.Render(fmt.Sprintf("+%d", row.Padding)))
	}
	fmt.Fprintln(r.bw)
}
