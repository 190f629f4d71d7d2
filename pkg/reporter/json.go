package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gofurigana/pkg/furigana"
	"github.com/yaklabco/gofurigana/pkg/runner"
)

// jsonSchemaVersion identifies the layout of JSONOutput.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary runner.Stats     `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string     `json:"path"`
	Format      string     `json:"format,omitempty"`
	Text        string     `json:"text,omitempty"`
	Spans       []JSONSpan `json:"spans"`
	Inserted    int        `json:"inserted"`
	Placeholder string     `json:"placeholder,omitempty"`
	Output      string     `json:"output,omitempty"`
	Written     bool       `json:"written,omitempty"`
	Skipped     string     `json:"skipped,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// JSONSpan represents one adjusted annotation.
type JSONSpan struct {
	Location int    `json:"location"`
	Length   int    `json:"length"`
	Reading  string `json:"reading"`
	Original string `json:"original"`
	Padding  int    `json:"padding"`
	Value    string `json:"value"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report writes one JSON document covering every file and the run stats.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := JSONOutput{Version: jsonSchemaVersion, Files: []JSONFileResult{}}
	if result != nil {
		output.Summary = result.Stats
		for _, file := range result.Files {
			output.Files = append(output.Files, r.fileResult(file))
		}
	}

	enc := json.NewEncoder(r.bw)
	enc.SetEscapeHTML(false)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	return output.Summary.Annotations, nil
}

func (r *JSONReporter) fileResult(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:  displayPath(file.Path, r.opts.WorkingDir),
		Spans: []JSONSpan{},
	}
	if file.Error != nil {
		out.Error = file.Error.Error()
	}

	pr := file.Result
	if pr == nil {
		return out
	}
	out.Format = string(pr.Format)
	out.Written = pr.Written
	out.Skipped = pr.SkipReason
	if pr.OutputPath != "" {
		out.Output = displayPath(pr.OutputPath, r.opts.WorkingDir)
	}

	if res := pr.Result; res != nil {
		out.Text = res.String()
		out.Inserted = res.Inserted
		out.Placeholder = res.Placeholder
		out.Spans = jsonSpans(res.Spans)
	}
	return out
}

func jsonSpans(spans []furigana.Span) []JSONSpan {
	out := make([]JSONSpan, len(spans))
	for i, span := range spans {
		out[i] = JSONSpan{
			Location: span.Range.Location,
			Length:   span.Range.Length,
			Reading:  span.Reading(),
			Original: span.Original(),
			Padding:  span.Padding,
			Value:    span.Value,
		}
	}
	return out
}
