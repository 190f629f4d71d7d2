package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/document"
	"github.com/yaklabco/gofurigana/pkg/fix"
	"github.com/yaklabco/gofurigana/pkg/fsutil"
	"github.com/yaklabco/gofurigana/pkg/furigana"
	"github.com/yaklabco/gofurigana/pkg/layout"
	"github.com/yaklabco/gofurigana/pkg/parser/goldmark"
)

// Every per-file failure wraps one of these.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure wraps YAML, JSON, markup and Markdown decode errors.
	ErrParseFailure = errors.New("parse failure")

	// ErrInvalidDocument wraps annotations that do not fit the text, bad
	// document styles and strict order violations.
	ErrInvalidDocument = errors.New("invalid document")

	ErrProcessFailure = errors.New("process failure")
	ErrWriteFailure   = errors.New("write failure")
)

// PipelineResult is what happened to one document.
type PipelineResult struct {
	Path     string
	Format   document.Format
	Document *document.Document

	// Result is the engine output with the layout style applied.
	Result *furigana.Result

	// Style is the effective layout style for this document.
	Style layout.Style

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Output is the rendered document (nil unless an output dir is set).
	Output []byte

	// OutputPath is where Output is written.
	OutputPath string

	// Written is true if OutputPath was created or changed.
	Written bool

	// Skipped is true if the output was not written (e.g., due to concurrent modification).
	Skipped bool

	// SkipReason explains why the output was skipped.
	SkipReason string
}

// Annotations returns the number of annotations in the document. Without a
// document it falls back to the number of processed spans.
func (pr *PipelineResult) Annotations() int {
	switch {
	case pr.Document != nil:
		return len(pr.Document.Annotations)
	case pr.Result != nil:
		return len(pr.Result.Spans)
	default:
		return 0
	}
}

// Padded returns the number of spans that received placeholders.
func (pr *PipelineResult) Padded() int {
	if pr.Result == nil {
		return 0
	}
	count := 0
	for _, span := range pr.Result.Spans {
		if span.Padding > 0 {
			count++
		}
	}
	return count
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.Written {
		return "rendered"
	}
	if pr.Result != nil && pr.Result.Inserted > 0 {
		return fmt.Sprintf("widened %d spans", pr.Padded())
	}
	return "ok"
}

// PipelineOptions controls per-document processing.
type PipelineOptions struct {
	// Enabled runs the engine. When false, text is passed through verbatim.
	Enabled bool

	// StrictOrder rejects unordered or overlapping annotations.
	StrictOrder bool

	// Placeholder is inserted around spans with wide readings.
	Placeholder string

	// Style is the layout style. Documents may override it.
	Style layout.Style

	// Render selects the output renderer.
	Render layout.Kind

	// Width is the terminal width for aligned output; 0 disables alignment.
	Width int

	// OutDir receives rendered output. Empty disables rendering.
	OutDir string

	// BaseDir is the root used to mirror input paths under OutDir.
	BaseDir string

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Enabled:             true,
		Placeholder:         furigana.DefaultPlaceholder,
		Style:               layout.DefaultStyle(),
		Render:              layout.KindTerminal,
		StrictRaceDetection: true,
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) (PipelineOptions, error) {
	if cfg == nil {
		return DefaultPipelineOptions(), nil
	}

	alignment, err := layout.ParseAlignment(cfg.Style.AlignmentOrDefault())
	if err != nil {
		return PipelineOptions{}, err
	}

	return PipelineOptions{
		Enabled:     cfg.IsEnabled(),
		StrictOrder: cfg.IsStrictOrder(),
		Placeholder: cfg.PlaceholderOrDefault(),
		Style: layout.Style{
			HostingLineHeightMultiple: cfg.Style.LineHeight(),
			TextOffsetMultiple:        cfg.Style.TextOffset(),
			Alignment:                 alignment,
		},
		Render:              layout.Kind(cfg.Render),
		Width:               cfg.Width,
		OutDir:              cfg.OutDir,
		StrictRaceDetection: true,
	}, nil
}

// Pipeline processes a single document from bytes to a styled result.
type Pipeline struct {
	// Markdown extracts documents from Markdown sources.
	Markdown *goldmark.Parser
}

// NewPipeline creates a pipeline reading Markdown in the given flavor.
func NewPipeline(flavor string) *Pipeline {
	return &Pipeline{Markdown: goldmark.New(flavor)}
}

// ProcessFile reads path and runs ProcessContent on it. When output was
// rendered it is written atomically, unless the source changed while it was
// being processed, in which case the result is marked skipped.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if result.Output == nil {
		return result, nil
	}

	modified, err := checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, result.OutputPath, result.Output, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = written

	return result, nil
}

// ProcessContent processes in-memory content without file I/O.
// The path selects the document format and the output location.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	opts PipelineOptions,
) (*PipelineResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	result := &PipelineResult{
		Path:   path,
		Format: document.DetectFormat(path),
	}

	doc, err := p.load(ctx, path, result.Format, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	result.Document = doc

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	style, err := effectiveStyle(opts.Style, doc.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	result.Style = style

	annotations := doc.FuriganaAnnotations()
	if !opts.Enabled {
		annotations = nil
	}

	if opts.StrictOrder {
		if err := furigana.ValidateOrder(fix.RuneLen(doc.Text), annotations); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}

	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = furigana.DefaultPlaceholder
	}

	res, err := furigana.Process(doc.AttributedText(), annotations, furigana.Options{Placeholder: placeholder})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessFailure, err)
	}
	if err := style.Apply(res.Text); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessFailure, err)
	}
	result.Result = res

	if opts.OutDir == "" {
		return result, nil
	}

	renderer, err := layout.NewRenderer(opts.Render, style, opts.Width, opts.Enabled)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, res); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	result.Output = buf.Bytes()
	result.OutputPath = outputPath(opts, path)

	return result, nil
}

// load decodes content in the given format.
func (p *Pipeline) load(ctx context.Context, path string, format document.Format, content []byte) (*document.Document, error) {
	if format == document.FormatMarkdown {
		markdown := p.Markdown
		if markdown == nil {
			markdown = goldmark.New("")
		}
		return markdown.Extract(ctx, content)
	}
	return document.Load(path, content)
}

// effectiveStyle overlays a document style on the configured one.
func effectiveStyle(base layout.Style, spec *document.StyleSpec) (layout.Style, error) {
	if spec == nil {
		return base, nil
	}

	style := base
	if spec.LineHeightMultiple != nil {
		style.HostingLineHeightMultiple = *spec.LineHeightMultiple
	}
	if spec.TextOffsetMultiple != nil {
		style.TextOffsetMultiple = *spec.TextOffsetMultiple
	}
	if spec.Alignment != "" {
		alignment, err := layout.ParseAlignment(spec.Alignment)
		if err != nil {
			return layout.Style{}, err
		}
		style.Alignment = alignment
	}
	return style, nil
}

// outputPath mirrors path under opts.OutDir with the renderer's extension.
// Paths outside BaseDir are flattened to their base name.
func outputPath(opts PipelineOptions, path string) string {
	rel := filepath.Base(path)
	if opts.BaseDir != "" {
		if r, err := filepath.Rel(opts.BaseDir, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + opts.Render.Extension()
	return filepath.Join(opts.OutDir, rel)
}

func checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	check := fsutil.CheckModifiedQuick
	if strict {
		check = fsutil.CheckModified
	}
	modified, err := check(ctx, info)
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError tags read errors with ErrFileNotFound or ErrPermissionDenied.
func categorizeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}
