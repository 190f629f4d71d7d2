package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofurigana/pkg/attributed"
	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/document"
	"github.com/yaklabco/gofurigana/pkg/furigana"
	"github.com/yaklabco/gofurigana/pkg/layout"
	"github.com/yaklabco/gofurigana/pkg/runner"
)

const ph = furigana.DefaultPlaceholder

const storyYAML = `text: 私は東京に住む
annotations:
  - text: とうきょう
    location: 2
    length: 2
  - text: す
    location: 5
    length: 1
`

func TestNew(t *testing.T) {
	t.Parallel()

	pipeline := runner.NewPipeline(string(config.FlavorGFM))
	r := runner.New(pipeline)

	assert.Same(t, pipeline, r.Pipeline)
	assert.Equal(t, "gfm", pipeline.Markdown.Flavor())
}

func TestPipeline_ProcessContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		content    string
		wantFormat document.Format
		wantText   string
		wantSpans  []furigana.Range
	}{
		{
			name:       "markup",
			path:       "a.txt",
			content:    "{漢字|かんじ}",
			wantFormat: document.FormatRuby,
			wantText:   ph + "漢字" + ph,
			wantSpans:  []furigana.Range{furigana.NewRange(0, 4)},
		},
		{
			name:       "yaml",
			path:       "story.yml",
			content:    storyYAML,
			wantFormat: document.FormatYAML,
			wantText:   "私は" + ph + "東京" + ph + "に住む",
			wantSpans:  []furigana.Range{furigana.NewRange(2, 4), furigana.NewRange(7, 1)},
		},
		{
			name:       "json",
			path:       "lesson.json",
			content:    `{"text":"かんじ","annotations":[{"text":"じ","location":2,"length":1}]}`,
			wantFormat: document.FormatJSON,
			wantText:   "かんじ",
			wantSpans:  []furigana.Range{furigana.NewRange(2, 1)},
		},
		{
			name:       "markdown",
			path:       "README.md",
			content:    "# {字|じ}\n",
			wantFormat: document.FormatMarkdown,
			wantText:   "字",
			wantSpans:  []furigana.Range{furigana.NewRange(0, 1)},
		},
	}

	pipeline := runner.NewPipeline("")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pr, err := pipeline.ProcessContent(context.Background(), tt.path, []byte(tt.content), runner.DefaultPipelineOptions())
			require.NoError(t, err)

			assert.Equal(t, tt.wantFormat, pr.Format)
			assert.Equal(t, tt.wantText, pr.Result.String())

			ranges := make([]furigana.Range, 0, len(pr.Result.Spans))
			for _, span := range pr.Result.Spans {
				ranges = append(ranges, span.Range)
			}
			assert.Equal(t, tt.wantSpans, ranges)
			assert.Nil(t, pr.Output)
		})
	}
}

func TestPipeline_ProcessContent_StyleApplied(t *testing.T) {
	t.Parallel()

	content := "text: ab\nstyle:\n  alignment: right\n  line_height_multiple: 2\n"

	pr, err := runner.NewPipeline("").ProcessContent(context.Background(), "a.yaml", []byte(content), runner.DefaultPipelineOptions())
	require.NoError(t, err)

	assert.Equal(t, layout.AlignRight, pr.Style.Alignment)
	assert.InDelta(t, 2.0, pr.Style.HostingLineHeightMultiple, 1e-9)

	attrs, err := pr.Result.Text.AttributesAt(0)
	require.NoError(t, err)
	assert.Equal(t, "right", attrs[attributed.Alignment])
	assert.Equal(t, "lineHeightMultiple=2;textOffsetMultiple=0", attrs[attributed.ParagraphStyle])
}

func TestPipeline_ProcessContent_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		opts    func(*runner.PipelineOptions)
		wantErr error
	}{
		{
			name:    "unsupported format",
			path:    "a.csv",
			content: "x",
			wantErr: runner.ErrParseFailure,
		},
		{
			name:    "bad markup",
			path:    "a.txt",
			content: "{漢字",
			wantErr: document.ErrMarkup,
		},
		{
			name:    "escaped bar in ruby group",
			path:    "a.txt",
			content: `{a\|b|c}`,
			wantErr: document.ErrMarkup,
		},
		{
			name:    "bar in yaml reading",
			path:    "a.yml",
			content: "text: ab\nannotations:\n  - {text: \"x|y\", location: 0, length: 1}\n",
			wantErr: runner.ErrInvalidDocument,
		},
		{
			name:    "out of bounds",
			path:    "a.yml",
			content: "text: ab\nannotations:\n  - {text: x, location: 1, length: 5}\n",
			wantErr: document.ErrOutOfBounds,
		},
		{
			name:    "bad document alignment",
			path:    "a.yml",
			content: "text: ab\nstyle:\n  alignment: justify\n",
			wantErr: runner.ErrInvalidDocument,
		},
		{
			name:    "unordered in strict mode",
			path:    "a.yml",
			content: "text: abcd\nannotations:\n  - {text: x, location: 2, length: 1}\n  - {text: y, location: 0, length: 1}\n",
			opts:    func(o *runner.PipelineOptions) { o.StrictOrder = true },
			wantErr: furigana.ErrUnordered,
		},
		{
			name:    "unknown renderer",
			path:    "a.txt",
			content: "ab",
			opts:    func(o *runner.PipelineOptions) { o.OutDir = "out"; o.Render = "pdf" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := runner.DefaultPipelineOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}

			_, err := runner.NewPipeline("").ProcessContent(context.Background(), tt.path, []byte(tt.content), opts)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPipeline_ProcessContent_Disabled(t *testing.T) {
	t.Parallel()

	opts := runner.DefaultPipelineOptions()
	opts.Enabled = false
	opts.OutDir = "out"
	opts.Render = layout.KindHTML

	pr, err := runner.NewPipeline("").ProcessContent(context.Background(), "a.txt", []byte("{漢字|かんじ}"), opts)
	require.NoError(t, err)

	assert.Equal(t, "漢字", pr.Result.String())
	assert.Empty(t, pr.Result.Spans)
	assert.Equal(t, "漢字\n", string(pr.Output))
	assert.Equal(t, filepath.Join("out", "a.html"), pr.OutputPath)
}

func TestPipeline_ProcessContent_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.NewPipeline("").ProcessContent(ctx, "a.txt", []byte("ab"), runner.DefaultPipelineOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_ProcessFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := runner.NewPipeline("").ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), runner.DefaultPipelineOptions())
	require.ErrorIs(t, err, runner.ErrFileNotFound)
	assert.True(t, runner.IsPipelineError(err))
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"story.yml":      storyYAML,
		"lines/one.txt":  "{漢字|かんじ}",
		"lines/two.txt":  "{漢|かん}{字|じ}",
		"lines/bad.txt":  "{unterminated",
		"notes/plain.md": "plain text\n",
	})

	cfg := config.NewConfig()
	cfg.Jobs = 3

	result, err := runner.New(runner.NewPipeline("")).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Jobs:       cfg.Jobs,
		Config:     cfg,
	})
	require.NoError(t, err)

	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"lines/bad.txt", "lines/one.txt", "lines/two.txt", "notes/plain.md", "story.yml"}, relAll(t, dir, paths))

	assert.Equal(t, runner.Stats{
		FilesDiscovered: 5,
		FilesProcessed:  4,
		FilesErrored:    1,
		Annotations:     5,
		SpansPadded:     3,
		Inserted:        6,
	}, result.Stats)
	assert.True(t, result.HasFailures())
	require.ErrorIs(t, result.Files[0].Error, document.ErrMarkup)
}

func TestRunner_Run_RendersOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeTree(t, dir, map[string]string{
		"a.txt":        "{漢字|かんじ}",
		"nested/b.yml": "text: 字\nannotations:\n  - {text: じ, location: 0, length: 1}\n",
	})

	cfg := config.NewConfig()
	cfg.Render = string(layout.KindMarkup)
	cfg.OutDir = out

	run := func() *runner.Result {
		result, err := runner.New(runner.NewPipeline("")).Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Config:     cfg,
		})
		require.NoError(t, err)
		return result
	}

	result := run()
	assert.Equal(t, 2, result.Stats.FilesRendered)
	assert.False(t, result.HasFailures())

	got, err := os.ReadFile(filepath.Join(out, "a.ruby.txt"))
	require.NoError(t, err)
	assert.Equal(t, "{漢字|かんじ}\n", string(got))

	got, err = os.ReadFile(filepath.Join(out, "nested", "b.ruby.txt"))
	require.NoError(t, err)
	assert.Equal(t, "{字|じ}\n", string(got))

	// Unchanged output is not rewritten.
	assert.Equal(t, 0, run().Stats.FilesRendered)
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 12 {
		files[filepath.Join("docs", string(rune('a'+i))+".txt")] = "{漢|かん}{字|じ}と{仮名|かな}"
	}
	writeTree(t, dir, files)

	run := func(jobs int) *runner.Result {
		result, err := runner.New(runner.NewPipeline("")).Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Jobs:       jobs,
		})
		require.NoError(t, err)
		return result
	}

	serial := run(1)
	parallel := run(8)

	assert.Equal(t, serial.Stats, parallel.Stats)
	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Result.Result.String(), parallel.Files[i].Result.Result.String())
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "ab"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(runner.NewPipeline("")).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(runner.NewPipeline("")).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasFailures())
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	opts, err := runner.PipelineOptionsFromConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, runner.DefaultPipelineOptions(), opts)

	enabled := false
	offset := 0.5
	cfg := &config.Config{
		Enabled:     &enabled,
		Placeholder: "_",
		Style:       config.StyleConfig{TextOffsetMultiple: &offset, Alignment: "center"},
		Render:      "html",
		Width:       40,
	}
	opts, err = runner.PipelineOptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.False(t, opts.Enabled)
	assert.Equal(t, "_", opts.Placeholder)
	assert.Equal(t, layout.Style{HostingLineHeightMultiple: 1.6, TextOffsetMultiple: 0.5, Alignment: layout.AlignCenter}, opts.Style)
	assert.Equal(t, layout.KindHTML, opts.Render)
	assert.Equal(t, 40, opts.Width)

	cfg.Style.Alignment = "justify"
	_, err = runner.PipelineOptionsFromConfig(cfg)
	require.Error(t, err)
}

func TestPipelineResult_Annotations(t *testing.T) {
	t.Parallel()

	res, err := furigana.ProcessString("私は東京に住む", []furigana.Annotation{
		furigana.New("とうきょう", "東京", furigana.NewRange(2, 2)),
		furigana.New("す", "住", furigana.NewRange(5, 1)),
	}, furigana.DefaultOptions())
	require.NoError(t, err)

	tests := []struct {
		name string
		pr   runner.PipelineResult
		want int
	}{
		{name: "empty", want: 0},
		{name: "result only", pr: runner.PipelineResult{Result: res}, want: 2},
		{
			name: "document wins",
			pr: runner.PipelineResult{
				Document: &document.Document{Text: "私は東京に住む"},
				Result:   res,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.pr.Annotations())
			if tt.pr.Result != nil {
				assert.Equal(t, 1, tt.pr.Padded())
			}
		})
	}
}
