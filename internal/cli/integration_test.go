package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofurigana/internal/cli"
	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/furigana"
	"github.com/yaklabco/gofurigana/pkg/reporter"
)

const (
	testMarkup = "{漢字|かんじ}"
	testYAML   = "text: 私は東京に住む\nannotations:\n  - {text: とうきょう, location: 2, length: 2}\n  - {text: す, location: 5, length: 1}\n"
)

// writeFiles creates files under dir from a path to content map.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// writeConfig writes a config file that shields the test from project config.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".furigana.yml")
	require.NoError(t, os.WriteFile(path, []byte("flavor: commonmark\n"+content), 0o644))
	return path
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestIntegration_ProcessText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": testMarkup, "b.yml": testYAML})

	out, err := runCLI(t, "", "process", "--config", writeConfig(t, ""), "--color", "never", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "a.txt (1 annotation, 1 widened)")
	assert.Contains(t, out, "  0..4 漢字 (かんじ) +2\n")
	assert.Contains(t, out, "b.yml (2 annotations, 1 widened)")
	assert.Contains(t, out, "  2..6 東京 (とうきょう) +2\n")
	assert.Contains(t, out, "  7..8 住 (す)\n")
	assert.Contains(t, out, "3 annotations in 2 files, 2 widened, 4 placeholders inserted")
}

func TestIntegration_ProcessJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": testMarkup})

	out, err := runCLI(t, "", "process",
		"--config", writeConfig(t, "placeholder: \"*\"\n"),
		"--format", "json",
		dir,
	)
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))

	require.Len(t, output.Files, 1)
	assert.Equal(t, "*漢字*", output.Files[0].Text)
	assert.Equal(t, "*", output.Files[0].Placeholder)
	require.Len(t, output.Files[0].Spans, 1)
	assert.Equal(t, 4, output.Files[0].Spans[0].Length)
	assert.Equal(t, 1, output.Summary.Annotations)
	assert.Equal(t, 2, output.Summary.Inserted)
}

func TestIntegration_ProcessDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": testMarkup})

	out, err := runCLI(t, "", "process", "--config", writeConfig(t, ""), "--format", "json", "--disable", dir)
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Files, 1)
	assert.Equal(t, "漢字", output.Files[0].Text)
	assert.Empty(t, output.Files[0].Spans)
	assert.Equal(t, 0, output.Summary.Inserted)
}

func TestIntegration_ProcessOut(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeFiles(t, dir, map[string]string{"a.txt": testMarkup})

	out, err := runCLI(t, "", "process",
		"--config", writeConfig(t, ""),
		"--color", "never",
		"--out", outDir,
		"--render", "markup",
		dir,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file rendered")

	rendered, err := os.ReadFile(filepath.Join(outDir, "a.ruby.txt"))
	require.NoError(t, err)
	assert.Equal(t, testMarkup+"\n", string(rendered))
}

func TestIntegration_ProcessFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.txt": testMarkup,
		"bad.yml":  "text: 字\nannotations:\n  - {text: じ, location: 0, length: 5}\n",
	})

	out, err := runCLI(t, "", "process", "--config", writeConfig(t, ""), "--color", "never", dir)
	require.ErrorIs(t, err, cli.ErrProcessFailures)
	assert.Contains(t, out, "bad.yml: error:")
	assert.Contains(t, out, "1 file failed")
}

func TestIntegration_ProcessInvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "", "process", "--config", writeConfig(t, ""), "--format", "sarif", t.TempDir())
	require.Error(t, err)
}

func TestIntegration_RenderStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		render string
		want   string
	}{
		{name: "text", render: "text", want: furigana.DefaultPlaceholder + "漢字" + furigana.DefaultPlaceholder + "\n"},
		{name: "markup", render: "markup", want: testMarkup + "\n"},
		{name: "terminal", render: "terminal", want: "かんじ\n 漢字\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := runCLI(t, testMarkup, "render", "--config", writeConfig(t, ""), "--render", tt.render)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestIntegration_RenderFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"story.yml": testYAML})

	out, err := runCLI(t, "", "render", "--config", writeConfig(t, ""), "--render", "html", filepath.Join(dir, "story.yml"))
	require.NoError(t, err)
	assert.Contains(t, out, "<ruby>東京<rp>(</rp><rt>とうきょう</rt><rp>)</rp></ruby>")
	assert.Contains(t, out, "<ruby>住<rp>(</rp><rt>す</rt><rp>)</rp></ruby>")
}

func TestIntegration_RenderMissingFile(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "", "render", "--config", writeConfig(t, ""), filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestIntegration_EncodeDecode(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "", "encode", "--text", "かんじ", "--original", "漢字")
	require.NoError(t, err)

	encoded := strings.TrimSpace(out)
	fields := strings.Split(encoded, furigana.Delimiter)
	require.Len(t, fields, 3)
	assert.Equal(t, "かんじ", fields[0])
	assert.Equal(t, "漢字", fields[2])

	out, err = runCLI(t, "", "decode", encoded)
	require.NoError(t, err)
	assert.Equal(t, "reading:  かんじ\noriginal: 漢字\n", out)
}

func TestIntegration_EncodeRejectsDelimiter(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "", "encode", "--text", "a|b", "--original", "x")
	require.ErrorIs(t, err, furigana.ErrDelimiterInField)
}

func TestIntegration_DecodeEmpty(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "", "decode", "")
	require.ErrorIs(t, err, cli.ErrEmptyEncoded)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".furigana.yml")

	_, err := runCLI(t, "", "init", "--full", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPlaceholder, cfg.Placeholder)

	_, err = runCLI(t, "", "init", "--output", path)
	require.Error(t, err)

	_, err = runCLI(t, "", "init", "--force", "--output", path)
	require.NoError(t, err)
}
