package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every option with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Turn furigana processing off to render documents verbatim
# enabled: true

# Markdown flavor: commonmark or gfm
flavor: commonmark

# Renderer for --out: terminal, html, text or markup
render: terminal

# Layout style
# style:
#   line_height_multiple: 1.6
#   text_offset_multiple: 0
#   alignment: left

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
`)

	return buf.Bytes()
}

// generateFullTemplate creates a template listing every option.
func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`
#
# This template includes every option with its default setting.

# Turn furigana processing off to render documents verbatim
enabled: true

# Inserted on both sides of a span whose reading is wider than the span.
# The default is U+200B ZERO WIDTH SPACE.
placeholder: "\u200B"

# Layout style passed to renderers
style:
  # Height of base lines relative to the font size
  line_height_multiple: 1.6
  # Extra distance between reading and base line
  text_offset_multiple: 0
  # Paragraph alignment: left, center or right
  alignment: left

# Markdown flavor: commonmark or gfm
flavor: commonmark

# Renderer for --out: terminal, html, text or markup
render: terminal

# Reject documents with unordered or overlapping annotations
strict_order: false

# File extensions to discover
extensions:
  - .yml
  - .yaml
  - .json
  - .txt
  - .md
  - .markdown

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"
`)

	return buf.Bytes()
}

// templateToJSON renders the full default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := map[string]any{
		"enabled":     true,
		"placeholder": DefaultPlaceholder,
		"style": map[string]any{
			"line_height_multiple": DefaultLineHeightMultiple,
			"text_offset_multiple": DefaultTextOffsetMultiple,
			"alignment":            DefaultAlignment,
		},
		"flavor":       string(FlavorCommonMark),
		"render":       DefaultRender,
		"strict_order": false,
		"extensions":   DefaultExtensions,
		"ignore":       []string{"vendor/**", "node_modules/**", ".git/**"},
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# furigana configuration
# See: https://github.com/yaklabco/gofurigana`
}
