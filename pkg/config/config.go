// Package config defines core configuration types for gofurigana.
// These types are pure data structures with no dependency on the loader.
package config

import "slices"

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies the report format for processed files.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON:
		return true
	default:
		return false
	}
}

// Default style values, mirrored from the layout package so config stays
// dependency free.
const (
	DefaultLineHeightMultiple = 1.6
	DefaultTextOffsetMultiple = 0.0
	DefaultAlignment          = "left"
	DefaultPlaceholder        = "\u200b"
	DefaultRender             = "terminal"
)

// DefaultExtensions are the file extensions discovered when none are configured.
//
//nolint:gochecknoglobals // Read-only default list.
var DefaultExtensions = []string{".yml", ".yaml", ".json", ".txt", ".md", ".markdown"}

// StyleConfig holds layout style settings. Nil fields use the defaults.
type StyleConfig struct {
	// LineHeightMultiple scales base lines to leave room for readings.
	LineHeightMultiple *float64 `yaml:"line_height_multiple,omitempty"`

	// TextOffsetMultiple moves readings away from the base line.
	TextOffsetMultiple *float64 `yaml:"text_offset_multiple,omitempty"`

	// Alignment is left, center or right.
	Alignment string `yaml:"alignment,omitempty"`
}

// LineHeight returns the configured line height multiple or the default.
func (s StyleConfig) LineHeight() float64 {
	if s.LineHeightMultiple == nil {
		return DefaultLineHeightMultiple
	}
	return *s.LineHeightMultiple
}

// TextOffset returns the configured text offset multiple or the default.
func (s StyleConfig) TextOffset() float64 {
	if s.TextOffsetMultiple == nil {
		return DefaultTextOffsetMultiple
	}
	return *s.TextOffsetMultiple
}

// AlignmentOrDefault returns the configured alignment or the default.
func (s StyleConfig) AlignmentOrDefault() string {
	if s.Alignment == "" {
		return DefaultAlignment
	}
	return s.Alignment
}

// Config is the root configuration structure for furigana.
type Config struct {
	// Enabled turns furigana processing on. When false, documents are
	// rendered verbatim.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Placeholder is inserted around spans whose reading is wider than the span.
	Placeholder string `yaml:"placeholder,omitempty"`

	// Style controls reading layout.
	Style StyleConfig `yaml:"style,omitempty"`

	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor,omitempty"`

	// Render is the output renderer: terminal, html, text or markup.
	Render string `yaml:"render,omitempty"`

	// StrictOrder rejects documents whose annotations are unordered or
	// overlapping instead of passing them to the engine.
	StrictOrder *bool `yaml:"strict_order,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// Extensions lists the file extensions to discover.
	Extensions []string `yaml:"extensions,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// OutDir is where rendered output is written; empty disables writing.
	OutDir string `yaml:"-"`

	// Width is the terminal width used for alignment.
	Width int `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	enabled := true
	strict := false
	return &Config{
		Enabled:     &enabled,
		Placeholder: DefaultPlaceholder,
		Flavor:      FlavorCommonMark,
		Render:      DefaultRender,
		StrictOrder: &strict,
		Extensions:  slices.Clone(DefaultExtensions),
		Format:      FormatText,
		Jobs:        0, // 0 means use GOMAXPROCS
	}
}

// IsEnabled reports whether furigana processing is on. Unset means on.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// IsStrictOrder reports whether annotation order is validated.
func (c *Config) IsStrictOrder() bool {
	return c.StrictOrder != nil && *c.StrictOrder
}

// PlaceholderOrDefault returns the configured placeholder or the default.
func (c *Config) PlaceholderOrDefault() string {
	if c.Placeholder == "" {
		return DefaultPlaceholder
	}
	return c.Placeholder
}

// ExtensionsOrDefault returns the configured extensions or the defaults.
func (c *Config) ExtensionsOrDefault() []string {
	if len(c.Extensions) == 0 {
		return slices.Clone(DefaultExtensions)
	}
	return slices.Clone(c.Extensions)
}

// Clone returns a deep copy of the configuration, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	return &Config{
		Enabled:     clonePtr(c.Enabled),
		Placeholder: c.Placeholder,
		Style: StyleConfig{
			LineHeightMultiple: clonePtr(c.Style.LineHeightMultiple),
			TextOffsetMultiple: clonePtr(c.Style.TextOffsetMultiple),
			Alignment:          c.Style.Alignment,
		},
		Flavor:      c.Flavor,
		Render:      c.Render,
		StrictOrder: clonePtr(c.StrictOrder),
		Ignore:      slices.Clone(c.Ignore),
		Extensions:  slices.Clone(c.Extensions),

		Format: c.Format,
		Jobs:   c.Jobs,
		OutDir: c.OutDir,
		Width:  c.Width,
	}
}

// clonePtr returns a pointer to a copy of *p, or nil.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
