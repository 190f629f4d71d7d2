package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gofurigana/pkg/config"
	"github.com/yaklabco/gofurigana/pkg/document"
	"github.com/yaklabco/gofurigana/pkg/layout"
)

// ValidationError is one problem with a configuration field.
type ValidationError struct {
	// Field is the YAML path of the field, e.g. "style.alignment".
	Field   string
	Value   any
	Message string

	// FilePath is the file the field was read from, when known.
	FilePath string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.FilePath != "" {
		msg = e.FilePath + ": " + msg
	}
	return msg
}

// ValidationResult collects the findings for one configuration.
// Errors stop loading; warnings are reported and ignored.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration. A nil configuration is valid.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	switch cfg.Flavor {
	case "", config.FlavorCommonMark, config.FlavorGFM:
	default:
		result.fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, table, json", cfg.Format)
	}
	if cfg.Render != "" && !layout.Kind(cfg.Render).IsValid() {
		result.fail("render", cfg.Render, "invalid renderer %q; must be one of: terminal, html, text, markup", cfg.Render)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Width < 0 {
		result.fail("width", cfg.Width, "width must be >= 0 (0 means detect)")
	}

	validatePlaceholder(cfg.Placeholder, result)
	validateStyle(cfg.Style, result)

	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if document.DetectFormat("document"+ext) == document.FormatUnknown {
			result.fail(fmt.Sprintf("extensions[%d]", i), cfg.Extensions[i], "no document format reads %q", ext)
		}
	}

	return result
}

// validatePlaceholder rejects line breaks and warns when padding would be
// visible on screen. Empty means the default.
func validatePlaceholder(placeholder string, result *ValidationResult) {
	switch {
	case placeholder == "":
	case strings.ContainsAny(placeholder, "\r\n"):
		result.fail("placeholder", placeholder, "placeholder must not contain line breaks")
	case runewidth.StringWidth(placeholder) > 0:
		result.warn("placeholder", placeholder, "placeholder %q is visible (%d cells); padded spans will show it",
			placeholder, runewidth.StringWidth(placeholder))
	}
}

func validateStyle(style config.StyleConfig, result *ValidationResult) {
	if _, err := layout.ParseAlignment(style.Alignment); err != nil {
		result.fail("style.alignment", style.Alignment, "%v", err)
	}
	if v := style.LineHeightMultiple; v != nil && *v <= 0 {
		result.fail("style.line_height_multiple", *v, "line_height_multiple must be > 0")
	}
	if v := style.TextOffsetMultiple; v != nil && *v < 0 {
		result.fail("style.text_offset_multiple", *v, "text_offset_multiple must be >= 0")
	}
}

// ValidateWithFile validates cfg and tags every finding with filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
