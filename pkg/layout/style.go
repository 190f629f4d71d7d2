// Package layout turns engine results into something a reader can see.
//
// A Layouter computes where each reading goes relative to its span; a
// Renderer writes a whole result. Style values are passed through from
// configuration and never derived from the text.
package layout

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/gofurigana/pkg/attributed"
)

// Alignment is the horizontal alignment of each paragraph.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// IsValid reports whether a is a known alignment.
func (a Alignment) IsValid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	default:
		return false
	}
}

// ParseAlignment parses an alignment name. The empty string is left.
func ParseAlignment(s string) (Alignment, error) {
	if s == "" {
		return AlignLeft, nil
	}
	a := Alignment(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid alignment %q (valid: left, center, right)", s)
	}
	return a, nil
}

// Style controls how readings are placed relative to the base text.
type Style struct {
	// HostingLineHeightMultiple scales the height of base lines to leave
	// room for readings.
	HostingLineHeightMultiple float64

	// TextOffsetMultiple moves readings further away from the base line, in
	// units of the reading line height.
	TextOffsetMultiple float64

	Alignment Alignment
}

// DefaultStyle returns the style used when nothing is configured.
func DefaultStyle() Style {
	return Style{
		HostingLineHeightMultiple: 1.6,
		TextOffsetMultiple:        0,
		Alignment:                 AlignLeft,
	}
}

// ParagraphStyle formats the style as the value of the attributed
// ParagraphStyle key.
func (s Style) ParagraphStyle() string {
	return "lineHeightMultiple=" + strconv.FormatFloat(s.HostingLineHeightMultiple, 'g', -1, 64) +
		";textOffsetMultiple=" + strconv.FormatFloat(s.TextOffsetMultiple, 'g', -1, 64)
}

// Apply attaches the style to every paragraph of text as paragraph-scoped
// attributes.
func (s Style) Apply(text *attributed.String) error {
	if text.Len() == 0 {
		return nil
	}
	full := text.FullRange()
	if err := text.AddAttribute(attributed.ParagraphStyle, s.ParagraphStyle(), full); err != nil {
		return err
	}
	if err := text.AddAttribute(attributed.Alignment, string(s.Alignment), full); err != nil {
		return err
	}
	return text.FixAttributes(full)
}
