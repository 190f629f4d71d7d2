// Package attributed provides a mutable text buffer with attribute runs.
//
// A String holds runes plus a contiguous list of runs; every rune belongs to
// exactly one run and every run carries one immutable Attributes map. All
// offsets are rune offsets.
package attributed

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Common attribute keys understood by the bundled layout stages.
const (
	// Font names the font family of a run.
	Font = "font"

	// Foreground is the text color of a run.
	Foreground = "foreground"

	// ParagraphStyle is a paragraph-scoped key: FixAttributes makes it uniform
	// across each paragraph.
	ParagraphStyle = "paragraphStyle"

	// Alignment is a paragraph-scoped key holding left, center or right.
	Alignment = "alignment"
)

// paragraphKeys are the keys FixAttributes normalizes per paragraph.
//
//nolint:gochecknoglobals // Read-only lookup table.
var paragraphKeys = []string{ParagraphStyle, Alignment}

// IsParagraphKey reports whether key is paragraph-scoped.
func IsParagraphKey(key string) bool {
	return slices.Contains(paragraphKeys, key)
}

// Attributes maps attribute keys to values.
// Values stored in a String are never mutated in place; every change
// produces a new map.
type Attributes map[string]string

// Clone returns a copy of a. A nil map clones to nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// Equal reports whether a and b hold the same keys and values.
// A nil map equals an empty one.
func (a Attributes) Equal(b Attributes) bool {
	return maps.Equal(a, b)
}

// With returns a copy of a with key set to value.
func (a Attributes) With(key, value string) Attributes {
	out := make(Attributes, len(a)+1)
	maps.Copy(out, a)
	out[key] = value
	return out
}

// Without returns a copy of a with key removed.
func (a Attributes) Without(key string) Attributes {
	if _, ok := a[key]; !ok {
		return a.Clone()
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// String renders the attributes with sorted keys.
func (a Attributes) String() string {
	keys := slices.Sorted(maps.Keys(a))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, a[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
