// Package furigana encodes ruby annotations and adjusts base text so that
// readings wider than their span have room to be drawn.
//
// Callers build Annotations over rune ranges of the original base text and
// pass them, ordered by location and non-overlapping, to Process. The result
// is the adjusted text with placeholder runes inserted around widened spans,
// plus the final range and encoded payload of every annotation.
package furigana

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yaklabco/gofurigana/pkg/attributed"
)

// Range is a half-open rune range. See attributed.Range.
type Range = attributed.Range

// NewRange returns the range [location, location+length).
func NewRange(location, length int) Range {
	return attributed.NewRange(location, length)
}

// Annotation is an immutable reading attached to a span of base text.
type Annotation struct {
	text     string
	original string
	rng      Range
	id       uuid.UUID
}

// New creates an annotation with a fresh identifier.
// No validation is performed; ordering and bounds are the caller's concern.
func New(text, original string, rng Range) Annotation {
	return Annotation{
		text:     text,
		original: original,
		rng:      rng,
		id:       uuid.New(),
	}
}

// Text returns the reading drawn above the span.
func (a Annotation) Text() string { return a.text }

// Original returns the annotated base substring.
func (a Annotation) Original() string { return a.original }

// Range returns the span in original base-text coordinates.
func (a Annotation) Range() Range { return a.rng }

// ID returns the identifier assigned at construction.
func (a Annotation) ID() uuid.UUID { return a.id }

func (a Annotation) String() string {
	return fmt.Sprintf("%s(%s) at %s", a.original, a.text, a.rng)
}
