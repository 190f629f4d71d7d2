package furigana

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gofurigana/pkg/attributed"
	"github.com/yaklabco/gofurigana/pkg/fix"
)

// DefaultPlaceholder is ZERO WIDTH SPACE: no visible glyph, but a real
// character a layout stage can reserve advance for.
const DefaultPlaceholder = "\u200b"

var (
	// ErrInvalidRange is returned for annotations with a negative location or length.
	ErrInvalidRange = errors.New("invalid annotation range")

	// ErrEmptyPlaceholder is returned when Options.Placeholder is empty.
	ErrEmptyPlaceholder = errors.New("placeholder must not be empty")
)

// RangeError reports an annotation the engine could not place.
type RangeError struct {
	// Index is the position of the annotation in the input.
	Index int
	Range Range
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("annotation %d at %s: %v", e.Index, e.Range, e.Err)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

// Options configures Process.
type Options struct {
	// Placeholder is inserted on both sides of a span whose reading is wider
	// than the span.
	Placeholder string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Placeholder: DefaultPlaceholder}
}

// Span is the final range of one annotation in the adjusted text together
// with its encoded payload.
type Span struct {
	Range Range  `json:"range"`
	Value string `json:"value"`

	// Padding is the number of placeholder runes inside Range.
	Padding int `json:"padding"`
}

// Reading decodes the reading carried by the span.
func (s Span) Reading() string {
	reading, _ := DecodeReading(s.Value)
	return reading
}

// Original decodes the base substring carried by the span.
func (s Span) Original() string {
	original, _ := DecodeOriginal(s.Value)
	return original
}

// Result is an immutable snapshot produced by Process.
type Result struct {
	// Text is the adjusted text with AttributeName attached over every span.
	Text *attributed.String

	// Spans holds one entry per input annotation, in input order.
	Spans []Span

	// Inserted is the total number of placeholder runes added.
	Inserted int

	// Insertions records every placeholder in original base-text offsets.
	// fix.ApplyEdits(base, Insertions) reproduces Text.
	Insertions []fix.TextEdit

	// Placeholder is the string that was inserted.
	Placeholder string
}

// String returns the adjusted plain text.
func (r *Result) String() string {
	return r.Text.String()
}

// ProcessString runs Process over plain text.
func ProcessString(base string, annotations []Annotation, opts Options) (*Result, error) {
	return Process(attributed.New(base), annotations, opts)
}

// Process reserves room for every annotation whose reading is wider than its
// span and attaches the encoded annotation to its final range.
//
// Annotations must be ordered by location and must not overlap; Process does
// not sort or repair them (see ValidateOrder). base is not modified.
// Offsets outside the text fail with an error wrapping attributed.ErrOutOfRange.
func Process(base *attributed.String, annotations []Annotation, opts Options) (*Result, error) {
	if opts.Placeholder == "" {
		return nil, ErrEmptyPlaceholder
	}
	phLen := fix.RuneLen(opts.Placeholder)

	text := base.Clone()
	result := &Result{
		Text:        text,
		Spans:       make([]Span, 0, len(annotations)),
		Placeholder: opts.Placeholder,
	}
	if len(annotations) == 0 {
		return result, nil
	}

	inserted := 0
	for i, ann := range annotations {
		rng := ann.Range()
		if rng.Location < 0 || rng.Length < 0 {
			return nil, &RangeError{Index: i, Range: rng, Err: ErrInvalidRange}
		}

		final := rng.Shift(inserted)
		padding := 0
		if fix.RuneLen(ann.Text()) > rng.Length {
			start := rng.Location + inserted
			end := start + rng.Length

			attrs, err := placeholderAttributes(text, start)
			if err != nil {
				return nil, &RangeError{Index: i, Range: rng, Err: err}
			}
			// End first, so start stays valid.
			if err := text.Insert(end, opts.Placeholder, attrs); err != nil {
				return nil, &RangeError{Index: i, Range: rng, Err: err}
			}
			if err := text.Insert(start, opts.Placeholder, attrs); err != nil {
				return nil, &RangeError{Index: i, Range: rng, Err: err}
			}

			padding = 2 * phLen
			inserted += padding
			final = NewRange(start, rng.Length+padding)
			result.Insertions = append(result.Insertions,
				fix.TextEdit{StartOffset: rng.Location, EndOffset: rng.Location, NewText: opts.Placeholder},
				fix.TextEdit{StartOffset: rng.End(), EndOffset: rng.End(), NewText: opts.Placeholder},
			)
		}

		encoded, err := Encode(ann)
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		if err := text.AddAttribute(AttributeName, encoded, final); err != nil {
			return nil, &RangeError{Index: i, Range: rng, Err: err}
		}
		result.Spans = append(result.Spans, Span{Range: final, Value: encoded, Padding: padding})
	}
	result.Inserted = inserted

	if err := text.FixAttributes(text.FullRange()); err != nil {
		return nil, fmt.Errorf("fix attributes: %w", err)
	}
	return result, nil
}

// placeholderAttributes returns the formatting a placeholder inserted at
// index inherits: that of the rune at index, or of the last rune when index
// is the end of the text.
func placeholderAttributes(text *attributed.String, index int) (attributed.Attributes, error) {
	switch {
	case text.Len() == 0 && index == 0:
		return nil, nil
	case index == text.Len():
		index--
	}
	attrs, err := text.AttributesAt(index)
	if err != nil {
		return nil, err
	}
	return attrs.Without(AttributeName), nil
}
