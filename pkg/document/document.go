// Package document reads and writes annotated text documents.
//
// A Document is base text plus annotation specs in rune offsets. It can be
// loaded from YAML, JSON or inline ruby markup and converted to the inputs
// of furigana.Process.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gofurigana/pkg/attributed"
	"github.com/yaklabco/gofurigana/pkg/fix"
	"github.com/yaklabco/gofurigana/pkg/furigana"
)

var (
	// ErrEmptyReading is reported for an annotation without reading text.
	ErrEmptyReading = errors.New("empty reading")

	// ErrOutOfBounds is reported for an annotation outside the text.
	ErrOutOfBounds = errors.New("annotation out of bounds")

	// ErrOriginalMismatch is reported when an annotation's original does not
	// match the text it covers.
	ErrOriginalMismatch = errors.New("original does not match text")
)

// AnnotationSpec describes one annotation in a document.
type AnnotationSpec struct {
	Text     string `json:"text" yaml:"text"`
	Original string `json:"original,omitempty" yaml:"original,omitempty"`
	Location int    `json:"location" yaml:"location"`
	Length   int    `json:"length" yaml:"length"`
}

// Range returns the span of the annotation.
func (a AnnotationSpec) Range() attributed.Range {
	return attributed.NewRange(a.Location, a.Length)
}

// StyleSpec overrides layout style for a single document.
// Nil fields fall back to the configured style.
type StyleSpec struct {
	LineHeightMultiple *float64 `json:"line_height_multiple,omitempty" yaml:"line_height_multiple,omitempty"`
	TextOffsetMultiple *float64 `json:"text_offset_multiple,omitempty" yaml:"text_offset_multiple,omitempty"`
	Alignment          string   `json:"alignment,omitempty" yaml:"alignment,omitempty"`
}

// Document is base text with annotations over it.
type Document struct {
	Text        string           `json:"text" yaml:"text"`
	Annotations []AnnotationSpec `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Style       *StyleSpec       `json:"style,omitempty" yaml:"style,omitempty"`
}

// AnnotationError ties a validation problem to an annotation.
type AnnotationError struct {
	Index int
	Spec  AnnotationSpec
	Err   error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("annotation %d (%q at %s): %v", e.Index, e.Spec.Text, e.Spec.Range(), e.Err)
}

func (e *AnnotationError) Unwrap() error {
	return e.Err
}

// AppendText appends plain text.
func (d *Document) AppendText(text string) {
	d.Text += text
}

// AppendRuby appends base to the text and annotates it with reading.
func (d *Document) AppendRuby(base, reading string) {
	d.Annotations = append(d.Annotations, AnnotationSpec{
		Text:     reading,
		Original: base,
		Location: fix.RuneLen(d.Text),
		Length:   fix.RuneLen(base),
	})
	d.Text += base
}

// Validate checks every annotation against the text and returns all
// problems joined, or nil. Ordering is checked by furigana.ValidateOrder.
func (d *Document) Validate() error {
	text := attributed.New(d.Text)

	var errs []error
	for i, spec := range d.Annotations {
		if spec.Text == "" {
			errs = append(errs, &AnnotationError{Index: i, Spec: spec, Err: ErrEmptyReading})
			continue
		}
		if strings.Contains(spec.Text, furigana.Delimiter) || strings.Contains(spec.Original, furigana.Delimiter) {
			errs = append(errs, &AnnotationError{Index: i, Spec: spec, Err: furigana.ErrDelimiterInField})
			continue
		}
		covered, err := text.Substring(spec.Range())
		if err != nil {
			errs = append(errs, &AnnotationError{Index: i, Spec: spec, Err: fmt.Errorf("%w: %w", ErrOutOfBounds, err)})
			continue
		}
		if spec.Original == "" && strings.Contains(covered, furigana.Delimiter) {
			errs = append(errs, &AnnotationError{Index: i, Spec: spec, Err: furigana.ErrDelimiterInField})
			continue
		}
		if spec.Original != "" && spec.Original != covered {
			errs = append(errs, &AnnotationError{
				Index: i,
				Spec:  spec,
				Err:   fmt.Errorf("%w: %q covers %q", ErrOriginalMismatch, spec.Original, covered),
			})
		}
	}
	return errors.Join(errs...)
}

// FuriganaAnnotations converts the specs to engine annotations, each with a
// fresh identifier. An empty original is filled from the covered text.
func (d *Document) FuriganaAnnotations() []furigana.Annotation {
	text := attributed.New(d.Text)

	out := make([]furigana.Annotation, 0, len(d.Annotations))
	for _, spec := range d.Annotations {
		original := spec.Original
		if original == "" {
			// Out-of-range specs keep an empty original; Process reports them.
			original, _ = text.Substring(spec.Range())
		}
		out = append(out, furigana.New(spec.Text, original, spec.Range()))
	}
	return out
}

// AttributedText returns the base text as an attributed buffer. A document
// alignment is applied as a paragraph attribute.
func (d *Document) AttributedText() *attributed.String {
	if d.Style != nil && d.Style.Alignment != "" {
		return attributed.NewWithAttributes(d.Text, attributed.Attributes{
			attributed.Alignment: d.Style.Alignment,
		})
	}
	return attributed.New(d.Text)
}
