package attributed

import (
	"errors"
	"fmt"
	"slices"
)

// ErrOutOfRange is returned when an offset or range falls outside the text.
var ErrOutOfRange = errors.New("offset out of range")

// run is a stretch of runes sharing one attribute map.
type run struct {
	length int
	attrs  Attributes
}

// Run is an exported view of one attribute run.
type Run struct {
	Range      Range
	Attributes Attributes
}

// AttributeRange is a maximal range over which one key holds one value.
type AttributeRange struct {
	Range Range
	Value string
}

// String is a mutable attributed text buffer.
// The zero value is an empty buffer ready for use.
type String struct {
	text []rune
	runs []run
}

// New returns a buffer holding text with no attributes.
func New(text string) *String {
	return NewWithAttributes(text, nil)
}

// NewWithAttributes returns a buffer holding text with attrs applied throughout.
func NewWithAttributes(text string, attrs Attributes) *String {
	s := &String{text: []rune(text)}
	if len(s.text) > 0 {
		s.runs = []run{{length: len(s.text), attrs: attrs.Clone()}}
	}
	return s
}

// Len returns the length of the text in runes.
func (s *String) Len() int {
	return len(s.text)
}

// String returns the plain text.
func (s *String) String() string {
	return string(s.text)
}

// FullRange returns the range covering the whole text.
func (s *String) FullRange() Range {
	return Range{Location: 0, Length: len(s.text)}
}

// Clone returns an independent copy of s.
func (s *String) Clone() *String {
	if s == nil {
		return &String{}
	}
	return &String{
		text: slices.Clone(s.text),
		runs: slices.Clone(s.runs),
	}
}

// Substring returns the text covered by r.
func (s *String) Substring(r Range) (string, error) {
	if err := s.checkRange(r); err != nil {
		return "", err
	}
	return string(s.text[r.Location:r.End()]), nil
}

// AttributesAt returns a copy of the attributes of the rune at index.
func (s *String) AttributesAt(index int) (Attributes, error) {
	if index < 0 || index >= len(s.text) {
		return nil, fmt.Errorf("attributes at %d in text of length %d: %w", index, len(s.text), ErrOutOfRange)
	}
	pos := 0
	for _, rn := range s.runs {
		if index < pos+rn.length {
			return rn.attrs.Clone(), nil
		}
		pos += rn.length
	}
	// Runs always cover the text.
	return nil, fmt.Errorf("attributes at %d: no covering run: %w", index, ErrOutOfRange)
}

// Insert inserts text at index with the given attributes.
// index may equal Len to append.
func (s *String) Insert(index int, text string, attrs Attributes) error {
	if index < 0 || index > len(s.text) {
		return fmt.Errorf("insert at %d in text of length %d: %w", index, len(s.text), ErrOutOfRange)
	}
	inserted := []rune(text)
	if len(inserted) == 0 {
		return nil
	}

	i := s.splitAt(index)
	s.runs = slices.Insert(s.runs, i, run{length: len(inserted), attrs: attrs.Clone()})
	s.text = slices.Insert(s.text, index, inserted...)
	return nil
}

// Append adds text with attrs at the end of the buffer.
func (s *String) Append(text string, attrs Attributes) {
	// Inserting at Len never fails.
	_ = s.Insert(len(s.text), text, attrs)
}

// SetAttributes replaces the attributes over r with attrs.
func (s *String) SetAttributes(attrs Attributes, r Range) error {
	attrs = attrs.Clone()
	return s.apply(r, func(Attributes) Attributes { return attrs })
}

// AddAttribute sets key to value over r, keeping other keys.
func (s *String) AddAttribute(key, value string, r Range) error {
	return s.apply(r, func(a Attributes) Attributes { return a.With(key, value) })
}

// RemoveAttribute deletes key over r.
func (s *String) RemoveAttribute(key string, r Range) error {
	return s.apply(r, func(a Attributes) Attributes { return a.Without(key) })
}

// Runs returns the attribute runs in text order.
func (s *String) Runs() []Run {
	out := make([]Run, 0, len(s.runs))
	pos := 0
	for _, rn := range s.runs {
		out = append(out, Run{
			Range:      Range{Location: pos, Length: rn.length},
			Attributes: rn.attrs.Clone(),
		})
		pos += rn.length
	}
	return out
}

// AttributeRanges returns the maximal ranges over which key is set, merging
// adjacent runs that carry the same value.
func (s *String) AttributeRanges(key string) []AttributeRange {
	var out []AttributeRange
	pos := 0
	for _, rn := range s.runs {
		value, ok := rn.attrs[key]
		switch {
		case !ok:
		case len(out) > 0 && out[len(out)-1].Value == value && out[len(out)-1].Range.End() == pos:
			out[len(out)-1].Range.Length += rn.length
		default:
			out = append(out, AttributeRange{
				Range: Range{Location: pos, Length: rn.length},
				Value: value,
			})
		}
		pos += rn.length
	}
	return out
}

// FixAttributes normalizes the attributes of every paragraph touching r.
//
// Paragraph-scoped keys take the value found on the first rune of their
// paragraph, zero-length runs are dropped, and adjacent runs with equal
// attributes are merged.
func (s *String) FixAttributes(r Range) error {
	if err := s.checkRange(r); err != nil {
		return err
	}
	if len(s.text) == 0 {
		return nil
	}

	for _, para := range s.paragraphsTouching(r) {
		first, err := s.AttributesAt(para.Location)
		if err != nil {
			return err
		}
		for _, key := range paragraphKeys {
			value, ok := first[key]
			err := s.apply(para, func(a Attributes) Attributes {
				if !ok {
					return a.Without(key)
				}
				if current, has := a[key]; has && current == value {
					return a
				}
				return a.With(key, value)
			})
			if err != nil {
				return err
			}
		}
	}

	s.coalesce()
	return nil
}

// paragraphsTouching returns the newline-terminated paragraphs that
// intersect r. A terminating newline belongs to its paragraph.
func (s *String) paragraphsTouching(r Range) []Range {
	start := r.Location
	for start > 0 && s.text[start-1] != '\n' {
		start--
	}
	end := max(r.End(), start+1)

	var out []Range
	paraStart := start
	for i := start; i < len(s.text); i++ {
		if s.text[i] != '\n' && i != len(s.text)-1 {
			continue
		}
		out = append(out, Range{Location: paraStart, Length: i + 1 - paraStart})
		paraStart = i + 1
		if paraStart >= end {
			break
		}
	}
	return out
}

// apply rewrites the attributes of every run inside r with fn.
func (s *String) apply(r Range, fn func(Attributes) Attributes) error {
	if err := s.checkRange(r); err != nil {
		return err
	}
	if r.Length == 0 {
		return nil
	}

	first := s.splitAt(r.Location)
	last := s.splitAt(r.End())
	for i := first; i < last; i++ {
		s.runs[i].attrs = fn(s.runs[i].attrs)
	}
	return nil
}

// splitAt makes offset a run boundary and returns the index of the run
// starting there, or len(runs) when offset is the end of the text.
func (s *String) splitAt(offset int) int {
	pos := 0
	for i, rn := range s.runs {
		if pos == offset {
			return i
		}
		if offset < pos+rn.length {
			left := run{length: offset - pos, attrs: rn.attrs}
			right := run{length: pos + rn.length - offset, attrs: rn.attrs}
			s.runs[i] = left
			s.runs = slices.Insert(s.runs, i+1, right)
			return i + 1
		}
		pos += rn.length
	}
	return len(s.runs)
}

// coalesce drops empty runs and merges neighbours with equal attributes.
func (s *String) coalesce() {
	out := make([]run, 0, len(s.runs))
	for _, rn := range s.runs {
		if rn.length == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].attrs.Equal(rn.attrs) {
			out[n-1].length += rn.length
			continue
		}
		out = append(out, rn)
	}
	s.runs = out
}

func (s *String) checkRange(r Range) error {
	if r.Location < 0 || r.Length < 0 || r.End() > len(s.text) {
		return fmt.Errorf("range %s in text of length %d: %w", r, len(s.text), ErrOutOfRange)
	}
	return nil
}
