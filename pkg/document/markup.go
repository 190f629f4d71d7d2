package document

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gofurigana/pkg/attributed"
)

var (
	// ErrMarkup is wrapped by every MarkupError.
	ErrMarkup = errors.New("invalid ruby markup")

	// ErrUnordered is reported by FormatMarkup for annotations that overlap or
	// precede the previous one.
	ErrUnordered = errors.New("annotation overlaps or precedes previous annotation")
)

// MarkupError reports a syntax problem at a rune position of the input.
type MarkupError struct {
	Pos int
	Msg string
}

func (e *MarkupError) Error() string {
	return fmt.Sprintf("markup: position %d: %s", e.Pos, e.Msg)
}

func (e *MarkupError) Unwrap() error {
	return ErrMarkup
}

// markupSpecial lists the runes that need a backslash escape.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markupSpecial = []rune{'{', '}', '|', '\\'}

// ParseMarkup parses inline ruby markup.
//
// A group {base|reading} contributes base to the text and annotates it with
// reading. \{ \} \| and \\ stand for the literal rune; any other backslash is
// kept as is. A ruby group cannot contain '|' in either part, escaped or not.
// Line breaks inside a group are kept, so one reading may cover several lines.
func ParseMarkup(src string) (*Document, error) {
	const (
		inText = iota
		inBase
		inReading
	)

	doc := &Document{}
	var (
		state     = inText
		text      strings.Builder
		base      strings.Builder
		reading   strings.Builder
		groupOpen int
	)

	current := func() *strings.Builder {
		switch state {
		case inBase:
			return &base
		case inReading:
			return &reading
		default:
			return &text
		}
	}

	runes := []rune(src)
	for pos := 0; pos < len(runes); pos++ {
		r := runes[pos]

		if r == '\\' && pos+1 < len(runes) && slices.Contains(markupSpecial, runes[pos+1]) {
			if state != inText && runes[pos+1] == '|' {
				return nil, &MarkupError{Pos: pos, Msg: "'|' is not allowed inside a ruby group"}
			}
			pos++
			current().WriteRune(runes[pos])
			continue
		}

		switch state {
		case inText:
			switch r {
			case '{':
				doc.AppendText(text.String())
				text.Reset()
				state = inBase
				groupOpen = pos
			case '}':
				return nil, &MarkupError{Pos: pos, Msg: "unmatched '}'"}
			default:
				text.WriteRune(r)
			}

		case inBase:
			switch r {
			case '|':
				state = inReading
			case '{':
				return nil, &MarkupError{Pos: pos, Msg: "nested '{'"}
			case '}':
				return nil, &MarkupError{Pos: pos, Msg: "missing '|' in ruby group"}
			default:
				base.WriteRune(r)
			}

		case inReading:
			switch r {
			case '}':
				if reading.Len() == 0 {
					return nil, &MarkupError{Pos: pos, Msg: "empty reading"}
				}
				doc.AppendRuby(base.String(), reading.String())
				base.Reset()
				reading.Reset()
				state = inText
			case '{':
				return nil, &MarkupError{Pos: pos, Msg: "nested '{'"}
			case '|':
				return nil, &MarkupError{Pos: pos, Msg: "unexpected '|' in reading"}
			default:
				reading.WriteRune(r)
			}
		}
	}

	if state != inText {
		return nil, &MarkupError{Pos: groupOpen, Msg: "unterminated ruby group"}
	}
	doc.AppendText(text.String())
	return doc, nil
}

// FormatMarkup renders doc as inline ruby markup, the inverse of ParseMarkup.
// Annotations must be valid, ordered and non-overlapping.
func FormatMarkup(doc *Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	text := attributed.New(doc.Text)
	var out strings.Builder
	cursor := 0
	for i, spec := range doc.Annotations {
		if spec.Location < cursor {
			return "", &AnnotationError{Index: i, Spec: spec, Err: ErrUnordered}
		}
		before, _ := text.Substring(attributed.NewRange(cursor, spec.Location-cursor))
		base, _ := text.Substring(spec.Range())

		out.WriteString(escapeMarkup(before))
		out.WriteByte('{')
		out.WriteString(escapeMarkup(base))
		out.WriteByte('|')
		out.WriteString(escapeMarkup(spec.Text))
		out.WriteByte('}')
		cursor = spec.Range().End()
	}
	rest, _ := text.Substring(attributed.NewRange(cursor, text.Len()-cursor))
	out.WriteString(escapeMarkup(rest))

	return out.String(), nil
}

func escapeMarkup(s string) string {
	if !strings.ContainsAny(s, `{}|\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if slices.Contains(markupSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
