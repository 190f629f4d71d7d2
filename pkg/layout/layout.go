package layout

import (
	"fmt"
	"io"
	"slices"

	"github.com/yaklabco/gofurigana/pkg/attributed"
	"github.com/yaklabco/gofurigana/pkg/document"
	"github.com/yaklabco/gofurigana/pkg/fix"
	"github.com/yaklabco/gofurigana/pkg/furigana"
)

// Offset is where one reading is drawn.
type Offset struct {
	// Span is the index into the spans passed to ComputeOffsets.
	Span int

	// Reading is the decoded reading.
	Reading string

	// Line is the zero-based line of the span start.
	Line int

	// Column is the first cell of the reading on its line.
	Column int

	// Width is the reading width in cells.
	Width int

	// BaseColumn and BaseWidth locate the span on its line.
	BaseColumn int
	BaseWidth  int
}

// Layouter computes reading positions for annotated ranges of text.
type Layouter interface {
	ComputeOffsets(text string, spans []furigana.Span) ([]Offset, error)
}

// Renderer writes a processed result.
type Renderer interface {
	Render(w io.Writer, res *furigana.Result) error
}

// Kind names a renderer.
type Kind string

const (
	KindTerminal Kind = "terminal"
	KindHTML     Kind = "html"
	KindText     Kind = "text"
	KindMarkup   Kind = "markup"
)

// Kinds lists every renderer kind.
func Kinds() []Kind {
	return []Kind{KindTerminal, KindHTML, KindText, KindMarkup}
}

// IsValid reports whether k is a known renderer kind.
func (k Kind) IsValid() bool {
	return slices.Contains(Kinds(), k)
}

// Extension returns the file extension for output of kind k.
func (k Kind) Extension() string {
	switch k {
	case KindHTML:
		return ".html"
	case KindMarkup:
		return ".ruby.txt"
	default:
		return ".txt"
	}
}

// NewRenderer returns a renderer of the given kind. When enabled is false
// every kind writes the text verbatim.
//
//nolint:ireturn // Factory returning the Renderer interface.
func NewRenderer(kind Kind, style Style, width int, enabled bool) (Renderer, error) {
	if !enabled {
		return &Text{}, nil
	}
	switch kind {
	case KindTerminal, "":
		return NewTerminal(style, width), nil
	case KindHTML:
		return &HTML{Style: style}, nil
	case KindText:
		return &Text{}, nil
	case KindMarkup:
		return &Markup{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", kind)
	}
}

// Strip removes the placeholders of res and returns the base text with one
// annotation spec per span. Spans must not overlap.
func Strip(res *furigana.Result) *document.Document {
	text := []rune(res.String())
	doc := &document.Document{}

	cursor := 0
	for _, span := range res.Spans {
		half := span.Padding / 2
		start := span.Range.Location + half
		end := span.Range.End() - half
		if span.Range.Location < cursor || start > end || end > len(text) {
			continue
		}
		doc.AppendText(string(text[cursor:span.Range.Location]))
		base := string(text[start:end])
		doc.Annotations = append(doc.Annotations, document.AnnotationSpec{
			Text:     span.Reading(),
			Original: span.Original(),
			Location: fix.RuneLen(doc.Text),
			Length:   end - start,
		})
		doc.AppendText(base)
		cursor = span.Range.End()
	}
	doc.AppendText(string(text[cursor:]))
	return doc
}

// spanBase returns the runes of span without its placeholders.
func spanBase(text *attributed.String, span furigana.Span) string {
	half := span.Padding / 2
	inner := attributed.NewRange(span.Range.Location+half, span.Range.Length-span.Padding)
	base, err := text.Substring(inner)
	if err != nil {
		return ""
	}
	return base
}
