package layout

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gofurigana/pkg/attributed"
	"github.com/yaklabco/gofurigana/pkg/furigana"
)

// reserveRowMultiple is the line height multiple from which every line
// keeps a reading row, even when it has no readings.
const reserveRowMultiple = 1.5

// Terminal lays readings out on a monospace cell grid and draws them on a
// row above the base text.
//
// Placeholder runes occupy one cell each, so a widened span gains the room
// its reading needs.
type Terminal struct {
	Style Style

	// Width is the available width in cells for alignment; 0 disables it.
	Width int
}

// NewTerminal creates a terminal layouter.
func NewTerminal(style Style, width int) *Terminal {
	return &Terminal{Style: style, Width: width}
}

// ComputeOffsets centers each reading over its span on the span's first
// line. Readings never start left of column 0 and never overlap the
// previous reading on the same line.
func (t *Terminal) ComputeOffsets(text string, spans []furigana.Span) ([]Offset, error) {
	g, err := newGrid(text, spans)
	if err != nil {
		return nil, err
	}

	out := make([]Offset, 0, len(spans))
	prevLine, prevEnd := -1, 0
	for i, span := range spans {
		start := span.Range.Location
		line := g.line[start]
		baseCol := g.col[start]

		baseWidth := 0
		for idx := start; idx < span.Range.End() && g.runes[idx] != '\n'; idx++ {
			baseWidth += g.width[idx]
		}

		reading := span.Reading()
		width := runewidth.StringWidth(reading)
		col := max(baseCol+floorDiv(baseWidth-width, 2), 0)
		if line == prevLine && col < prevEnd {
			col = prevEnd
		}

		out = append(out, Offset{
			Span:       i,
			Reading:    reading,
			Line:       line,
			Column:     col,
			Width:      width,
			BaseColumn: baseCol,
			BaseWidth:  baseWidth,
		})
		prevLine, prevEnd = line, col+width
	}
	return out, nil
}

// Render writes each line of res as a reading row followed by the base row.
func (t *Terminal) Render(w io.Writer, res *furigana.Result) error {
	text := res.String()
	offsets, err := t.ComputeOffsets(text, res.Spans)
	if err != nil {
		return err
	}
	g, err := newGrid(text, res.Spans)
	if err != nil {
		return err
	}

	byLine := make(map[int][]Offset)
	for _, off := range offsets {
		byLine[off.Line] = append(byLine[off.Line], off)
	}

	spacer := max(int(math.Round(t.Style.TextOffsetMultiple)), 0)
	reserve := t.Style.HostingLineHeightMultiple >= reserveRowMultiple

	var out strings.Builder
	for lineNo, base := range g.baseRows() {
		lineOffsets := byLine[lineNo]

		var readings strings.Builder
		pos := 0
		for _, off := range lineOffsets {
			readings.WriteString(strings.Repeat(" ", off.Column-pos))
			readings.WriteString(off.Reading)
			pos = off.Column + off.Width
		}

		pad := strings.Repeat(" ", t.shift(max(runewidth.StringWidth(base), pos)))
		if len(lineOffsets) > 0 || reserve {
			out.WriteString(strings.TrimRight(pad+readings.String(), " "))
			out.WriteByte('\n')
			out.WriteString(strings.Repeat("\n", spacer))
		}
		out.WriteString(strings.TrimRight(pad+base, " "))
		out.WriteByte('\n')
	}

	if _, err := io.WriteString(w, out.String()); err != nil {
		return fmt.Errorf("write terminal output: %w", err)
	}
	return nil
}

// shift returns the left padding that aligns a line of lineWidth cells.
func (t *Terminal) shift(lineWidth int) int {
	if t.Width <= 0 || lineWidth >= t.Width {
		return 0
	}
	switch t.Style.Alignment {
	case AlignCenter:
		return (t.Width - lineWidth) / 2
	case AlignRight:
		return t.Width - lineWidth
	default:
		return 0
	}
}

// grid maps every rune offset (and the end offset) to its line and cell.
type grid struct {
	runes       []rune
	placeholder []bool
	width       []int
	line        []int
	col         []int
}

func newGrid(text string, spans []furigana.Span) (*grid, error) {
	runes := []rune(text)
	g := &grid{
		runes:       runes,
		placeholder: make([]bool, len(runes)),
		width:       make([]int, len(runes)),
		line:        make([]int, len(runes)+1),
		col:         make([]int, len(runes)+1),
	}

	for i, span := range spans {
		if span.Range.Location < 0 || span.Range.Length < 0 || span.Range.End() > len(runes) {
			return nil, fmt.Errorf("span %d at %s: %w", i, span.Range, attributed.ErrOutOfRange)
		}
		half := span.Padding / 2
		for k := range half {
			g.placeholder[span.Range.Location+k] = true
			g.placeholder[span.Range.End()-1-k] = true
		}
	}

	line, col := 0, 0
	for i, r := range runes {
		g.line[i], g.col[i] = line, col
		switch {
		case r == '\n':
			line, col = line+1, 0
			continue
		case g.placeholder[i]:
			g.width[i] = 1
		default:
			g.width[i] = runewidth.RuneWidth(r)
		}
		col += g.width[i]
	}
	g.line[len(runes)], g.col[len(runes)] = line, col
	return g, nil
}

// baseRows returns the text split into lines with placeholders drawn as
// spaces.
func (g *grid) baseRows() []string {
	var rows []string
	var row strings.Builder
	for i, r := range g.runes {
		switch {
		case r == '\n':
			rows = append(rows, row.String())
			row.Reset()
		case g.placeholder[i]:
			row.WriteByte(' ')
		default:
			row.WriteRune(r)
		}
	}
	return append(rows, row.String())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
