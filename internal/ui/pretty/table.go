package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gofurigana/pkg/furigana"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // RANGE, READING, ORIGINAL, PADDING
	minRangeWidth    = 8
	minReadingWidth  = 10
	minOriginalWidth = 10
	paddingWidth     = 7
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// SpanRow is a single row in the span table.
type SpanRow struct {
	Range    string
	Reading  string
	Original string
	Padding  int
}

// SpanRows converts the spans of res into table rows.
func SpanRows(res *furigana.Result) []SpanRow {
	if res == nil {
		return nil
	}

	rows := make([]SpanRow, 0, len(res.Spans))
	for _, span := range res.Spans {
		rows = append(rows, SpanRow{
			Range:    fmt.Sprintf("%d..%d", span.Range.Location, span.Range.End()),
			Reading:  span.Reading(),
			Original: span.Original(),
			Padding:  span.Padding,
		})
	}
	return rows
}

// TableFormatter formats adjusted spans as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

type columnWidths struct {
	rng      int
	reading  int
	original int
}

// FormatSpans formats rows as a table. Padded rows are highlighted.
func (t *TableFormatter) FormatSpans(rows []SpanRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths, lightSeparator))
	builder.WriteString("\n")
	builder.WriteString(t.formatFileSummary(rows))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths sizes columns by display width, not rune count,
// so wide kana and kanji line up.
func (t *TableFormatter) calculateColumnWidths(rows []SpanRow) columnWidths {
	widths := columnWidths{
		rng:      minRangeWidth,
		reading:  minReadingWidth,
		original: minOriginalWidth,
	}

	for _, row := range rows {
		widths.rng = max(widths.rng, runewidth.StringWidth(row.Range))
		widths.reading = max(widths.reading, runewidth.StringWidth(row.Reading))
		widths.original = max(widths.original, runewidth.StringWidth(row.Original))
	}

	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		// Reduce original width first
		excess := totalWidth - t.termWidth
		widths.original = max(minOriginalWidth, widths.original-excess)

		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.reading = max(minReadingWidth, widths.reading-excess)
		}
	}

	return widths
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.rng + widths.reading + widths.original + paddingWidth +
		tablePadding*tableColumnCount
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := " " + padRight("RANGE", widths.rng) +
		"  " + padRight("READING", widths.reading) +
		"  " + padRight("ORIGINAL", widths.original) +
		"  " + padRight("PADDING", paddingWidth)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.calculateTotalWidth(widths)))
}

// formatRow formats a single table row.
func (t *TableFormatter) formatRow(row SpanRow, widths columnWidths) string {
	padding := "-"
	if row.Padding > 0 {
		padding = fmt.Sprintf("%d", row.Padding)
	}

	content := " " + padRight(row.Range, widths.rng) +
		"  " + padRight(truncateString(row.Reading, widths.reading), widths.reading) +
		"  " + padRight(truncateString(row.Original, widths.original), widths.original) +
		"  " + padding

	if row.Padding > 0 {
		return t.styles.TablePaddedRow.Render(content)
	}
	return content
}

// formatFileSummary formats a summary line for one table.
func (t *TableFormatter) formatFileSummary(rows []SpanRow) string {
	var padded, inserted int
	for _, row := range rows {
		if row.Padding > 0 {
			padded++
			inserted += row.Padding
		}
	}

	parts := []string{pluralize(len(rows), "span", "spans")}
	if padded > 0 {
		parts = append(parts,
			t.styles.Padding.Render(pluralize(padded, "widened", "widened")),
			t.styles.Padding.Render(pluralize(inserted, "placeholder", "placeholders")),
		)
	}

	return " " + strings.Join(parts, " | ")
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// truncateString shortens s to fit width display cells.
func truncateString(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// pluralize formats a count with the singular or plural noun.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
