package pretty

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gofurigana/pkg/runner"
)

const summaryDividerWidth = 40

// FormatFileHeader formats the header line for a processed file.
// Example: "notes.md (3 annotations, 1 widened)".
func (s *Styles) FormatFileHeader(path string, annotations, padded int) string {
	detail := pluralize(annotations, "annotation", "annotations")
	if padded > 0 {
		detail += ", " + s.Padding.Render(pluralize(padded, "widened", "widened"))
	}
	return s.FilePath.Render(path) + s.Dim.Render(" (") + detail + s.Dim.Render(")")
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 annotations in 4 files, 3 widened, 6 placeholders inserted".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Annotations == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No annotations") +
			s.Dim.Render(" ("+pluralize(stats.FilesProcessed, "file", "files")+" processed)") + "\n"
	}

	parts := []string{
		pluralize(stats.Annotations, "annotation", "annotations") +
			" in " + pluralize(stats.FilesProcessed, "file", "files"),
	}

	if stats.SpansPadded > 0 {
		parts = append(parts,
			s.Padding.Render(pluralize(stats.SpansPadded, "widened", "widened")),
			pluralize(stats.Inserted, "placeholder", "placeholders")+" inserted",
		)
	}

	if stats.FilesRendered > 0 {
		parts = append(parts, s.Success.Render(pluralize(stats.FilesRendered, "file", "files")+" rendered"))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(pluralize(stats.FilesErrored, "file", "files")+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files processed:   " + strconv.Itoa(stats.FilesProcessed) + "\n")

	if stats.FilesRendered > 0 {
		builder.WriteString("  Files rendered:    " + s.Success.Render(strconv.Itoa(stats.FilesRendered)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " + s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Annotations:       " + strconv.Itoa(stats.Annotations) + "\n")
	builder.WriteString("  Spans widened:     " + s.Padding.Render(strconv.Itoa(stats.SpansPadded)) + "\n")
	builder.WriteString("  Placeholders:      " + strconv.Itoa(stats.Inserted) + "\n")
	builder.WriteString("\n")

	if stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Processing failed"))
	} else {
		builder.WriteString(s.Success.Render("Processing complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
