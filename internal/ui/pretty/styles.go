// Package pretty renders spans, tables and run summaries for the terminal.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indexes.
const (
	colorGray   = "8"
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorCyan   = "14"
	colorWhite  = "7"
)

// Styles holds the lipgloss styles shared by reporters and help output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	FilePath lipgloss.Style
	Range    lipgloss.Style
	Reading  lipgloss.Style
	Original lipgloss.Style
	// Padding marks placeholders inserted around wide readings.
	Padding lipgloss.Style

	SummaryTitle lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TablePaddedRow lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns the style set. With color disabled every style renders
// its input unchanged.
func NewStyles(colorEnabled bool) *Styles {
	style := func(color string, bold bool) lipgloss.Style {
		s := lipgloss.NewStyle()
		if !colorEnabled {
			return s
		}
		if color != "" {
			s = s.Foreground(lipgloss.Color(color))
		}
		return s.Bold(bold)
	}

	return &Styles{
		Error:   style(colorRed, true),
		Warning: style(colorYellow, true),

		FilePath: style("", true),
		Range:    style(colorGray, false),
		Reading:  style(colorCyan, false),
		Original: style("", false),
		Padding:  style(colorYellow, false),

		SummaryTitle: style("", true),
		Success:      style(colorGreen, true),
		Failure:      style(colorRed, true),

		TableHeader:    style(colorWhite, true),
		TablePaddedRow: style(colorYellow, false),
		TableSeparator: style(colorGray, false),

		Dim:  style(colorGray, false),
		Bold: style("", true),
	}
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute; anything else is auto, which needs a terminal and an unset
// NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
