// Package fix provides rune-offset text edits and their application.
//
// Offsets count Unicode code points, the same unit the furigana engine uses
// for annotation ranges, so edits recorded by the engine can be replayed
// against the original base text.
package fix

import "fmt"

// TextEdit represents a single text replacement.
type TextEdit struct {
	// StartOffset is the rune index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the rune index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// IsInsertion reports whether the edit removes nothing.
func (e TextEdit) IsInsertion() bool {
	return e.StartOffset == e.EndOffset
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d:%d]%q", e.StartOffset, e.EndOffset, e.NewText)
}

// EditBuilder accumulates text edits in the order they are recorded.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces runes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes runes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}
