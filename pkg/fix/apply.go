package fix

import (
	"strings"
	"unicode/utf8"
)

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must be prepared with PrepareEdits before calling.
// Insertions sharing one offset are applied in slice order.
// Returns the modified content.
func ApplyEdits(content string, edits []TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	runes := []rune(content)

	// Estimate result size.
	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out strings.Builder
	out.Grow(max(len(content)+delta, 0))

	cursor := 0
	for _, e := range edits {
		// Copy content before this edit.
		out.WriteString(string(runes[cursor:e.StartOffset]))
		// Write replacement text.
		out.WriteString(e.NewText)
		cursor = max(cursor, e.EndOffset)
	}
	// Copy remaining content.
	out.WriteString(string(runes[cursor:]))

	return out.String()
}

// RuneLen returns the number of runes in s, the unit all offsets use.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
