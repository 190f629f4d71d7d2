package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError reports an edit whose range does not fit the content.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError reports two edits of a sorted slice that share runes.
type ConflictError struct {
	Prev TextEdit
	Next TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("edit [%d:%d] overlaps [%d:%d]",
		e.Next.StartOffset, e.Next.EndOffset, e.Prev.StartOffset, e.Prev.EndOffset)
}

// OrderError reports the first edit that starts before the one preceding it.
type OrderError struct {
	Index int
	Prev  TextEdit
	Curr  TextEdit
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("edit %d [%d:%d] starts before previous edit [%d:%d]",
		e.Index, e.Curr.StartOffset, e.Curr.EndOffset,
		e.Prev.StartOffset, e.Prev.EndOffset)
}

// checkRange returns a reason when edit does not fit content of n runes.
func checkRange(edit TextEdit, n int) string {
	switch {
	case edit.StartOffset < 0:
		return "start offset is negative"
	case edit.EndOffset < edit.StartOffset:
		return "end offset is before start offset"
	case edit.EndOffset > n:
		return fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, n)
	default:
		return ""
	}
}

// ValidateEdits returns a *ValidationError for the first edit whose range
// does not fit content of contentLen runes.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		if reason := checkRange(edit, contentLen); reason != "" {
			return &ValidationError{Edit: edit, Message: reason}
		}
	}
	return nil
}

// SortEdits orders edits by start, then end offset. Insertions at the same
// offset keep their relative order.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
		)
	})
}

// CheckSorted returns an *OrderError when a start offset decreases. It never
// reorders.
func CheckSorted(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if prev, curr := edits[i-1], edits[i]; curr.StartOffset < prev.StartOffset {
			return &OrderError{Index: i, Prev: prev, Curr: curr}
		}
	}
	return nil
}

// DetectConflicts returns a *ConflictError for the first pair of neighbours
// in a sorted slice where the later edit starts inside the earlier one.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if prev, next := edits[i-1], edits[i]; next.StartOffset < prev.EndOffset {
			return &ConflictError{Prev: prev, Next: next}
		}
	}
	return nil
}

// PrepareEdits validates a copy of edits, sorts it and rejects overlaps.
// The input slice is left untouched.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)
	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
