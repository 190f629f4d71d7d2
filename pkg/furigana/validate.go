package furigana

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gofurigana/pkg/fix"
)

var (
	// ErrUnordered is returned by ValidateOrder when a location decreases.
	ErrUnordered = errors.New("annotations not ordered by location")

	// ErrOverlap is returned by ValidateOrder when two ranges share runes.
	ErrOverlap = errors.New("annotations overlap")
)

// ValidateOrder checks the preconditions Process relies on: every range lies
// within a base text of baseLen runes, locations never decrease, and ranges
// do not overlap. It reports the first violation and never reorders.
func ValidateOrder(baseLen int, annotations []Annotation) error {
	edits := make([]fix.TextEdit, len(annotations))
	for i, ann := range annotations {
		rng := ann.Range()
		edits[i] = fix.TextEdit{StartOffset: rng.Location, EndOffset: rng.End(), NewText: ann.Text()}
	}

	if err := fix.ValidateEdits(edits, baseLen); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	if err := fix.CheckSorted(edits); err != nil {
		return fmt.Errorf("%w: %w", ErrUnordered, err)
	}
	if err := fix.DetectConflicts(edits); err != nil {
		return fmt.Errorf("%w: %w", ErrOverlap, err)
	}
	return nil
}
