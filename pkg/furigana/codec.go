package furigana

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the fields of an encoded annotation.
const Delimiter = "|"

// AttributeName is the attribute key carrying encoded annotations in the
// adjusted text.
const AttributeName = "com.yaklabco.furigana"

// ErrDelimiterInField is returned by Encode when a field contains Delimiter.
var ErrDelimiterInField = errors.New("field contains delimiter " + Delimiter)

// Encode serializes a as reading|id|original.
//
// A reading or original containing the delimiter would decode to the wrong
// value, so Encode rejects it.
func Encode(a Annotation) (string, error) {
	if strings.Contains(a.text, Delimiter) {
		return "", fmt.Errorf("encode text %q: %w", a.text, ErrDelimiterInField)
	}
	if strings.Contains(a.original, Delimiter) {
		return "", fmt.Errorf("encode original %q: %w", a.original, ErrDelimiterInField)
	}
	return a.text + Delimiter + a.id.String() + Delimiter + a.original, nil
}

// DecodeReading returns the first field of encoded.
// ok is false when encoded is empty.
func DecodeReading(encoded string) (string, bool) {
	if encoded == "" {
		return "", false
	}
	reading, _, _ := strings.Cut(encoded, Delimiter)
	return reading, true
}

// DecodeOriginal returns the last field of encoded.
// ok is false when encoded is empty. The identifier is not recoverable.
func DecodeOriginal(encoded string) (string, bool) {
	if encoded == "" {
		return "", false
	}
	return encoded[strings.LastIndex(encoded, Delimiter)+1:], true
}
