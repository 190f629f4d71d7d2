package attributed

import "fmt"

// Range is a half-open span [Location, Location+Length) of rune offsets.
type Range struct {
	Location int `json:"location" yaml:"location"`
	Length   int `json:"length" yaml:"length"`
}

// NewRange returns the range [location, location+length).
func NewRange(location, length int) Range {
	return Range{Location: location, Length: length}
}

// End returns the exclusive end offset.
func (r Range) End() int {
	return r.Location + r.Length
}

// IsEmpty reports whether the range covers no runes.
func (r Range) IsEmpty() bool {
	return r.Length == 0
}

// Shift returns r moved right by n runes.
func (r Range) Shift(n int) Range {
	return Range{Location: r.Location + n, Length: r.Length}
}

// Contains reports whether offset lies inside r.
func (r Range) Contains(offset int) bool {
	return offset >= r.Location && offset < r.End()
}

// Intersects reports whether r and other share at least one rune.
func (r Range) Intersects(other Range) bool {
	return r.Location < other.End() && other.Location < r.End()
}

func (r Range) String() string {
	return fmt.Sprintf("{%d, %d}", r.Location, r.Length)
}
