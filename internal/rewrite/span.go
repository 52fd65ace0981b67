package rewrite

import "fmt"

// Span is a byte range in buffer text.
// Start is inclusive, End is exclusive: [Start, End).
type Span struct {
	Start int // inclusive start offset
	End   int // exclusive end offset
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Shift returns the span moved by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}
