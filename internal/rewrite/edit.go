package rewrite

import (
	"sort"
	"strings"
)

// Edit replaces the text between Span.Start and Span.End with NewText.
type Edit struct {
	Span    Span   // the range to replace
	NewText string // the replacement text
}

// Delta returns how much the edit changes the length of the buffer.
func (e Edit) Delta() int {
	return len(e.NewText) - e.Span.Len()
}

// Plan scans one selection and returns the edits that rewrite every
// coordinate selector in it. base is the byte offset of the selection within
// its document; the returned spans are document-absolute.
//
// Planning runs two passes over the unmodified selection text: volume
// selectors first, then point selectors, skipping point matches whose text
// also satisfies the volume pattern. Match offsets are always relative to the
// untouched original; each emitted span is shifted by base plus the running
// length change of the earlier edits from its own pass. The two passes keep
// separate accumulators, both starting from zero: their matches never share a
// span, so their edits are not corrected against each other.
func Plan(text string, base int) []Edit {
	sextuples := scan(sextupleRE, text)
	var triples []Match
	for _, m := range scan(tripleRE, text) {
		if sextupleRE.MatchString(m.Text) {
			continue
		}
		triples = append(triples, m)
	}
	edits := appendPass(nil, sextuples, base)
	return appendPass(edits, triples, base)
}

// appendPass converts one pass's matches into edits, restarting the drift
// accumulator at zero.
func appendPass(edits []Edit, matches []Match, base int) []Edit {
	drift := 0
	for _, m := range matches {
		e := Edit{
			Span:    Span{Start: m.Start, End: m.End()}.Shift(base + drift),
			NewText: m.Converted(),
		}
		edits = append(edits, e)
		drift += e.Delta()
	}
	return edits
}

// Apply applies the edits to doc as one batch: every span addresses doc as it
// was given, not as it shifts while earlier edits land. Spans are taken in
// start order, clamped to the document the way an editor clamps a replace
// range, and an edit reaching into a span already consumed is dropped.
func Apply(doc string, edits []Edit) string {
	if len(edits) == 0 {
		return doc
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	var b strings.Builder
	b.Grow(len(doc))
	cursor := 0
	for _, e := range sorted {
		start := clampOffset(e.Span.Start, len(doc))
		end := clampOffset(e.Span.End, len(doc))
		if end < start {
			end = start
		}
		if start < cursor {
			continue
		}
		b.WriteString(doc[cursor:start])
		b.WriteString(e.NewText)
		cursor = end
	}
	b.WriteString(doc[cursor:])
	return b.String()
}

func clampOffset(off, limit int) int {
	if off < 0 {
		return 0
	}
	if off > limit {
		return limit
	}
	return off
}

// Convert rewrites every coordinate selector in text and returns the result
// together with the number of rewrites. Every replacement lands on its exact
// match span, so any mix of volume and point selectors converts cleanly. Text
// without matches comes back unchanged with a zero count.
func Convert(text string) (string, int) {
	cands := Candidates(text)
	if len(cands) == 0 {
		return text, 0
	}

	edits := make([]Edit, 0, len(cands))
	for _, c := range cands {
		edits = append(edits, Edit{
			Span:    Span{Start: c.Start, End: c.Start + len(c.Original)},
			NewText: c.Converted,
		})
	}
	return Apply(text, edits), len(edits)
}
