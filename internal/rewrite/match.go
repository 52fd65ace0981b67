package rewrite

import "github.com/dshills/mcfunc/internal/selector"

// Match is one selector occurrence found in scanned text. It is created per
// regular-expression match and consumed immediately to build a rewrite.
type Match struct {
	Text   string   // full matched text, brackets included
	Tag    string   // selector tag, e.g. "@e"
	Coords []string // coordinate literals in source order
	Start  int      // zero-based byte offset of the match in the scanned text
}

// End returns the byte offset just past the match.
func (m Match) End() int {
	return m.Start + len(m.Text)
}

// Converted renders the match in explicit selector-argument syntax: ranged
// form for six coordinates, point form for three. Anything else comes back
// unchanged.
func (m Match) Converted() string {
	switch len(m.Coords) {
	case 6:
		return selector.ConvertRange(m.Tag,
			m.Coords[0], m.Coords[1], m.Coords[2],
			m.Coords[3], m.Coords[4], m.Coords[5])
	case 3:
		return selector.ConvertPoint(m.Tag, m.Coords[0], m.Coords[1], m.Coords[2])
	default:
		return m.Text
	}
}

// Candidate pairs a matched selector with the text that would replace it.
type Candidate struct {
	Original  string // matched selector text
	Converted string // replacement in key=value syntax
	Start     int    // byte offset of Original in the scanned text
}

// Candidates scans text without modifying it and returns every rewrite the
// converter would offer: volume selectors first, then point selectors, each
// group in document order. A point match whose full text also satisfies the
// volume pattern is dropped, so the two groups never claim the same span.
// Text with no recognized selector yields nil.
func Candidates(text string) []Candidate {
	var out []Candidate
	for _, m := range scan(sextupleRE, text) {
		out = append(out, Candidate{Original: m.Text, Converted: m.Converted(), Start: m.Start})
	}
	for _, m := range scan(tripleRE, text) {
		if sextupleRE.MatchString(m.Text) {
			continue
		}
		out = append(out, Candidate{Original: m.Text, Converted: m.Converted(), Start: m.Start})
	}
	return out
}
