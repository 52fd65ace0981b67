package rewrite

import (
	"regexp"
	"strings"

	"github.com/dshills/mcfunc/internal/selector"
)

var (
	// sextupleRE matches a selector whose brackets hold six coordinates,
	// the two corner positions of a volume.
	sextupleRE = regexp.MustCompile(coordPattern(6))

	// tripleRE matches a selector whose brackets hold three coordinates,
	// a single position.
	tripleRE = regexp.MustCompile(coordPattern(3))
)

// coordPattern builds the pattern for a selector carrying n coordinates: a
// captured tag, an opening bracket, an optional slash-command prefix, n
// whitespace-separated captured numeric literals, and the closing bracket.
func coordPattern(n int) string {
	var b strings.Builder
	b.WriteString(`(`)
	b.WriteString(selector.TagPattern)
	b.WriteString(`)\[`)
	b.WriteString(`(?:/`)
	b.WriteString(selector.KeywordPattern)
	b.WriteString(`\s+)?`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(`\s+`)
		}
		b.WriteString(`(`)
		b.WriteString(selector.NumberPattern)
		b.WriteString(`)`)
	}
	b.WriteString(`\]`)
	return b.String()
}

// scan returns every non-overlapping match of re in text, in document order,
// with the tag and coordinate submatches broken out.
func scan(re *regexp.Regexp, text string) []Match {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return nil
	}
	matches := make([]Match, 0, len(locs))
	for _, idx := range locs {
		m := Match{
			Text:  text[idx[0]:idx[1]],
			Tag:   text[idx[2]:idx[3]],
			Start: idx[0],
		}
		for g := 4; g+1 < len(idx); g += 2 {
			m.Coords = append(m.Coords, text[idx[g]:idx[g+1]])
		}
		matches = append(matches, m)
	}
	return matches
}
