// Package selector converts raw coordinate lists found inside Minecraft
// target selectors into explicit key=value selector arguments.
//
// A target selector such as @e may carry a bracketed argument list. Function
// authors often paste bare coordinates into those brackets, optionally with a
// slash command in front:
//
//	@e[111 200 333]
//	@e[/fill 111 200 333 100 222 300]
//
// This package renders those coordinate lists in the explicit syntax the game
// expects, x=/y=/z= for a single position and x=/y=/z=/dx=/dy=/dz= for a
// volume spanned by two corner positions.
package selector

// Selector tags recognized in function files. The agent tag @c is not part of
// the Java Edition set but shows up in Education Edition content, so it is
// accepted alongside the standard five.
const (
	TagNearest = "@p" // nearest player
	TagRandom  = "@r" // random player
	TagAll     = "@a" // all players
	TagEntity  = "@e" // all entities
	TagSelf    = "@s" // executing entity
	TagAgent   = "@c" // Education Edition agent
)

// tags lists every recognized selector tag.
var tags = []string{TagNearest, TagRandom, TagAll, TagEntity, TagSelf, TagAgent}

// keywords lists the slash commands that may prefix a coordinate list inside
// selector brackets, as in @e[/fill 1 2 3 4 5 6]. The prefix is dropped on
// conversion.
var keywords = []string{"fill", "setblock", "tp", "teleport", "summon", "execute", "clone"}

// Pattern fragments for composing selector-matching regular expressions.
// TagPattern matches one selector tag, KeywordPattern one bracketed slash
// command, and NumberPattern one coordinate literal: an optional sign, an
// integer part, and an optional decimal tail.
const (
	TagPattern     = `@(?:p|r|a|e|s|c)`
	KeywordPattern = `(?:fill|setblock|tp|teleport|summon|execute|clone)`
	NumberPattern  = `[+-]?\d+(?:\.\d+)?`
)

// Tags returns the selector tags the converter recognizes.
func Tags() []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// IsTag reports whether s is a recognized selector tag.
func IsTag(s string) bool {
	for _, t := range tags {
		if s == t {
			return true
		}
	}
	return false
}

// Keywords returns the slash commands accepted as coordinate-list prefixes.
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}
