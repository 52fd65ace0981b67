// Package rewrite finds raw coordinate lists inside Minecraft target
// selectors and plans their replacement with explicit key=value arguments.
//
// Two grammars are recognized, a six-coordinate volume form and a
// three-coordinate point form, both optionally prefixed by a slash command
// inside the brackets:
//
//	@e[111 200 333 100 222 300]
//	@a[/tp 333 555 2]
//
// The package offers two paths over the same scan:
//
//   - Candidates is read-only. It pairs every match with its converted text
//     so a host can present the rewrites as suggestions.
//   - Plan and Apply mutate. Plan turns one selection into a sequence of
//     edits whose spans are document-absolute, and Apply splices a plan into
//     buffer text front to back.
//
// Both paths scan volume selectors before point selectors and drop any point
// match whose text also satisfies the volume pattern, so no character range
// is ever rewritten twice. Scans are stateless: every call searches fresh
// over the text it is given.
package rewrite
