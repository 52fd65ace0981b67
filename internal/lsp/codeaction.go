package lsp

import (
	"fmt"
	"strings"

	"github.com/dshills/mcfunc/internal/rewrite"
)

// codeAction returns one rewrite action per coordinate selector inside the
// requested range, plus a fix-all action covering the whole document when
// anything is convertible.
func (s *Server) codeAction(p CodeActionParams) []CodeAction {
	cfg := s.Config()
	if !cfg.CodeActions {
		return nil
	}
	doc, ok := s.docs.Get(p.TextDocument.URI)
	if !ok || doc.Extension() != cfg.Extension {
		return nil
	}

	pc := NewPositionConverter(doc.Content)
	start, end := pc.RangeToByteOffsets(p.Range)
	if end < start {
		start, end = end, start
	}

	var actions []CodeAction
	if kindRequested(p.Context.Only, CodeActionKindRefactorRewrite) {
		for _, cand := range rewrite.Candidates(doc.Content[start:end]) {
			candStart := start + cand.Start
			candEnd := candStart + len(cand.Original)
			actions = append(actions, CodeAction{
				Title: fmt.Sprintf("Convert %s to %s", cand.Original, cand.Converted),
				Kind:  CodeActionKindRefactorRewrite,
				Edit: &WorkspaceEdit{
					Changes: map[DocumentURI][]TextEdit{
						p.TextDocument.URI: {{
							Range:   pc.ByteOffsetsToRange(candStart, candEnd),
							NewText: cand.Converted,
						}},
					},
				},
			})
		}
	}

	if kindRequested(p.Context.Only, CodeActionKindSourceFixAll) {
		if converted, n := rewrite.Convert(doc.Content); n > 0 {
			actions = append(actions, CodeAction{
				Title: fmt.Sprintf("Convert all coordinate selectors in file (%d)", n),
				Kind:  CodeActionKindSourceFixAll,
				Edit: &WorkspaceEdit{
					Changes: map[DocumentURI][]TextEdit{
						p.TextDocument.URI: {{
							Range:   pc.ByteOffsetsToRange(0, len(doc.Content)),
							NewText: converted,
						}},
					},
				},
			})
		}
	}
	return actions
}

// kindRequested reports whether the client's "only" filter admits a kind.
// An empty filter admits everything; a listed prefix such as "refactor"
// admits "refactor.rewrite".
func kindRequested(only []CodeActionKind, kind CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, k := range only {
		if k == kind || strings.HasPrefix(string(kind), string(k)+".") {
			return true
		}
	}
	return false
}
