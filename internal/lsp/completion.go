package lsp

import (
	"fmt"

	"github.com/dshills/mcfunc/internal/rewrite"
)

// completion offers the converted form of every coordinate selector found on
// the cursor's line. Each item replaces the matched text through its TextEdit,
// so accepting one rewrites the selector in place. Documents with the wrong
// extension get an empty list.
func (s *Server) completion(p CompletionParams) *CompletionList {
	list := &CompletionList{Items: []CompletionItem{}}

	cfg := s.Config()
	if !cfg.Completion {
		return list
	}
	doc, ok := s.docs.Get(p.TextDocument.URI)
	if !ok || doc.Extension() != cfg.Extension {
		return list
	}

	pc := NewPositionConverter(doc.Content)
	line := pc.LineContent(p.Position.Line)
	if line == "" {
		return list
	}
	lineStart, _ := pc.LineByteRange(p.Position.Line)

	for _, cand := range rewrite.Candidates(line) {
		start := lineStart + cand.Start
		end := start + len(cand.Original)
		list.Items = append(list.Items, CompletionItem{
			Label:      cand.Converted,
			Kind:       CompletionItemKindSnippet,
			Detail:     fmt.Sprintf("convert %s", cand.Original),
			FilterText: cand.Original,
			TextEdit: &TextEdit{
				Range:   pc.ByteOffsetsToRange(start, end),
				NewText: cand.Converted,
			},
		})
	}
	return list
}
