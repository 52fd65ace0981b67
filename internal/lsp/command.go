package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dshills/mcfunc/internal/rewrite"
)

// convertArgs is the argument payload for the convert command. Ranges are
// the selections to convert; without any the whole document is converted.
type convertArgs struct {
	URI    DocumentURI `json:"uri"`
	Ranges []Range     `json:"ranges,omitempty"`
}

// executeCommand dispatches a workspace/executeCommand request.
func (s *Server) executeCommand(ctx context.Context, p ExecuteCommandParams) (any, error) {
	switch p.Command {
	case CommandConvertSelectors:
		if len(p.Arguments) == 0 {
			return nil, &RPCError{Code: CodeInvalidParams, Message: "missing command arguments"}
		}
		var args convertArgs
		if err := json.Unmarshal(p.Arguments[0], &args); err != nil {
			return nil, rpcError(CodeInvalidParams, err)
		}
		return nil, s.convertSelectors(ctx, args)
	default:
		return nil, &RPCError{
			Code:    CodeInvalidParams,
			Message: fmt.Sprintf("%v: %s", ErrUnknownCommand, p.Command),
		}
	}
}

// convertSelectors rewrites coordinate selectors in the given selections and
// commits the result through workspace/applyEdit. Outcomes the user should
// see (wrong file type, nothing to convert, edit refused) are reported as
// window messages rather than request errors.
func (s *Server) convertSelectors(ctx context.Context, args convertArgs) error {
	doc, ok := s.docs.Get(args.URI)
	if !ok {
		return &RPCError{
			Code:    CodeInvalidParams,
			Message: fmt.Errorf("%w: %s", ErrDocumentNotOpen, args.URI).Error(),
		}
	}

	cfg := s.Config()
	if doc.Extension() != cfg.Extension {
		s.showMessage(ctx, MessageTypeInfo,
			fmt.Sprintf("Selector conversion only works on %s files", cfg.Extension))
		return nil
	}

	pc := NewPositionConverter(doc.Content)
	var edits []rewrite.Edit
	if len(args.Ranges) == 0 {
		edits = rewrite.Plan(doc.Content, 0)
	} else {
		for _, rng := range args.Ranges {
			start, end := pc.RangeToByteOffsets(rng)
			if end < start {
				start, end = end, start
			}
			edits = append(edits, rewrite.Plan(doc.Content[start:end], start)...)
		}
	}
	if len(edits) == 0 {
		s.showMessage(ctx, MessageTypeInfo, "Nothing to convert")
		return nil
	}

	textEdits := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		textEdits = append(textEdits, TextEdit{
			Range:   pc.ByteOffsetsToRange(e.Span.Start, e.Span.End),
			NewText: e.NewText,
		})
	}
	params := ApplyWorkspaceEditParams{
		Label: "Convert coordinate selectors",
		Edit: WorkspaceEdit{
			Changes: map[DocumentURI][]TextEdit{args.URI: textEdits},
		},
	}

	if !s.applyEdit.Load() {
		s.logger.Printf("[%s] convert: client does not support workspace/applyEdit", s.session)
		s.showMessage(ctx, MessageTypeError, "Could not apply the selector conversion")
		return nil
	}

	var result ApplyWorkspaceEditResult
	if err := s.transport.Call(ctx, "workspace/applyEdit", params, &result); err != nil {
		s.logger.Printf("[%s] convert: applyEdit: %v", s.session, err)
		s.showMessage(ctx, MessageTypeError, "Could not apply the selector conversion")
		return nil
	}
	if !result.Applied {
		s.logger.Printf("[%s] convert: %v: %s", s.session, ErrApplyFailed, result.FailureReason)
		s.showMessage(ctx, MessageTypeError, "Could not apply the selector conversion")
		return nil
	}

	s.logger.Printf("[%s] convert: %d selector(s) rewritten in %s", s.session, len(edits), args.URI)
	return nil
}
