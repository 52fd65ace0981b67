// Package lsp implements the mcfunc language server.
//
// The server speaks JSON-RPC 2.0 with LSP Content-Length framing over a
// reader/writer pair, normally stdin and stdout. It keeps an overlay of every
// open document, synchronized through textDocument/didOpen, didChange and
// didClose, and exposes the coordinate-selector rewriter through three
// surfaces:
//
//   - textDocument/completion offers one item per rewrite found on the
//     cursor's line, each labeled with the original and converted text.
//   - textDocument/codeAction offers the rewrites inside the requested range
//     plus a whole-document conversion.
//   - workspace/executeCommand with the mcfunc.convertSelectors command plans
//     the edits server-side and asks the client to apply them through
//     workspace/applyEdit, reporting the outcome with window/showMessage.
//
// All three gate on the configured file extension; requests for other files
// return empty results or an informational message, never an error. Request
// handling is concurrent but every engine call is a pure function over the
// document snapshot taken for that request.
package lsp
