package lsp

import (
	"errors"
	"fmt"
)

// Standard errors returned by the server.
var (
	// ErrNotInitialized indicates a request arrived before initialize.
	ErrNotInitialized = errors.New("server not initialized")

	// ErrAlreadyInitialized indicates a second initialize request.
	ErrAlreadyInitialized = errors.New("server already initialized")

	// ErrShutdown indicates the connection has been shut down.
	ErrShutdown = errors.New("connection shut down")

	// ErrDocumentNotOpen indicates the document is not in the overlay.
	ErrDocumentNotOpen = errors.New("document not open")

	// ErrUnknownCommand indicates an executeCommand with an unregistered command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrApplyFailed indicates the client reported a failed workspace edit.
	ErrApplyFailed = errors.New("workspace edit not applied")
)

// RPCError represents a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("rpc error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC error codes.
const (
	// JSON-RPC standard errors
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// LSP-specific errors
	CodeServerNotInitialized = -32002
	CodeUnknownErrorCode     = -32001
	CodeRequestCancelled     = -32800
	CodeContentModified      = -32801
	CodeServerCancelled      = -32802
	CodeRequestFailed        = -32803
)

// rpcError builds an RPCError from a code and a wrapped cause.
func rpcError(code int, err error) *RPCError {
	return &RPCError{Code: code, Message: err.Error()}
}
