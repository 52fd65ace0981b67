package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/mcfunc/internal/config"
)

// CommandConvertSelectors is the workspace command that rewrites coordinate
// selectors through a client-applied edit.
const CommandConvertSelectors = "mcfunc.convertSelectors"

// serverName is reported to the client during initialization.
const serverName = "mcfuncls"

// ServerState indicates where the server is in its lifecycle.
type ServerState int32

const (
	StateWaiting      ServerState = iota // before initialize
	StateInitializing                    // initialize answered, awaiting initialized
	StateRunning                         // serving requests
	StateShuttingDown                    // shutdown answered, awaiting exit
	StateExited
)

// String returns a human-readable state name.
func (s ServerState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting down"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Server is one language server session over a single client connection.
type Server struct {
	transport *Transport
	docs      *DocumentStore
	logger    *log.Logger
	session   string
	version   string

	mu  sync.Mutex
	cfg config.Config

	state     atomic.Int32
	applyEdit atomic.Bool // client supports workspace/applyEdit
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithConfig sets the starting configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithVersion sets the version reported to the client.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a server with an empty document overlay.
func NewServer(opts ...Option) *Server {
	s := &Server{
		docs:    NewDocumentStore(),
		logger:  log.New(io.Discard, "", 0),
		session: uuid.NewString()[:8],
		cfg:     config.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(StateWaiting))
	return s
}

// Session returns the short session identifier used in log lines.
func (s *Server) Session() string {
	return s.session
}

// State returns the current lifecycle state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

func (s *Server) setState(state ServerState) {
	old := ServerState(s.state.Swap(int32(state)))
	if old != state {
		s.logger.Printf("[%s] state %s -> %s", s.session, old, state)
	}
}

// Config returns a copy of the active configuration.
func (s *Server) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetConfig replaces the active configuration. Used for live reload.
func (s *Server) SetConfig(cfg config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.logger.Printf("[%s] configuration reloaded, extension %s", s.session, cfg.Extension)
}

// Run serves LSP over the given stream until the client disconnects, sends
// exit, or the context is canceled.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	t := NewTransport(r, w, nil)
	t.OnRequest(s.handleRequest)
	t.OnNotification(s.handleNotification)
	s.transport = t
	defer t.Close()

	s.logger.Printf("[%s] session started", s.session)
	err := t.Run(ctx)
	s.setState(StateExited)
	s.logger.Printf("[%s] session ended", s.session)
	return err
}

// ready reports whether feature requests may be served.
func (s *Server) ready() error {
	switch s.State() {
	case StateWaiting:
		return ErrNotInitialized
	case StateShuttingDown, StateExited:
		return ErrShutdown
	default:
		return nil
	}
}

// handleRequest routes one client request.
func (s *Server) handleRequest(ctx context.Context, method string, params json.RawMessage) (any, error) {
	s.logger.Printf("[%s] --> %s", s.session, method)

	switch method {
	case "initialize":
		var p InitializeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpcError(CodeInvalidParams, err)
		}
		return s.initialize(p)

	case "shutdown":
		s.setState(StateShuttingDown)
		return nil, nil

	case "textDocument/completion":
		if err := s.ready(); err != nil {
			return nil, &RPCError{Code: CodeServerNotInitialized, Message: err.Error()}
		}
		var p CompletionParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpcError(CodeInvalidParams, err)
		}
		return s.completion(p), nil

	case "textDocument/codeAction":
		if err := s.ready(); err != nil {
			return nil, &RPCError{Code: CodeServerNotInitialized, Message: err.Error()}
		}
		var p CodeActionParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpcError(CodeInvalidParams, err)
		}
		return s.codeAction(p), nil

	case "workspace/executeCommand":
		if err := s.ready(); err != nil {
			return nil, &RPCError{Code: CodeServerNotInitialized, Message: err.Error()}
		}
		var p ExecuteCommandParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpcError(CodeInvalidParams, err)
		}
		return s.executeCommand(ctx, p)

	default:
		return nil, &RPCError{Code: CodeMethodNotFound, Message: fmt.Sprintf("method not supported: %s", method)}
	}
}

// handleNotification routes one client notification.
func (s *Server) handleNotification(ctx context.Context, method string, params json.RawMessage) {
	switch method {
	case "initialized":
		s.setState(StateRunning)

	case "textDocument/didOpen":
		var p DidOpenTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			s.logger.Printf("[%s] didOpen: %v", s.session, err)
			return
		}
		s.docs.Open(p.TextDocument)
		s.logger.Printf("[%s] open %s (%d docs)", s.session, p.TextDocument.URI, s.docs.Len())

	case "textDocument/didChange":
		var p DidChangeTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			s.logger.Printf("[%s] didChange: %v", s.session, err)
			return
		}
		if err := s.docs.Change(p.TextDocument, p.ContentChanges); err != nil {
			s.logger.Printf("[%s] didChange: %v", s.session, err)
		}

	case "textDocument/didClose":
		var p DidCloseTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			s.logger.Printf("[%s] didClose: %v", s.session, err)
			return
		}
		s.docs.Close(p.TextDocument.URI)

	case "textDocument/didSave":
		// Content is already synced through didChange.

	case "workspace/didChangeConfiguration":
		var p struct {
			Settings json.RawMessage `json:"settings"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			s.logger.Printf("[%s] didChangeConfiguration: %v", s.session, err)
			return
		}
		s.applyClientOptions(p.Settings)

	case "$/cancelRequest":
		// The scan has no cancellation point; accepted and ignored.

	case "exit":
		if s.State() != StateShuttingDown {
			s.logger.Printf("[%s] exit without shutdown", s.session)
		}
		s.transport.Close()

	default:
		s.logger.Printf("[%s] notification ignored: %s", s.session, method)
	}
}

// initialize answers the handshake and applies client-supplied options.
func (s *Server) initialize(p InitializeParams) (*InitializeResult, error) {
	if s.State() != StateWaiting {
		return nil, &RPCError{Code: CodeInvalidRequest, Message: ErrAlreadyInitialized.Error()}
	}

	s.applyEdit.Store(p.Capabilities.Workspace != nil && p.Capabilities.Workspace.ApplyEdit)
	s.applyClientOptions(p.InitializationOptions)
	s.setState(StateInitializing)

	cfg := s.Config()
	caps := ServerCapabilities{
		TextDocumentSync: &TextDocumentSyncOptions{
			OpenClose: true,
			Change:    TextDocumentSyncKindFull,
		},
		ExecuteCommandProvider: &ExecuteCommandOptions{
			Commands: []string{CommandConvertSelectors},
		},
	}
	if cfg.Completion {
		caps.CompletionProvider = &CompletionOptions{TriggerCharacters: []string{"]"}}
	}
	if cfg.CodeActions {
		caps.CodeActionProvider = &CodeActionOptions{
			CodeActionKinds: []CodeActionKind{CodeActionKindRefactorRewrite, CodeActionKindSourceFixAll},
		}
	}

	return &InitializeResult{
		Capabilities: caps,
		ServerInfo:   &ServerInfo{Name: serverName, Version: s.version},
	}, nil
}

// clientOptions is the shape of initializationOptions and of the mcfunc
// section in didChangeConfiguration settings. Pointer fields distinguish
// absent keys from zero values.
type clientOptions struct {
	Extension   *string `json:"extension,omitempty"`
	Completion  *bool   `json:"completion,omitempty"`
	CodeActions *bool   `json:"codeActions,omitempty"`
}

// applyClientOptions overlays client-supplied options onto the configuration.
// The payload may be the options object itself or wrapped in an "mcfunc" key.
func (s *Server) applyClientOptions(raw json.RawMessage) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}

	var wrapped struct {
		Mcfunc *clientOptions `json:"mcfunc"`
	}
	opts := &clientOptions{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Mcfunc != nil {
		opts = wrapped.Mcfunc
	} else if err := json.Unmarshal(raw, opts); err != nil {
		s.logger.Printf("[%s] client options: %v", s.session, err)
		return
	}

	s.mu.Lock()
	if opts.Extension != nil && *opts.Extension != "" {
		s.cfg.Extension = config.NormalizeExtension(*opts.Extension)
	}
	if opts.Completion != nil {
		s.cfg.Completion = *opts.Completion
	}
	if opts.CodeActions != nil {
		s.cfg.CodeActions = *opts.CodeActions
	}
	cfg := s.cfg
	s.mu.Unlock()

	s.logger.Printf("[%s] options applied, extension %s", s.session, cfg.Extension)
}

// showMessage sends a window/showMessage notification, logging on failure.
func (s *Server) showMessage(ctx context.Context, typ MessageType, msg string) {
	err := s.transport.Notify(ctx, "window/showMessage", ShowMessageParams{Type: typ, Message: msg})
	if err != nil {
		s.logger.Printf("[%s] showMessage: %v", s.session, err)
	}
}
