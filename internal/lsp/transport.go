package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Transport handles JSON-RPC 2.0 communication with one peer over a byte
// stream, framed with LSP Content-Length headers. It serves both directions:
// requests and notifications from the peer are routed to the registered
// handlers, while Call and Notify send traffic the other way.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer

	mu      sync.Mutex
	nextID  atomic.Int64
	pending map[int64]chan *Response

	requests      RequestHandler
	notifications NotificationHandler

	closed atomic.Bool
	done   chan struct{}
}

// RequestHandler answers a peer-initiated request. The returned value is
// marshaled as the response result; a returned *RPCError is sent back as the
// error object, any other error becomes an internal error response.
type RequestHandler func(ctx context.Context, method string, params json.RawMessage) (any, error)

// NotificationHandler handles a peer-initiated notification.
type NotificationHandler func(ctx context.Context, method string, params json.RawMessage)

// Request is the wire form of an outgoing request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Response is the wire form of an answer to a call this side initiated.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// reply is the wire form of an answer to a peer-initiated request. The ID is
// echoed exactly as received, whether the peer used a number or a string.
type reply struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// NewTransport creates a transport over the given connection,
// typically stdin and stdout.
func NewTransport(r io.Reader, w io.Writer, c io.Closer) *Transport {
	return &Transport{
		reader:  bufio.NewReaderSize(r, 64*1024),
		writer:  w,
		closer:  c,
		pending: make(map[int64]chan *Response),
		done:    make(chan struct{}),
	}
}

// OnRequest registers the handler for peer-initiated requests.
// It must be called before Run.
func (t *Transport) OnRequest(h RequestHandler) {
	t.requests = h
}

// OnNotification registers the handler for peer-initiated notifications.
// It must be called before Run.
func (t *Transport) OnNotification(h NotificationHandler) {
	t.notifications = h
}

// Run reads and dispatches messages until the stream ends, the context is
// canceled, or the transport is closed. Notifications are handled on the read
// loop so document sync keeps its arrival order; requests run in their own
// goroutines and may block on calls back to the peer.
func (t *Transport) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return nil
		default:
		}

		msg, err := t.readMessage()
		if err != nil {
			if t.closed.Load() || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		t.dispatch(ctx, msg)
	}
}

// Close closes the transport and releases resources.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil // Already closed
	}

	close(t.done)

	// Cancel all pending calls by clearing the map. The channels stay open
	// so handleResponse never races with a close; waiters unblock via done.
	t.mu.Lock()
	t.pending = make(map[int64]chan *Response)
	t.mu.Unlock()

	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// IsClosed returns true if the transport has been closed.
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// Call sends a request to the peer and waits for its response.
func (t *Transport) Call(ctx context.Context, method string, params any, result any) error {
	if t.closed.Load() {
		return ErrShutdown
	}

	id := t.nextID.Add(1)
	ch := make(chan *Response, 1)

	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
	}()

	req := &Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}

	if err := t.send(req); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
		return ErrShutdown
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}
		return nil
	}
}

// Notify sends a notification to the peer (no response expected).
func (t *Transport) Notify(ctx context.Context, method string, params any) error {
	if t.closed.Load() {
		return ErrShutdown
	}

	return t.send(&Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
}

// send writes a message with the LSP Content-Length header.
func (t *Transport) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := io.WriteString(t.writer, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	return nil
}

// readMessage reads a single framed message.
func (t *Transport) readMessage() (json.RawMessage, error) {
	var contentLength int
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
				if err == nil {
					contentLength = length
				}
			}
		}
		// Ignore Content-Type and other headers
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// dispatch routes a message by shape: a method with an id is a request from
// the peer, a method alone is a notification, an id alone answers one of our
// calls. Anything else is dropped.
func (t *Transport) dispatch(ctx context.Context, data json.RawMessage) {
	var probe struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
		Error  *RPCError       `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return
	}

	hasID := len(probe.ID) > 0 && string(probe.ID) != "null"

	switch {
	case probe.Method != "" && hasID:
		go t.handleRequest(ctx, probe.ID, probe.Method, probe.Params)
	case probe.Method != "":
		if t.notifications != nil {
			t.notifications(ctx, probe.Method, probe.Params)
		}
	case hasID:
		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return
		}
		t.handleResponse(&resp)
	}
}

// handleRequest runs the request handler and writes the response.
func (t *Transport) handleRequest(ctx context.Context, id json.RawMessage, method string, params json.RawMessage) {
	if t.requests == nil {
		t.Reply(id, nil, &RPCError{Code: CodeMethodNotFound, Message: "no request handler"})
		return
	}

	result, err := t.requests(ctx, method, params)
	if err != nil {
		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) {
			rpcErr = &RPCError{Code: CodeInternalError, Message: err.Error()}
		}
		t.Reply(id, nil, rpcErr)
		return
	}
	t.Reply(id, result, nil)
}

// Reply answers a peer-initiated request. A nil result without an error is
// sent as a JSON null result, as the protocol requires one of the two.
func (t *Transport) Reply(id json.RawMessage, result any, rpcErr *RPCError) error {
	if t.closed.Load() {
		return ErrShutdown
	}

	r := reply{JSONRPC: "2.0", ID: id, Result: result, Error: rpcErr}
	if r.Result == nil && r.Error == nil {
		r.Result = json.RawMessage("null")
	}
	return t.send(&r)
}

// handleResponse delivers a response to its waiting caller.
func (t *Transport) handleResponse(resp *Response) {
	if t.closed.Load() {
		return
	}

	t.mu.Lock()
	ch, ok := t.pending[resp.ID]
	if ok {
		delete(t.pending, resp.ID)
	}
	t.mu.Unlock()

	if ok {
		select {
		case ch <- resp:
		default:
			// Channel full, drop response
		}
	}
}
