package lsp

import (
	"encoding/json"
	"strings"
	"testing"
)

func commandParams(t *testing.T, uri DocumentURI, ranges []Range) ExecuteCommandParams {
	t.Helper()
	arg := map[string]any{"uri": uri}
	if len(ranges) > 0 {
		arg["ranges"] = ranges
	}
	raw, err := json.Marshal(arg)
	if err != nil {
		t.Fatalf("marshal command args: %v", err)
	}
	return ExecuteCommandParams{
		Command:   CommandConvertSelectors,
		Arguments: []json.RawMessage{raw},
	}
}

// replyApplyEdit answers a workspace/applyEdit request from the server.
func (c *testConn) replyApplyEdit(id json.RawMessage, applied bool, reason string) {
	c.t.Helper()
	result := map[string]any{"applied": applied}
	if reason != "" {
		result["failureReason"] = reason
	}
	err := writeFrame(c.w, map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
	if err != nil {
		c.t.Fatalf("replying to applyEdit: %v", err)
	}
}

func (c *testConn) expectShowMessage(typ MessageType, contains string) {
	c.t.Helper()
	m := c.read()
	if m.Method != "window/showMessage" {
		c.t.Fatalf("expected window/showMessage, got %q frame", m.Method)
	}
	var p ShowMessageParams
	if err := json.Unmarshal(m.Params, &p); err != nil {
		c.t.Fatalf("bad showMessage params: %v", err)
	}
	if p.Type != typ {
		c.t.Errorf("message type = %d, want %d", p.Type, typ)
	}
	if !strings.Contains(p.Message, contains) {
		c.t.Errorf("message = %q, want it to contain %q", p.Message, contains)
	}
}

func (c *testConn) expectNullResponse(id int) {
	c.t.Helper()
	m := c.read()
	if m.Method != "" {
		c.t.Fatalf("expected response, got %q frame", m.Method)
	}
	var got int
	if err := json.Unmarshal(m.ID, &got); err != nil || got != id {
		c.t.Fatalf("response id = %s, want %d", m.ID, id)
	}
	if m.Error != nil {
		c.t.Fatalf("unexpected error: %v", m.Error)
	}
	if string(m.Result) != "null" {
		c.t.Errorf("result = %s, want null", m.Result)
	}
}

const commandDoc = "tp @e[111 200 333 100 222 300]\nsay @a[1 2 3]\n"

func TestConvertCommandAppliesEdit(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	uri := DocumentURI("file:///pack/main.mcfunction")
	conn.openDoc(uri, commandDoc)

	id := conn.request("workspace/executeCommand", commandParams(t, uri, nil))

	m := conn.read()
	if m.Method != "workspace/applyEdit" {
		t.Fatalf("expected workspace/applyEdit request, got %q frame", m.Method)
	}
	var p ApplyWorkspaceEditParams
	if err := json.Unmarshal(m.Params, &p); err != nil {
		t.Fatalf("bad applyEdit params: %v", err)
	}
	if p.Label != "Convert coordinate selectors" {
		t.Errorf("label = %q", p.Label)
	}

	edits := p.Edit.Changes[uri]
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}
	volume := edits[0]
	if volume.NewText != "@e[x=100,y=200,z=300,dx=11,dy=22,dz=33]" {
		t.Errorf("volume edit text = %q", volume.NewText)
	}
	expectedVolume := Range{Start: Position{Line: 0, Character: 3}, End: Position{Line: 0, Character: 30}}
	if volume.Range != expectedVolume {
		t.Errorf("volume edit range = %+v, want %+v", volume.Range, expectedVolume)
	}
	point := edits[1]
	if point.NewText != "@a[x=1,y=2,z=3]" {
		t.Errorf("point edit text = %q", point.NewText)
	}
	expectedPoint := Range{Start: Position{Line: 1, Character: 4}, End: Position{Line: 1, Character: 13}}
	if point.Range != expectedPoint {
		t.Errorf("point edit range = %+v, want %+v", point.Range, expectedPoint)
	}

	conn.replyApplyEdit(m.ID, true, "")
	conn.expectNullResponse(id)
}

func TestConvertCommandSelection(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	uri := DocumentURI("file:///pack/main.mcfunction")
	conn.openDoc(uri, commandDoc)

	// Only the first line is selected, so the point selector on the second
	// line stays untouched.
	ranges := []Range{{Start: Position{Line: 0, Character: 0}, End: Position{Line: 1, Character: 0}}}
	id := conn.request("workspace/executeCommand", commandParams(t, uri, ranges))

	m := conn.read()
	if m.Method != "workspace/applyEdit" {
		t.Fatalf("expected workspace/applyEdit request, got %q frame", m.Method)
	}
	var p ApplyWorkspaceEditParams
	if err := json.Unmarshal(m.Params, &p); err != nil {
		t.Fatalf("bad applyEdit params: %v", err)
	}
	edits := p.Edit.Changes[uri]
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	expected := Range{Start: Position{Line: 0, Character: 3}, End: Position{Line: 0, Character: 30}}
	if edits[0].Range != expected {
		t.Errorf("edit range = %+v, want %+v", edits[0].Range, expected)
	}

	conn.replyApplyEdit(m.ID, true, "")
	conn.expectNullResponse(id)
}

func TestConvertCommandNothing(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	uri := DocumentURI("file:///pack/main.mcfunction")
	conn.openDoc(uri, "say hello\n")

	id := conn.request("workspace/executeCommand", commandParams(t, uri, nil))
	conn.expectShowMessage(MessageTypeInfo, "Nothing to convert")
	conn.expectNullResponse(id)
}

func TestConvertCommandWrongExtension(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	uri := DocumentURI("file:///pack/readme.txt")
	conn.openDoc(uri, commandDoc)

	id := conn.request("workspace/executeCommand", commandParams(t, uri, nil))
	conn.expectShowMessage(MessageTypeInfo, "only works on .mcfunction files")
	conn.expectNullResponse(id)
}

func TestConvertCommandApplyRefused(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	uri := DocumentURI("file:///pack/main.mcfunction")
	conn.openDoc(uri, commandDoc)

	id := conn.request("workspace/executeCommand", commandParams(t, uri, nil))

	m := conn.read()
	if m.Method != "workspace/applyEdit" {
		t.Fatalf("expected workspace/applyEdit request, got %q frame", m.Method)
	}
	conn.replyApplyEdit(m.ID, false, "document changed")

	conn.expectShowMessage(MessageTypeError, "Could not apply the selector conversion")
	conn.expectNullResponse(id)
}

func TestConvertCommandNoApplyCapability(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(false, nil)

	uri := DocumentURI("file:///pack/main.mcfunction")
	conn.openDoc(uri, commandDoc)

	id := conn.request("workspace/executeCommand", commandParams(t, uri, nil))
	conn.expectShowMessage(MessageTypeError, "Could not apply the selector conversion")
	conn.expectNullResponse(id)
}

func TestConvertCommandDocNotOpen(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	params := commandParams(t, "file:///pack/missing.mcfunction", nil)
	m := conn.call("workspace/executeCommand", params)
	if m.Error == nil || m.Error.Code != CodeInvalidParams {
		t.Errorf("error = %v, want code %d", m.Error, CodeInvalidParams)
	}
}

func TestConvertCommandUnknown(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	raw, _ := json.Marshal(map[string]any{"uri": "file:///x.mcfunction"})
	m := conn.call("workspace/executeCommand", ExecuteCommandParams{
		Command:   "mcfunc.doSomethingElse",
		Arguments: []json.RawMessage{raw},
	})
	if m.Error == nil || m.Error.Code != CodeInvalidParams {
		t.Fatalf("error = %v, want code %d", m.Error, CodeInvalidParams)
	}
	if !strings.Contains(m.Error.Message, "unknown command") {
		t.Errorf("error message = %q, want it to mention the unknown command", m.Error.Message)
	}
}

func TestConvertCommandMissingArguments(t *testing.T) {
	conn := startTestServer(t)
	conn.initialize(true, nil)

	m := conn.call("workspace/executeCommand", ExecuteCommandParams{
		Command: CommandConvertSelectors,
	})
	if m.Error == nil || m.Error.Code != CodeInvalidParams {
		t.Errorf("error = %v, want code %d", m.Error, CodeInvalidParams)
	}
}
