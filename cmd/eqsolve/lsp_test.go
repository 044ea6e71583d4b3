package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/nt314p/eqsolve/equations"
)

func TestLSPCommandExitsOnEOF(t *testing.T) {
	if _, _, err := executeCLI(t, "", "lsp"); err != nil {
		t.Fatalf("lsp failed: %v", err)
	}
}

func TestRunLSPSession(t *testing.T) {
	var in bytes.Buffer
	in.WriteString(lspFrame(t, map[string]any{"jsonrpc": "2.0", "id": 1, "method": "initialize"}))
	in.WriteString(lspFrame(t, map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": "file:///tmp/a.eq", "text": "x = 2y\ny = $\n"},
		},
	}))
	in.WriteString(lspFrame(t, map[string]any{"jsonrpc": "2.0", "id": 2, "method": "shutdown"}))
	in.WriteString(lspFrame(t, map[string]any{"jsonrpc": "2.0", "method": "exit"}))

	var out bytes.Buffer
	if err := runLSP(&in, &out, equations.Config{}); err != nil {
		t.Fatalf("runLSP failed: %v", err)
	}

	reader := &lspServer{reader: bufio.NewReader(&out)}
	var methods []string
	var diagnostics []any
	for range 3 {
		payload, err := reader.readPayload()
		if err != nil {
			t.Fatalf("read response: %v", err)
		}
		var msg struct {
			Method string `json:"method"`
			Params struct {
				Diagnostics []any `json:"diagnostics"`
			} `json:"params"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		methods = append(methods, msg.Method)
		if msg.Method == "textDocument/publishDiagnostics" {
			diagnostics = msg.Params.Diagnostics
		}
	}
	if !slices.Equal(methods, []string{"", "textDocument/publishDiagnostics", ""}) {
		t.Fatalf("unexpected message sequence %v", methods)
	}
	if len(diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diagnostics)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	diags := diagnosticsForSource("# ok\ny = 3\nx = 2y\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDiagnosticsForSourceWithErrors(t *testing.T) {
	diags := diagnosticsForSource("a = 1\nb = (a\nc = 2 3\n")
	if len(diags) != 2 {
		t.Fatalf("expected two diagnostics, got %v", diags)
	}

	first := diags[0]
	if first["severity"] != 1 {
		t.Fatalf("expected severity 1, got %#v", first["severity"])
	}
	start := first["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 1 || start["character"] != 4 {
		t.Fatalf("unexpected start position %v", start)
	}
	if first["message"] != "unmatched open parenthesis" {
		t.Fatalf("unexpected message %#v", first["message"])
	}
	if diags[1]["message"] != "unexpected operand '3'" {
		t.Fatalf("unexpected message %#v", diags[1]["message"])
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	items := completionItems("rate = 2\ntotal = rate * 3\n")
	if len(items) != len(equations.FunctionNames())+2 {
		t.Fatalf("unexpected completion count %d", len(items))
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item["label"].(string)
		if !ok {
			t.Fatalf("unexpected completion label: %#v", item["label"])
		}
		labels = append(labels, label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}

	function := findCompletionItem(t, items, "sqrt")
	if function["kind"] != completionKindFunction || function["detail"] != "function" {
		t.Fatalf("unexpected function item %#v", function)
	}

	variable := findCompletionItem(t, items, "total")
	if variable["kind"] != completionKindVariable || variable["detail"] != "total = rate * 3" {
		t.Fatalf("unexpected variable item %#v", variable)
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := &lspServer{docs: make(map[string]string)}
	params := map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.eq",
			"text": "a = b\nb = a\n",
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected diagnostics payload: %#v", paramsMap["diagnostics"])
	}
	if len(diags) != 1 || !strings.HasPrefix(diags[0]["message"].(string), "circular variable references") {
		t.Fatalf("expected a cycle diagnostic, got %v", diags)
	}
	if server.docs["file:///tmp/test.eq"] != "a = b\nb = a\n" {
		t.Fatalf("document not stored")
	}
}

func TestHandleMessageHover(t *testing.T) {
	server := &lspServer{
		docs: map[string]string{
			"file:///tmp/test.eq": "y = 3\nx = 2y + sqrt(y)\n",
		},
	}

	tests := []struct {
		line      int
		character int
		want      string
	}{
		{1, 0, "`x = 7.7320508"},
		{1, 10, "built-in function"},
		{0, 0, "`y = 3`"},
	}
	for _, tt := range tests {
		value := hoverValue(t, server, tt.line, tt.character)
		if !strings.Contains(value, tt.want) {
			t.Fatalf("hover at %d:%d: expected %q in %q", tt.line, tt.character, tt.want, value)
		}
	}
}

func TestHandleMessageHandlesCarriageReturnLines(t *testing.T) {
	source := "y = 3\rx = 2y\r"
	server := &lspServer{
		docs: map[string]string{"file:///tmp/test.eq": source},
	}
	if value := hoverValue(t, server, 1, 0); !strings.Contains(value, "`x = 6`") {
		t.Fatalf("unexpected hover %q", value)
	}
	variable := findCompletionItem(t, completionItems(source), "x")
	if variable["detail"] != "x = 2 * y" {
		t.Fatalf("unexpected variable item %#v", variable)
	}
}

func TestHandleMessageRejectsBadCompletionParams(t *testing.T) {
	server := &lspServer{docs: make(map[string]string)}
	for _, method := range []string{"textDocument/completion", "textDocument/hover"} {
		messages := server.handleMessage(lspInboundMessage{
			JSONRPC: "2.0",
			ID:      rawID("3"),
			Method:  method,
			Params:  json.RawMessage("42"),
		})
		if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != -32602 {
			t.Fatalf("%s: expected invalid params, got %#v", method, messages)
		}
		if messages[0].Result != nil {
			t.Fatalf("%s: error responses carry no result, got %#v", method, messages[0].Result)
		}
	}
}

func TestHandleMessageUnknownMethod(t *testing.T) {
	server := &lspServer{docs: make(map[string]string)}
	messages := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", ID: rawID("7"), Method: "workspace/symbol"})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != -32601 {
		t.Fatalf("expected method not found, got %#v", messages)
	}
	if messages := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", Method: "$/cancelRequest"}); messages != nil {
		t.Fatalf("notifications must not be answered, got %#v", messages)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "area = width * height\n"
	if word := wordAtPosition(source, 0, 9); word != "width" {
		t.Fatalf("expected width, got %q", word)
	}
	if word := wordAtPosition(source, 0, 12); word != "width" {
		t.Fatalf("expected the word ending at the cursor, got %q", word)
	}
	if word := wordAtPosition(source, 0, 13); word != "" {
		t.Fatalf("expected no word on an operator, got %q", word)
	}
	if word := wordAtPosition(source, 3, 0); word != "" {
		t.Fatalf("expected no word past the last line, got %q", word)
	}
}

func TestWordAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	source := "😀😀x y\n"
	word := wordAtPosition(source, 0, 4)
	if word != "x" {
		t.Fatalf("expected x, got %q", word)
	}
}

func hoverValue(t *testing.T, server *lspServer, line, character int) string {
	t.Helper()
	params := map[string]any{
		"textDocument": map[string]any{"uri": "file:///tmp/test.eq"},
		"position":     map[string]any{"line": line, "character": character},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("1"),
		Method:  "textDocument/hover",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	result, ok := messages[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover result: %#v", messages[0].Result)
	}
	contents, ok := result["contents"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover contents: %#v", result["contents"])
	}
	value, ok := contents["value"].(string)
	if !ok {
		t.Fatalf("unexpected hover value: %#v", contents["value"])
	}
	return value
}

func lspFrame(t *testing.T, msg any) string {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data)
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}
