package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/nt314p/eqsolve/equations"
	"github.com/spf13/cobra"
)

const (
	completionKindFunction = 3
	completionKindVariable = 6
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	config equations.Config
	docs   map[string]string
}

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run a language server for .eq files on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := solverConfig(cmd)
			if err != nil {
				return err
			}
			return runLSP(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		},
	}
}

func runLSP(in io.Reader, out io.Writer, cfg equations.Config) error {
	server := &lspServer{
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		config: cfg,
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		messages := s.handleMessage(incoming)
		for _, msg := range messages {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
					"serverInfo": map[string]any{
						"name":    "eqsolve",
						"version": version,
					},
				},
			},
		}
	case "initialized":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "exit":
		return nil
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid completion params"},
				},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(s.docs[params.TextDocument.URI]),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{
				{JSONRPC: "2.0", ID: incoming.ID, Result: nil},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": s.hoverText(source, word),
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(source),
		},
	}
}

func diagnosticsForSource(source string) []map[string]any {
	diags := equations.Diagnose(source)
	out := make([]map[string]any, 0, len(diags))
	for _, diag := range diags {
		out = append(out, newDiagnostic(max(0, diag.Line-1), max(0, diag.Column-1), diag.Message))
	}
	return out
}

func newDiagnostic(line, character int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": 1,
		"source":   "eqsolve",
		"message":  message,
	}
}

// hoverText describes a function name, or a variable with its solved value
// when the document currently solves.
func (s *lspServer) hoverText(source, word string) string {
	if equations.IsFunctionName(word) {
		return fmt.Sprintf("`%s`\n\nbuilt-in function", word)
	}
	defined := definedVariables(source)
	eq, ok := defined[word]
	if !ok {
		return fmt.Sprintf("`%s`\n\nundefined variable", word)
	}
	values, err := s.solve(source)
	if err != nil {
		return fmt.Sprintf("`%s`\n\nvariable", equations.Format(eq))
	}
	return fmt.Sprintf("`%s = %s`\n\n`%s`", word, formatNumber(values[word]), equations.Format(eq))
}

func (s *lspServer) solve(source string) (map[string]float64, error) {
	eqs, err := equations.ParseSource(source)
	if err != nil {
		return nil, err
	}
	sys, err := equations.NewSystem(eqs, s.config)
	if err != nil {
		return nil, err
	}
	return sys.Evaluate()
}

// definedVariables maps every variable assigned by a parseable line of
// source to its first equation.
func definedVariables(source string) map[string]equations.Equation {
	eqs, _ := equations.ParseLines(source)
	defined := make(map[string]equations.Equation, len(eqs))
	for _, eq := range eqs {
		if _, ok := defined[eq.LeftHandVariable]; !ok {
			defined[eq.LeftHandVariable] = eq
		}
	}
	return defined
}

func completionItems(source string) []map[string]any {
	items := make([]map[string]any, 0)
	for _, name := range equations.FunctionNames() {
		items = append(items, map[string]any{
			"label":  name,
			"kind":   completionKindFunction,
			"detail": "function",
		})
	}

	defined := definedVariables(source)
	names := make([]string, 0, len(defined))
	for name := range defined {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		items = append(items, map[string]any{
			"label":  name,
			"kind":   completionKindVariable,
			"detail": equations.Format(defined[name]),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i]["label"].(string) < items[j]["label"].(string)
	})
	return items
}

// wordAtPosition returns the identifier under an LSP position. character
// counts UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := equations.SplitLines(source)
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}

	cursor := runeIndex(runes, max(character, 0))
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

// runeIndex converts a UTF-16 offset into an index into runes.
func runeIndex(runes []rune, units int) int {
	offset := 0
	for i, r := range runes {
		if offset >= units {
			return i
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		offset += n
	}
	return len(runes)
}

func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
