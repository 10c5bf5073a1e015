package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Dispatcher error codes, JSON-RPC style
const (
	CodeParseError    = -1
	CodeUnknownMethod = -32601
	CodeInvalidParams = -32602
	CodeToolError     = -32000
)

// Request is one newline-delimited JSON request from the client
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// CallParams carries the tool name and arguments for a tools/call request
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ErrorBody is the error half of a response envelope
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TextContent is one block of tool output
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Server reads newline-delimited JSON requests from a stream, dispatches
// them to registered tools, and writes one JSON response per line. A
// malformed line produces an error response, never a crash.
type Server struct {
	tools  map[string]Tool
	order  []string
	logger *logrus.Logger
}

// ToolHandler executes a tool call and returns the text payload
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool is a single callable exposed over the dispatcher
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     ToolHandler            `json:"-"`
}

// NewServer creates an empty dispatcher
func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// Register adds a tool to the dispatcher. Registration order is the
// tools/list order.
func (s *Server) Register(tool Tool) {
	if _, exists := s.tools[tool.Name]; !exists {
		s.order = append(s.order, tool.Name)
	}
	s.tools[tool.Name] = tool
}

// Run processes requests until the input stream is closed or the context
// is cancelled
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response := s.Handle(ctx, line)
		if err := encoder.Encode(response); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	return scanner.Err()
}

// Handle dispatches a single raw request and returns the response object
func (s *Server) Handle(ctx context.Context, raw []byte) interface{} {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(CodeParseError, "failed to parse request: "+err.Error())
	}

	switch req.Method {
	case "tools/list":
		return s.handleList()
	case "tools/call":
		return s.handleCall(ctx, req.Params)
	default:
		return errorResponse(CodeUnknownMethod, fmt.Sprintf("unknown method %q", req.Method))
	}
}

func (s *Server) handleList() interface{} {
	tools := make([]Tool, 0, len(s.order))
	for _, name := range s.order {
		tools = append(tools, s.tools[name])
	}
	return map[string]interface{}{"tools": tools}
}

func (s *Server) handleCall(ctx context.Context, params json.RawMessage) interface{} {
	var call CallParams
	if err := json.Unmarshal(params, &call); err != nil {
		return errorResponse(CodeInvalidParams, "failed to parse call params: "+err.Error())
	}

	tool, ok := s.tools[call.Name]
	if !ok {
		return errorResponse(CodeInvalidParams, fmt.Sprintf("unknown tool %q", call.Name))
	}

	text, err := tool.Handler(ctx, call.Arguments)
	if err != nil {
		s.logger.WithError(err).WithField("tool", call.Name).Error("Tool call failed")
		return errorResponse(CodeToolError, err.Error())
	}

	return map[string]interface{}{
		"content": []TextContent{{Type: "text", Text: text}},
	}
}

func errorResponse(code int, message string) interface{} {
	return map[string]interface{}{
		"error": ErrorBody{Code: code, Message: message},
	}
}
