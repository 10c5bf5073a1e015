package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Tools   []Tool        `json:"tools"`
	Content []TextContent `json:"content"`
	Error   *ErrorBody    `json:"error"`
}

func newTestServer() *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	server := NewServer(logger)

	server.Register(Tool{
		Name:        "echo",
		Description: "Echoes the message back",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var params struct {
				Message string `json:"message"`
			}
			if err := unmarshalArgs(args, &params); err != nil {
				return "", err
			}
			return params.Message, nil
		},
	})
	server.Register(Tool{
		Name:        "boom",
		Description: "Always fails",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			return "", fmt.Errorf("exploded")
		},
	})
	return server
}

func handleLine(t *testing.T, server *Server, line string) response {
	t.Helper()
	raw := server.Handle(context.Background(), []byte(line))
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	var resp response
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestToolsList(t *testing.T) {
	server := newTestServer()

	resp := handleLine(t, server, `{"method":"tools/list"}`)
	require.Nil(t, resp.Error)
	require.Len(t, resp.Tools, 2)

	// Registration order is preserved
	assert.Equal(t, "echo", resp.Tools[0].Name)
	assert.Equal(t, "boom", resp.Tools[1].Name)
	assert.NotEmpty(t, resp.Tools[0].Description)
	assert.NotNil(t, resp.Tools[0].InputSchema)
}

func TestToolsCall(t *testing.T) {
	server := newTestServer()

	resp := handleLine(t, server, `{"method":"tools/call","params":{"name":"echo","arguments":{"message":"hello"}}}`)
	require.Nil(t, resp.Error)
	require.Len(t, resp.Content, 1)
	assert.Equal(t, "text", resp.Content[0].Type)
	assert.Equal(t, "hello", resp.Content[0].Text)
}

func TestMalformedLineReturnsParseError(t *testing.T) {
	server := newTestServer()

	resp := handleLine(t, server, `{not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeParseError, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestUnknownMethod(t *testing.T) {
	server := newTestServer()

	resp := handleLine(t, server, `{"method":"resources/list"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeUnknownMethod, resp.Error.Code)
}

func TestUnknownTool(t *testing.T) {
	server := newTestServer()

	resp := handleLine(t, server, `{"method":"tools/call","params":{"name":"nonexistent"}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestToolFailureReturnsToolError(t *testing.T) {
	server := newTestServer()

	resp := handleLine(t, server, `{"method":"tools/call","params":{"name":"boom"}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeToolError, resp.Error.Code)
	assert.Equal(t, "exploded", resp.Error.Message)
}

func TestRun_OneResponsePerLine(t *testing.T) {
	server := newTestServer()

	input := strings.Join([]string{
		`{"method":"tools/list"}`,
		`garbage`,
		`{"method":"tools/call","params":{"name":"echo","arguments":{"message":"still alive"}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	err := server.Run(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	scanner := bufio.NewScanner(&out)
	var lines []response
	for scanner.Scan() {
		var resp response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		lines = append(lines, resp)
	}

	// A malformed line produces an error response and the loop keeps going
	require.Len(t, lines, 3)
	assert.Nil(t, lines[0].Error)
	require.NotNil(t, lines[1].Error)
	assert.Equal(t, CodeParseError, lines[1].Error.Code)
	assert.Nil(t, lines[2].Error)
	assert.Equal(t, "still alive", lines[2].Content[0].Text)
}

func TestRun_SkipsBlankLines(t *testing.T) {
	server := newTestServer()

	var out bytes.Buffer
	err := server.Run(context.Background(), strings.NewReader("\n\n{\"method\":\"tools/list\"}\n"), &out)
	require.NoError(t, err)

	responses := strings.Count(out.String(), "\n")
	assert.Equal(t, 1, responses)
}
