// Package testserver runs the MCP server in-process for functional tests.
package testserver

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/trendify/internal/app"
	"github.com/rpggio/trendify/internal/config"
	"github.com/rpggio/trendify/internal/mcp"
	"github.com/stretchr/testify/require"
)

// TestServer is an MCP server wired to real services with an in-memory
// journal, plus a connected SDK client.
type TestServer struct {
	App     *app.App
	Session *sdkmcp.ClientSession
}

// New starts a server and connects a client. Plots land in a per-test
// temporary directory.
func New(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Journal.Path = ":memory:"
	cfg.Plot.Dir = t.TempDir()

	services, err := app.New(cfg, nil)
	require.NoError(t, err)

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Sessions: services.Sessions,
			Activity: services.Activity,
		},
		TransportMode: "stdio",
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = clientSession.Close()
		_ = serverSession.Wait()
		_ = services.Close()
	})

	return &TestServer{App: services, Session: clientSession}
}

// Call invokes a tool and returns the raw result.
func (ts *TestServer) Call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := ts.Session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "tools/call %s", name)
	require.NotEmpty(t, res.Content)
	return res
}

// CallTool invokes a tool that must succeed and decodes its JSON text into out.
func (ts *TestServer) CallTool(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	res := ts.Call(t, name, args)
	text := textOf(t, res)
	require.False(t, res.IsError, "tool %s failed: %s", name, text)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text), out))
	}
}

// CallToolError invokes a tool that must fail and returns its error payload.
func (ts *TestServer) CallToolError(t *testing.T, name string, args map[string]any) mcp.APIError {
	t.Helper()
	res := ts.Call(t, name, args)
	text := textOf(t, res)
	require.True(t, res.IsError, "tool %s unexpectedly succeeded: %s", name, text)
	var apiErr mcp.APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	return apiErr
}

func textOf(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}
