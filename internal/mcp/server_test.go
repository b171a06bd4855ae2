package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestHTTPTransportRequiresTokenAndServesTools(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv, svc := testServer()
	httpSrv := httptest.NewServer(NewHTTPTransportHandler(srv, HTTPHandlerConfig{AuthToken: "secret", RateLimitPerMin: 600}))
	defer httpSrv.Close()

	resp, err := http.Post(httpSrv.URL, "application/json", nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-http-test", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   httpSrv.URL,
		HTTPClient: &http.Client{Transport: &authRoundTripper{token: "secret"}},
	}, nil)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "analysis_run", Arguments: map[string]any{"pair": "eurusd", "horizon": "short"}})
	if err != nil {
		t.Fatalf("call tool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	if svc.lastPair != "EURUSD" {
		t.Fatalf("expected EURUSD, got %s", svc.lastPair)
	}
}

func TestMCPSpanName(t *testing.T) {
	if got := mcpSpanName("tools/call", nil); got != "mcp.tool.call" {
		t.Fatalf("unexpected span name %s", got)
	}
	if got := mcpSpanName("resources/read", nil); got != "mcp.resource.read" {
		t.Fatalf("unexpected span name %s", got)
	}
	if got := mcpSpanName("tools/list", nil); got != "mcp.tools.list" {
		t.Fatalf("unexpected span name %s", got)
	}
}
