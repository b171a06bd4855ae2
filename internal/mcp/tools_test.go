package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"forex-signal-bot/internal/domain"
)

func TestToolsListAndInvoke(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, svc := testServer()
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	tools, err := session.ListTools(ctx, &sdkmcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools failed: %v", err)
	}
	if len(tools.Tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools.Tools))
	}

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "analysis_run", Arguments: map[string]any{"pair": "usdtry"}})
	if err != nil {
		t.Fatalf("call tool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	if svc.lastPair != "USDTRY" || svc.lastHorizon != domain.HorizonMedium {
		t.Fatalf("unexpected analysis call: pair=%s horizon=%s", svc.lastPair, svc.lastHorizon)
	}

	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out analysisRunOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	if out.Analysis == nil || out.Analysis.Result.Direction != domain.DirectionLong {
		t.Fatalf("unexpected analysis output: %+v", out)
	}

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "analyses_list", Arguments: map[string]any{"pair": "usdtry", "horizon": "long", "limit": 3}})
	if err != nil {
		t.Fatalf("list tool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected list tool error: %+v", res.Content)
	}
	if svc.lastFilter.Pair != "USDTRY" || svc.lastFilter.Horizon != domain.HorizonLong || svc.lastFilter.Limit != 3 {
		t.Fatalf("unexpected filter: %+v", svc.lastFilter)
	}
}

func TestToolsValidationFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, svc := testServer()
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	for _, args := range []map[string]any{
		{"pair": "USD/TRY"},
		{"pair": "USDTRY", "horizon": "weekly"},
	} {
		res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "analysis_run", Arguments: args})
		if err != nil {
			t.Fatalf("unexpected protocol error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected tool-level validation error for %v", args)
		}
	}
	if svc.lastPair != "" {
		t.Fatalf("expected no analysis to run, got pair %s", svc.lastPair)
	}
}

func TestToolsProviderErrorIsToolError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, svc := testServer()
	svc.err = domain.ProviderUnavailableError{Status: 503}
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "analysis_run", Arguments: map[string]any{"pair": "EURUSD", "horizon": "short"}})
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected provider failure to surface as a tool error")
	}
}
