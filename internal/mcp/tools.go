package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"forex-signal-bot/internal/domain"
)

func registerTools(server *mcp.Server, analyses AnalysisRunner) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analysis_run",
		Description: "Fetch the latest RSI, SMA, EMA, price and ATR for a currency pair and score a LONG/SHORT signal with take-profit and stop-loss levels",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in analysisRunInput) (*mcp.CallToolResult, analysisRunOutput, error) {
		if analyses == nil {
			return nil, analysisRunOutput{}, fmt.Errorf("analysis service unavailable")
		}
		pair, err := normalizePair(in.Pair)
		if err != nil {
			return nil, analysisRunOutput{}, err
		}
		horizon, err := normalizeHorizon(in.Horizon, domain.HorizonMedium)
		if err != nil {
			return nil, analysisRunOutput{}, err
		}

		result, err := analyses.Analyze(ctx, pair, horizon)
		if err != nil {
			return nil, analysisRunOutput{}, err
		}
		return nil, analysisRunOutput{Analysis: result}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyses_list",
		Description: "List recorded analyses, newest first, with optional pair, horizon and limit filters",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in analysesListInput) (*mcp.CallToolResult, analysesListOutput, error) {
		if analyses == nil {
			return nil, analysesListOutput{}, fmt.Errorf("analysis service unavailable")
		}
		filter, err := normalizeAnalysesFilter(in)
		if err != nil {
			return nil, analysesListOutput{}, err
		}
		result, err := analyses.ListAnalyses(ctx, filter)
		if err != nil {
			return nil, analysesListOutput{}, err
		}
		return nil, analysesListOutput{Analyses: result}, nil
	})
}
