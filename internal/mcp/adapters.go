package mcp

import (
	"context"

	"forex-signal-bot/internal/domain"
)

// AnalysisRunner runs and lists analyses for MCP clients.
type AnalysisRunner interface {
	Analyze(ctx context.Context, pair string, horizon domain.Horizon) (*domain.Analysis, error)
	ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]domain.Analysis, error)
}
