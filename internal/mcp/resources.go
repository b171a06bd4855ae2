package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, analyses AnalysisRunner) {
	server.AddResource(&mcp.Resource{
		URI:         "forex://horizons",
		Name:        "horizons",
		Description: "Indicator interval and periods for each analysis horizon",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return jsonResource(req.Params.URI, horizonRows())
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "analyses://latest{?pair,horizon,limit}",
		Name:        "analyses-latest",
		Description: "Recorded analyses with optional pair/horizon/limit query params",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if analyses == nil {
			return nil, fmt.Errorf("analysis service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		if parsed.Scheme != "analyses" || parsed.Host != "latest" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		q := parsed.Query()
		input := analysesListInput{
			Pair:    q.Get("pair"),
			Horizon: q.Get("horizon"),
		}
		if rawLimit := strings.TrimSpace(q.Get("limit")); rawLimit != "" {
			n, err := strconv.Atoi(rawLimit)
			if err != nil {
				return nil, fmt.Errorf("invalid limit: %s", rawLimit)
			}
			input.Limit = n
		}

		filter, err := normalizeAnalysesFilter(input)
		if err != nil {
			return nil, err
		}
		list, err := analyses.ListAnalyses(ctx, filter)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, analysesListOutput{Analyses: list})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
