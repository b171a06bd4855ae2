package mcp

import (
	"fmt"
	"strings"
	"unicode"

	"forex-signal-bot/internal/domain"
)

const (
	defaultAnalysesLimit = 50
	maxAnalysesLimit     = 500
	maxPairLength        = 12
)

type analysisRunInput struct {
	Pair    string `json:"pair" jsonschema:"currency pair without separator (e.g. USDTRY, EURUSD)"`
	Horizon string `json:"horizon,omitempty" jsonschema:"short, medium or long; defaults to medium"`
}

type analysisRunOutput struct {
	Analysis *domain.Analysis `json:"analysis"`
}

type analysesListInput struct {
	Pair    string `json:"pair,omitempty" jsonschema:"optional currency pair"`
	Horizon string `json:"horizon,omitempty" jsonschema:"optional horizon: short, medium, long"`
	Limit   int    `json:"limit,omitempty" jsonschema:"number of analyses to return, max 500"`
}

type analysesListOutput struct {
	Analyses []domain.Analysis `json:"analyses"`
}

type horizonRow struct {
	Horizon   domain.Horizon  `json:"horizon"`
	Interval  domain.Interval `json:"interval"`
	RSIPeriod int             `json:"rsi_period"`
	SMAPeriod int             `json:"sma_period"`
	EMAPeriod int             `json:"ema_period"`
	ATRPeriod int             `json:"atr_period"`
}

func normalizePair(pair string) (string, error) {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	if pair == "" {
		return "", fmt.Errorf("pair is required")
	}
	if len(pair) > maxPairLength {
		return "", fmt.Errorf("pair too long: %s", pair)
	}
	for _, r := range pair {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", fmt.Errorf("unsupported pair: %s", pair)
		}
	}
	return pair, nil
}

func normalizeHorizon(raw string, fallback domain.Horizon) (domain.Horizon, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return domain.ParseHorizon(raw)
}

func normalizeAnalysesLimit(limit int) int {
	if limit <= 0 {
		return defaultAnalysesLimit
	}
	if limit > maxAnalysesLimit {
		return maxAnalysesLimit
	}
	return limit
}

func normalizeAnalysesFilter(in analysesListInput) (domain.AnalysisFilter, error) {
	filter := domain.AnalysisFilter{Limit: normalizeAnalysesLimit(in.Limit)}

	if strings.TrimSpace(in.Pair) != "" {
		pair, err := normalizePair(in.Pair)
		if err != nil {
			return domain.AnalysisFilter{}, err
		}
		filter.Pair = pair
	}

	horizon, err := normalizeHorizon(in.Horizon, "")
	if err != nil {
		return domain.AnalysisFilter{}, err
	}
	filter.Horizon = horizon
	return filter, nil
}

func horizonRows() []horizonRow {
	rows := make([]horizonRow, 0, len(domain.SupportedHorizons))
	for _, h := range domain.SupportedHorizons {
		p, _ := h.Params()
		rows = append(rows, horizonRow{
			Horizon:   h,
			Interval:  p.Interval,
			RSIPeriod: p.RSIPeriod,
			SMAPeriod: p.SMAPeriod,
			EMAPeriod: p.EMAPeriod,
			ATRPeriod: p.ATRPeriod,
		})
	}
	return rows
}
