package mcp

import (
	"errors"
	"testing"

	"forex-signal-bot/internal/domain"
)

func TestNormalizePair(t *testing.T) {
	p, err := normalizePair(" usdtry ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "USDTRY" {
		t.Fatalf("expected USDTRY, got %s", p)
	}

	for _, bad := range []string{"", "  ", "USD/TRY", "ABCDEFGHIJKLMN"} {
		if _, err := normalizePair(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNormalizeHorizon(t *testing.T) {
	h, err := normalizeHorizon("", domain.HorizonMedium)
	if err != nil || h != domain.HorizonMedium {
		t.Fatalf("expected medium fallback, got %s (%v)", h, err)
	}

	h, err = normalizeHorizon("LONG", domain.HorizonMedium)
	if err != nil || h != domain.HorizonLong {
		t.Fatalf("expected long, got %s (%v)", h, err)
	}

	if _, err := normalizeHorizon("weekly", domain.HorizonMedium); !errors.Is(err, domain.ErrUnknownHorizon) {
		t.Fatalf("expected ErrUnknownHorizon, got %v", err)
	}
}

func TestNormalizeAnalysesFilter(t *testing.T) {
	filter, err := normalizeAnalysesFilter(analysesListInput{Pair: "eurusd", Horizon: "short", Limit: 999})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Pair != "EURUSD" || filter.Horizon != domain.HorizonShort {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if filter.Limit != maxAnalysesLimit {
		t.Fatalf("expected capped limit %d, got %d", maxAnalysesLimit, filter.Limit)
	}

	filter, err = normalizeAnalysesFilter(analysesListInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Pair != "" || filter.Horizon != "" || filter.Limit != defaultAnalysesLimit {
		t.Fatalf("unexpected empty filter: %+v", filter)
	}
}

func TestHorizonRows(t *testing.T) {
	rows := horizonRows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	long := rows[2]
	if long.Horizon != domain.HorizonLong || long.Interval != domain.IntervalWeekly || long.SMAPeriod != 50 || long.ATRPeriod != 30 {
		t.Fatalf("unexpected long row: %+v", long)
	}
}
