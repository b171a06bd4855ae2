package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Indicator is the provider function name for one indicator series.
type Indicator string

const (
	IndicatorRSI         Indicator = "RSI"
	IndicatorSMA         Indicator = "SMA"
	IndicatorEMA         Indicator = "EMA"
	IndicatorATR         Indicator = "ATR"
	IndicatorPriceSeries Indicator = "TIME_SERIES_DAILY"
)

// Interval is the provider sampling interval.
type Interval string

const (
	Interval60Min  Interval = "60min"
	IntervalDaily  Interval = "daily"
	IntervalWeekly Interval = "weekly"
)

// SeriesClose is the only series type the analysis requests.
const SeriesClose = "close"

const fingerprintPlaceholder = "None"

// IndicatorRequest identifies one provider call. Zero Period and empty
// SeriesType mean the parameter is absent.
type IndicatorRequest struct {
	Indicator  Indicator
	Symbol     string
	Interval   Interval
	Period     int
	SeriesType string
}

// Fingerprint is the cache key for the request.
func (r IndicatorRequest) Fingerprint() string {
	period := fingerprintPlaceholder
	if r.Period > 0 {
		period = strconv.Itoa(r.Period)
	}
	series := fingerprintPlaceholder
	if r.SeriesType != "" {
		series = r.SeriesType
	}
	return strings.Join([]string{string(r.Indicator), r.Symbol, string(r.Interval), period, series}, "-")
}

// Payload is a raw provider response body, kept opaque by the fetch layer.
type Payload []byte

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Score names used in SignalResult.Scores.
const (
	ScoreRSI       = "RSI"
	ScoreSMA       = "SMA"
	ScoreEMA       = "EMA"
	ScoreBollinger = "Bollinger"
	ScoreATR       = "ATR"
)

// ScoreOrder is the display order of per-indicator scores.
var ScoreOrder = []string{ScoreRSI, ScoreSMA, ScoreEMA, ScoreBollinger, ScoreATR}

// Readings are the latest indicator values for one pair plus the derived bands.
type Readings struct {
	RSI            float64 `json:"rsi"`
	SMA            float64 `json:"sma"`
	EMA            float64 `json:"ema"`
	ATR            float64 `json:"atr"`
	Price          float64 `json:"price"`
	BollingerUpper float64 `json:"bollinger_upper"`
	BollingerLower float64 `json:"bollinger_lower"`
}

type SignalResult struct {
	Direction  Direction       `json:"direction"`
	Score      int             `json:"score"`
	Scores     map[string]int  `json:"scores"`
	TakeProfit decimal.Decimal `json:"take_profit"`
	StopLoss   decimal.Decimal `json:"stop_loss"`
}

type Analysis struct {
	ID        uuid.UUID    `json:"id"`
	Pair      string       `json:"pair"`
	Horizon   Horizon      `json:"horizon"`
	Readings  Readings     `json:"readings"`
	Result    SignalResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

type AnalysisFilter struct {
	Pair    string
	Horizon Horizon
	Limit   int
}

type Language string

const (
	LanguageTR Language = "tr"
	LanguageEN Language = "en"
)

// SupportedLanguages lists locales in presentation order; the first is the fallback.
var SupportedLanguages = []Language{LanguageTR, LanguageEN}

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageTR:
		return LanguageTR, nil
	case LanguageEN:
		return LanguageEN, nil
	}
	return "", fmt.Errorf("unsupported language: %q", s)
}
