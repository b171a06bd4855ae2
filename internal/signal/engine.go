package signal

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"forex-signal-bot/internal/domain"
)

const (
	rsiOversold       = 30.0
	rsiOverbought     = 70.0
	bollingerBandPct  = 0.05
	lowVolatilityATR  = 0.02
	levelATRMultiple  = 2
	levelDecimalPlace = 2
)

// Engine turns indicator readings into a directional verdict. It holds no
// state; every method is deterministic.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate scores r and derives take-profit and stop-loss levels.
func (e *Engine) Evaluate(r domain.Readings) domain.SignalResult {
	direction, scores, total := e.Score(r)
	tp, sl := e.Levels(r.Price, r.ATR, direction)
	return domain.SignalResult{
		Direction:  direction,
		Score:      total,
		Scores:     scores,
		TakeProfit: tp,
		StopLoss:   sl,
	}
}

// Score returns the direction, per-indicator scores and their sum.
// A sum of exactly zero resolves to SHORT.
func (e *Engine) Score(r domain.Readings) (domain.Direction, map[string]int, int) {
	scores := map[string]int{
		domain.ScoreRSI:       scoreRSI(r.RSI),
		domain.ScoreSMA:       scoreAbove(r.Price, r.SMA),
		domain.ScoreEMA:       scoreAbove(r.Price, r.EMA),
		domain.ScoreBollinger: scoreBollinger(r.Price, r.BollingerUpper, r.BollingerLower),
		domain.ScoreATR:       scoreVolatility(r.ATR, r.Price),
	}

	total := 0
	for _, v := range scores {
		total += v
	}

	if total > 0 {
		return domain.DirectionLong, scores, total
	}
	return domain.DirectionShort, scores, total
}

// Levels places TP and SL two ATRs either side of price. The sums are taken
// in float64 and the exact binary result is rounded to cents, ties to even.
func (e *Engine) Levels(price, atr float64, direction domain.Direction) (tp, sl decimal.Decimal) {
	offset := float64(levelATRMultiple * atr)
	up := roundCents(price + offset)
	down := roundCents(price - offset)
	if direction == domain.DirectionLong {
		return up, down
	}
	return down, up
}

func roundCents(x float64) decimal.Decimal {
	return exactDecimal(x).RoundBank(levelDecimalPlace)
}

// exactDecimal returns the full binary value of x, not its shortest
// round-tripping form.
func exactDecimal(x float64) decimal.Decimal {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	frac, exp := math.Frexp(x)
	mant := big.NewInt(int64(frac * (1 << 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, five), int32(exp))
}

// BollingerBands approximates the bands as price plus and minus five percent.
func BollingerBands(price float64) (upper, lower float64) {
	return price * (1 + bollingerBandPct), price * (1 - bollingerBandPct)
}

func scoreRSI(rsi float64) int {
	switch {
	case rsi < rsiOversold:
		return 2
	case rsi > rsiOverbought:
		return -2
	}
	return 0
}

func scoreAbove(price, average float64) int {
	if price > average {
		return 1
	}
	return -1
}

func scoreBollinger(price, upper, lower float64) int {
	switch {
	case price < lower:
		return 1
	case price > upper:
		return -1
	}
	return 0
}

func scoreVolatility(atr, price float64) int {
	if price != 0 && atr/price < lowVolatilityATR {
		return 1
	}
	return -1
}
