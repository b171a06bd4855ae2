package domain

import "strings"

// Horizon is the user-selected trading time frame.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// SupportedHorizons lists horizons in presentation order.
var SupportedHorizons = []Horizon{HorizonShort, HorizonMedium, HorizonLong}

// HorizonParams holds the provider interval and indicator periods for a horizon.
type HorizonParams struct {
	Interval  Interval `json:"interval"`
	RSIPeriod int      `json:"rsi_period"`
	SMAPeriod int      `json:"sma_period"`
	EMAPeriod int      `json:"ema_period"`
	ATRPeriod int      `json:"atr_period"`
}

var horizonParams = map[Horizon]HorizonParams{
	HorizonShort:  {Interval: Interval60Min, RSIPeriod: 7, SMAPeriod: 10, EMAPeriod: 10, ATRPeriod: 7},
	HorizonMedium: {Interval: IntervalDaily, RSIPeriod: 14, SMAPeriod: 20, EMAPeriod: 20, ATRPeriod: 14},
	HorizonLong:   {Interval: IntervalWeekly, RSIPeriod: 30, SMAPeriod: 50, EMAPeriod: 50, ATRPeriod: 30},
}

// Params returns a copy of the horizon's parameters.
func (h Horizon) Params() (HorizonParams, bool) {
	p, ok := horizonParams[h]
	return p, ok
}

func (h Horizon) IsValid() bool {
	_, ok := horizonParams[h]
	return ok
}

func ParseHorizon(s string) (Horizon, error) {
	h := Horizon(strings.ToLower(strings.TrimSpace(s)))
	if !h.IsValid() {
		return "", ErrUnknownHorizon
	}
	return h, nil
}
