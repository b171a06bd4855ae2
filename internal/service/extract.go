package service

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"forex-signal-bot/internal/domain"
)

const (
	priceSeriesKey   = "Time Series (Daily)"
	priceSeriesField = "4. close"
)

func seriesKey(ind domain.Indicator) (series, field string) {
	if ind == domain.IndicatorPriceSeries {
		return priceSeriesKey, priceSeriesField
	}
	return "Technical Analysis: " + string(ind), string(ind)
}

// latestValue reads the first entry of the indicator's time-indexed series.
// The provider orders entries newest first.
func latestValue(ind domain.Indicator, payload domain.Payload) (float64, error) {
	series, field := seriesKey(ind)
	root := gjson.ParseBytes(payload)

	entries, ok := child(root, series)
	if !ok || !entries.IsObject() {
		return 0, domain.MalformedPayloadError{Indicator: ind, Reason: fmt.Sprintf("missing %q", series)}
	}

	var first gjson.Result
	found := false
	entries.ForEach(func(_, value gjson.Result) bool {
		first = value
		found = true
		return false
	})
	if !found {
		return 0, domain.MalformedPayloadError{Indicator: ind, Reason: "series is empty"}
	}

	raw, ok := child(first, field)
	if !ok {
		return 0, domain.MalformedPayloadError{Indicator: ind, Reason: fmt.Sprintf("latest entry has no %q", field)}
	}
	v, err := strconv.ParseFloat(raw.String(), 64)
	if err != nil {
		return 0, domain.MalformedPayloadError{Indicator: ind, Reason: fmt.Sprintf("%q is not numeric: %q", field, raw.String())}
	}
	return v, nil
}

// child looks key up literally; provider keys contain path metacharacters such as '.'.
func child(obj gjson.Result, key string) (gjson.Result, bool) {
	var out gjson.Result
	found := false
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out = v
			found = true
			return false
		}
		return true
	})
	return out, found
}
