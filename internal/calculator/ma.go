package calculator

import (
	"errors"
	"math"
	"time"

	"PriceDashboard/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
// A missing price anywhere in that range makes the result NaN.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// MovingAverage computes the rolling mean of windowLength points over the full series,
// then keeps only the values whose timestamp lies in [start, end].
// Indices with fewer than windowLength prior points, or with a missing price in their
// range, produce no value.
func MovingAverage(series model.TimeSeries, windowLength int, start, end time.Time) []model.MAPoint {
	if windowLength <= 0 {
		return nil
	}
	prices := series.Prices()
	var out []model.MAPoint
	for i := windowLength - 1; i < len(series); i++ {
		p := series[i]
		if !p.HasTime() || p.Time.Before(start) || p.Time.After(end) {
			continue
		}
		v, err := CalculateSMA(prices[:i+1], windowLength)
		if err != nil || math.IsNaN(v) {
			continue
		}
		out = append(out, model.MAPoint{Time: p.Time, Value: v})
	}
	return out
}
