package calculator

import (
	"math"
	"time"

	"PriceDashboard/internal/model"
)

// PercentChange returns (to-from)/from in percent, or 0 when from is exactly 0.
func PercentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

// ChangeSinceLast compares the last price with the one before it.
// Series with fewer than two points have no change.
func ChangeSinceLast(series model.TimeSeries) (change, pct float64) {
	n := len(series)
	if n < 2 {
		return 0, 0
	}
	prev, last := series[n-2].Price, series[n-1].Price
	change = last - prev
	return change, PercentChange(prev, last)
}

// OHLCByDate builds one bar per calendar date, in the order dates first appear.
// Missing prices are skipped; dates without any price produce no bar.
func OHLCByDate(points model.TimeSeries) []model.OHLCBar {
	var bars []model.OHLCBar
	index := make(map[string]int)
	for _, p := range points {
		if !p.HasTime() || !p.HasPrice() {
			continue
		}
		date := p.Date()
		key := date.Format(time.DateOnly)
		i, ok := index[key]
		if !ok {
			index[key] = len(bars)
			bars = append(bars, model.OHLCBar{Date: date, Open: p.Price, High: p.Price, Low: p.Price, Close: p.Price})
			continue
		}
		b := &bars[i]
		b.High = math.Max(b.High, p.Price)
		b.Low = math.Min(b.Low, p.Price)
		b.Close = p.Price
	}
	return bars
}

// TodayStats summarizes the points dated today. When there are none it falls back to
// the most recent date present in the series. ok is false only when no point is dated.
func TodayStats(series model.TimeSeries, today time.Time) (stats model.DayStats, ok bool) {
	day := pointsOn(series, today)
	if len(day) == 0 {
		latest, found := latestDate(series)
		if !found {
			return model.DayStats{}, false
		}
		day = pointsOn(series, latest)
	}

	prices := day.Prices()
	stats = model.DayStats{
		Date:   day[0].Date(),
		Open:   prices[0],
		Close:  prices[len(prices)-1],
		Prices: prices,
	}
	stats.High, stats.Low = maxMin(prices)
	stats.Change = stats.Close - stats.Open
	stats.ChangePct = PercentChange(stats.Open, stats.Close)
	return stats, true
}

// YTDChangePct is the change from the first to the last price dated on or after
// yearStart, or 0 when there is none.
func YTDChangePct(series model.TimeSeries, yearStart time.Time) float64 {
	subset := pointsSince(series, yearStart)
	if len(subset) == 0 {
		return 0
	}
	return PercentChange(subset[0].Price, subset[len(subset)-1].Price)
}

// RangeOverTrailingYear returns the high and low of prices dated on or after oneYearAgo,
// or the fallbacks when no point qualifies.
func RangeOverTrailingYear(series model.TimeSeries, oneYearAgo time.Time, fallbackHigh, fallbackLow float64) (high, low float64) {
	subset := pointsSince(series, oneYearAgo)
	if len(subset) == 0 {
		return fallbackHigh, fallbackLow
	}
	return maxMin(subset.Prices())
}

// Volatility is the sample standard deviation of the prices, ignoring missing ones.
// It is 0 when fewer than two prices are available.
func Volatility(prices []float64) float64 {
	var n int
	var mean float64
	for _, p := range prices {
		if math.IsNaN(p) {
			continue
		}
		n++
		mean += p
	}
	if n < 2 {
		return 0
	}
	mean /= float64(n)
	var ss float64
	for _, p := range prices {
		if math.IsNaN(p) {
			continue
		}
		d := p - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Derive computes every statistic of the dashboard that does not depend on the
// selected window. now decides "today", the start of the year and the trailing year;
// it is converted to loc first.
func Derive(series model.TimeSeries, now time.Time, loc *time.Location) model.DerivedMetrics {
	var m model.DerivedMetrics
	if len(series) == 0 {
		return m
	}
	if loc != nil {
		now = now.In(loc)
	}
	last := series[len(series)-1]
	m.LastPrice = last.Price
	m.LastUpdated = last.Time
	m.PriceChange, m.PriceChangePct = ChangeSinceLast(series)

	m.Day, m.HasDay = TodayStats(series, now)

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	m.YTDChangePct = YTDChangePct(series, yearStart)

	oneYearAgo := model.DateOf(now.AddDate(0, 0, -365))
	m.High52w, m.Low52w = RangeOverTrailingYear(series, oneYearAgo, m.Day.High, m.Day.Low)
	return m
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func pointsOn(series model.TimeSeries, date time.Time) model.TimeSeries {
	var out model.TimeSeries
	for _, p := range series {
		if p.HasTime() && sameDate(p.Time, date) {
			out = append(out, p)
		}
	}
	return out
}

// pointsSince keeps points whose calendar date is on or after the date of since.
func pointsSince(series model.TimeSeries, since time.Time) model.TimeSeries {
	cutoff := model.DateOf(since)
	var out model.TimeSeries
	for _, p := range series {
		if p.HasTime() && !p.Date().Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

func latestDate(series model.TimeSeries) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, p := range series {
		if !p.HasTime() {
			continue
		}
		if !found || p.Time.After(latest) {
			latest = p.Time
			found = true
		}
	}
	return latest, found
}

// maxMin ignores missing prices; both results are NaN when every price is missing.
func maxMin(prices []float64) (high, low float64) {
	high, low = math.Inf(-1), math.Inf(1)
	seen := false
	for _, p := range prices {
		if math.IsNaN(p) {
			continue
		}
		seen = true
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}
	if !seen {
		return math.NaN(), math.NaN()
	}
	return high, low
}
