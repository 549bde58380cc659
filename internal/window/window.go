// Package window narrows a price series to the trailing period selected on the dashboard.
//
// The reference point is the latest timestamp in the data, not the wall clock, so a
// dashboard showing stale data still has a meaningful "today".
package window

import (
	"time"

	"PriceDashboard/internal/model"
)

// Reference returns the earliest and latest valid timestamps of the series.
// ok is false when no point has a timestamp.
func Reference(series model.TimeSeries) (first, last time.Time, ok bool) {
	for _, p := range series {
		if !p.HasTime() {
			continue
		}
		if !ok || p.Time.Before(first) {
			first = p.Time
		}
		if !ok || p.Time.After(last) {
			last = p.Time
		}
		ok = true
	}
	return first, last, ok
}

// Bounds computes the inclusive [start, end] range for the period.
func Bounds(series model.TimeSeries, period model.Period) (start, end time.Time, ok bool) {
	first, last, ok := Reference(series)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end = last
	switch period {
	case model.PeriodToday:
		start = model.DateOf(end)
	case model.PeriodWeek:
		start = end.AddDate(0, 0, -7)
	case model.PeriodMonth:
		start = end.AddDate(0, 0, -30)
	default:
		start = first
	}
	return start, end, true
}

// Filter returns the points of the series that fall within the period's bounds.
// Points without a timestamp are never part of a window.
func Filter(series model.TimeSeries, period model.Period) model.Window {
	start, end, ok := Bounds(series, period)
	if !ok {
		return model.Window{}
	}
	w := model.Window{Start: start, End: end}
	for _, p := range series {
		if p.HasTime() && w.Contains(p.Time) {
			w.Points = append(w.Points, p)
		}
	}
	return w
}
