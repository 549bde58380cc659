package model

import (
	"math"
	"time"
)

// PricePoint is one row of the price file.
// A zero Time marks a missing timestamp; a NaN Price marks a missing price.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// HasTime reports whether the timestamp was parsed.
func (p PricePoint) HasTime() bool { return !p.Time.IsZero() }

// HasPrice reports whether the price was parsed.
func (p PricePoint) HasPrice() bool { return !math.IsNaN(p.Price) }

// Date returns the calendar date of the point at midnight, in the point's location.
func (p PricePoint) Date() time.Time { return DateOf(p.Time) }

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TimeSeries holds points in source order, which is assumed chronological.
type TimeSeries []PricePoint

// Prices returns all prices, missing ones included as NaN.
func (s TimeSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Window is a contiguous selection of a series by inclusive time bounds.
type Window struct {
	Start  time.Time
	End    time.Time
	Points TimeSeries
}

// Empty reports whether the window holds no points.
func (w Window) Empty() bool { return len(w.Points) == 0 }

// Contains reports whether t lies within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// OHLCBar aggregates all prices of one calendar date.
type OHLCBar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}
