package model

import "time"

// MAPoint is a single moving average value.
type MAPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// DayStats summarizes the prices of a single trading day.
type DayStats struct {
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Change    float64
	ChangePct float64
	Prices    []float64 // chronological, missing prices included
}

// DerivedMetrics holds everything computed from one loaded series.
// It is rebuilt on every refresh.
type DerivedMetrics struct {
	LastPrice      float64
	LastUpdated    time.Time
	PriceChange    float64
	PriceChangePct float64

	Day    DayStats
	HasDay bool

	YTDChangePct float64
	High52w      float64
	Low52w       float64

	MovingAverages map[int][]MAPoint
}
