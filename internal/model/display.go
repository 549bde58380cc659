package model

import "time"

// NoData is shown in every panel when the price file could not be loaded.
const NoData = "No data available"

// TableRow is one row of the price table. Price is nil when missing.
type TableRow struct {
	LastUpdated string
	Price       *float64
}

// TableRows is the payload of the price table.
type TableRows []TableRow

// ChartPoint is one point of the line chart. Value is nil when the price is missing.
type ChartPoint struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// ChartData is either a line or a set of candlesticks.
type ChartData struct {
	Type    ChartType    `json:"type"`
	Title   string       `json:"title"`
	Name    string       `json:"name"`
	Color   string       `json:"color,omitempty"`
	Line    []ChartPoint `json:"line,omitempty"`
	Candles []OHLCBar    `json:"candles,omitempty"`
}

// MASeries is a moving average overlay ready to draw.
type MASeries struct {
	ID     string    `json:"id"`
	Window int       `json:"window"`
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Points []MAPoint `json:"points"`
}

// Direction is the semantic style hint of the price change banner.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// ChangeStyle tells the presentation layer how to color the change banner.
type ChangeStyle struct {
	Direction Direction `json:"direction"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
}

// Stat is a labelled, formatted value.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}

// KeyStatsView is the key statistics panel.
type KeyStatsView struct {
	Day     []Stat `json:"day"`
	Summary []Stat `json:"summary"`
}

// DailyReportView is the narrative panel emitted after the report hour.
type DailyReportView struct {
	Title   string `json:"title"`
	Prices  []Stat `json:"prices"`
	Details []Stat `json:"details"`
}

// DisplayState is everything the presentation layer needs for one render.
type DisplayState struct {
	Available bool      `json:"available"`
	Controls  Controls  `json:"controls"`
	Table     TableRows `json:"table"`

	Chart          ChartData  `json:"chart"`
	MovingAverages []MASeries `json:"moving_averages"`

	PriceTitle      string      `json:"price_title"`
	LastUpdated     string      `json:"last_updated"`
	LastUpdatedAt   time.Time   `json:"last_updated_at"`
	PriceChangeText string      `json:"price_change"`
	ChangeStyle     ChangeStyle `json:"change_style"`

	KeyStats     *KeyStatsView `json:"key_stats,omitempty"`
	KeyStatsText string        `json:"key_stats_text,omitempty"`

	DailyReport     *DailyReportView `json:"daily_report,omitempty"`
	DailyReportText string           `json:"daily_report_text,omitempty"`

	TableVisible bool   `json:"table_visible"`
	ToggleLabel  string `json:"toggle_label"`

	GeneratedAt time.Time `json:"generated_at"`
}
