package model

import "strings"

// Period selects the trailing window shown on the dashboard.
type Period string

const (
	PeriodToday Period = "1D"
	PeriodWeek  Period = "1W"
	PeriodMonth Period = "1M"
	PeriodAll   Period = "ALL"
)

// ParsePeriod maps a selector value to a Period; unknown values select ALL.
func ParsePeriod(s string) Period {
	switch Period(strings.ToUpper(strings.TrimSpace(s))) {
	case PeriodToday:
		return PeriodToday
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodAll
	}
}

// ChartType selects how the price series is drawn.
type ChartType string

const (
	ChartLine        ChartType = "line"
	ChartCandlestick ChartType = "candlestick"
)

// ParseChartType maps a selector value to a ChartType; unknown values select line.
func ParseChartType(s string) ChartType {
	if ChartType(strings.ToLower(strings.TrimSpace(s))) == ChartCandlestick {
		return ChartCandlestick
	}
	return ChartLine
}

// Indicator is a moving average overlay.
type Indicator struct {
	ID     string
	Window int
	Name   string
	Color  string
}

// Indicators lists the overlays offered by the dashboard, in display order.
var Indicators = []Indicator{
	{ID: "sma5", Window: 5, Name: "5-Day MA", Color: "rgba(255,165,0,0.7)"},
	{ID: "sma10", Window: 10, Name: "10-Day MA", Color: "rgba(255,0,0,0.7)"},
	{ID: "sma20", Window: 20, Name: "20-Day MA", Color: "rgba(128,0,128,0.7)"},
}

// LookupIndicator returns the indicator with the given ID.
func LookupIndicator(id string) (Indicator, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, ind := range Indicators {
		if ind.ID == id {
			return ind, true
		}
	}
	return Indicator{}, false
}

// Controls are the user inputs of one dashboard view.
type Controls struct {
	Chart       ChartType `json:"chart"`
	Period      Period    `json:"period"`
	Indicators  []string  `json:"indicators"`
	TableClicks int       `json:"table_clicks"`
}

// DefaultControls matches the initial state of the dashboard page.
func DefaultControls() Controls {
	return Controls{Chart: ChartLine, Period: PeriodAll}
}

// Normalize replaces unknown selector values with their defaults.
func (c Controls) Normalize() Controls {
	c.Chart = ParseChartType(string(c.Chart))
	c.Period = ParsePeriod(string(c.Period))
	if c.TableClicks < 0 {
		c.TableClicks = 0
	}
	return c
}
