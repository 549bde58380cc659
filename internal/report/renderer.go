// Package report turns derived metrics into the strings and panels shown on the dashboard.
package report

import (
	"fmt"
	"math"
	"time"

	"PriceDashboard/internal/calculator"
	"PriceDashboard/internal/model"
)

// Placeholder texts.
const (
	NoStatistics     = "No statistics available"
	NoReportData     = "No data available for today's report."
	ReportPendingFmt = "Daily report will be updated at %s."
)

// Renderer formats metrics using a static Style.
type Renderer struct {
	Style Style
}

// NewRenderer creates a Renderer; empty style fields take their defaults.
func NewRenderer(style Style) *Renderer {
	return &Renderer{Style: style.WithDefaults()}
}

func (r *Renderer) money(v float64) string { return FormatMoney(v, r.Style.Currency) }

// colorFor picks success for non-negative values and danger otherwise.
func (r *Renderer) colorFor(v float64) string {
	if v >= 0 {
		return r.Style.Colors.Success
	}
	return r.Style.Colors.Danger
}

// PriceTitle is the big current price, e.g. $61.23.
func (r *Renderer) PriceTitle(last float64) string {
	return r.money(last)
}

// ChartTitle is the title of the price chart.
func (r *Renderer) ChartTitle() string {
	return r.Style.Symbol + " Stock Price Chart"
}

// SeriesName labels the line trace.
func (r *Renderer) SeriesName() string {
	return r.Style.Symbol + " Stock Price"
}

// PriceChange formats the change since the previous update with its style hint.
func (r *Renderer) PriceChange(change, pct float64) (string, model.ChangeStyle) {
	var style model.ChangeStyle
	switch {
	case change > 0:
		style = model.ChangeStyle{Direction: model.DirectionUp, Icon: "▲", Color: r.Style.Colors.Success}
	case change < 0:
		style = model.ChangeStyle{Direction: model.DirectionDown, Icon: "▼", Color: r.Style.Colors.Danger}
	default:
		style = model.ChangeStyle{Direction: model.DirectionFlat, Icon: "◆", Color: r.Style.Colors.Secondary}
	}
	text := fmt.Sprintf("%s %s (%s) since last update",
		style.Icon, r.money(math.Abs(change)), FormatPercent(math.Abs(pct)))
	return text, style
}

// KeyStats builds the key statistics panel, or nil when there is no day to report on.
func (r *Renderer) KeyStats(m model.DerivedMetrics) *model.KeyStatsView {
	if !m.HasDay {
		return nil
	}
	d := m.Day
	return &model.KeyStatsView{
		Day: []model.Stat{
			{Label: "Open", Value: r.money(d.Open)},
			{Label: "High", Value: r.money(d.High)},
			{Label: "Low", Value: r.money(d.Low)},
			{Label: "Close", Value: r.money(d.Close)},
		},
		Summary: []model.Stat{
			{
				Label: "Day Change",
				Value: fmt.Sprintf("%s (%s)", r.money(d.Change), FormatPercent(d.ChangePct)),
				Color: r.colorFor(d.Change),
			},
			{Label: "YTD", Value: FormatPercent(m.YTDChangePct), Color: r.colorFor(m.YTDChangePct)},
			{Label: "52W Range", Value: fmt.Sprintf("%s - %s", r.money(m.Low52w), r.money(m.High52w))},
		},
	}
}

// ReportDue reports whether the daily report may be shown at now.
func (r *Renderer) ReportDue(now time.Time) bool {
	return now.UTC().Hour() >= r.Style.ReportHourUTC
}

// PendingMessage is shown before the report hour.
func (r *Renderer) PendingMessage() string {
	return fmt.Sprintf(ReportPendingFmt, r.Style.ReportTimeLabel)
}

// DailyReport builds the narrative panel. Before the report hour, or when there is no
// day to report on, it returns nil and the message to display instead.
func (r *Renderer) DailyReport(m model.DerivedMetrics, now time.Time) (*model.DailyReportView, string) {
	if !r.ReportDue(now) {
		return nil, r.PendingMessage()
	}
	if !m.HasDay {
		return nil, NoReportData
	}
	d := m.Day
	volatility := calculator.Volatility(d.Prices)
	return &model.DailyReportView{
		Title: fmt.Sprintf("%s report for %s", r.Style.Symbol, d.Date.Format(time.DateOnly)),
		Prices: []model.Stat{
			{Label: "Open Price", Value: r.money(d.Open)},
			{Label: "Close Price", Value: r.money(d.Close)},
			{Label: "High Price", Value: r.money(d.High)},
			{Label: "Low Price", Value: r.money(d.Low)},
		},
		Details: []model.Stat{
			{Label: "Volatility", Value: FormatNumber(volatility)},
			{Label: "Evolution", Value: FormatPercent(d.ChangePct), Color: r.colorFor(d.ChangePct)},
		},
	}, ""
}
