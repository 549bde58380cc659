// Package dashboard computes the full display state of one dashboard view from a
// freshly loaded series. Every call starts from scratch; nothing is carried over.
package dashboard

import (
	"time"

	"PriceDashboard/internal/calculator"
	"PriceDashboard/internal/model"
	"PriceDashboard/internal/report"
	"PriceDashboard/internal/window"
)

// TableTimeLayout formats timestamps in the price table.
const TableTimeLayout = time.DateTime

// Engine binds the renderer and the location used to decide calendar dates.
type Engine struct {
	Renderer *report.Renderer
	Location *time.Location
}

// NewEngine creates an Engine. A nil location means UTC.
func NewEngine(r *report.Renderer, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{Renderer: r, Location: loc}
}

// TableToggle maps the number of clicks on the table button to its visibility and label.
// The table starts hidden; every click flips it.
func TableToggle(clicks int) (visible bool, label string) {
	if clicks <= 0 || clicks%2 == 0 {
		return false, "Show Prices"
	}
	return true, "Hide Prices"
}

// ComputeState derives everything the presentation layer shows for the given controls.
// An empty series yields a state where every panel reads "No data available".
func (e *Engine) ComputeState(series model.TimeSeries, controls model.Controls, now time.Time) model.DisplayState {
	controls = controls.Normalize()
	state := model.DisplayState{
		Controls:    controls,
		GeneratedAt: now,
		Table:       model.TableRows{},
	}
	state.TableVisible, state.ToggleLabel = TableToggle(controls.TableClicks)

	if len(series) == 0 {
		state.PriceTitle = model.NoData
		state.KeyStatsText = model.NoData
		state.DailyReportText = model.NoData
		state.Chart = model.ChartData{Type: controls.Chart}
		return state
	}
	state.Available = true
	r := e.Renderer

	w := window.Filter(series, controls.Period)
	state.Table = tableRows(w.Points)
	state.Chart = e.chart(w, controls.Chart)

	m := calculator.Derive(series, now, e.Location)
	state.MovingAverages = movingAverages(&m, series, w, controls.Indicators)
	state.PriceTitle = r.PriceTitle(m.LastPrice)
	if !m.LastUpdated.IsZero() {
		state.LastUpdated = m.LastUpdated.Format(TableTimeLayout)
		state.LastUpdatedAt = m.LastUpdated
	}
	state.PriceChangeText, state.ChangeStyle = r.PriceChange(m.PriceChange, m.PriceChangePct)

	state.KeyStats = r.KeyStats(m)
	if state.KeyStats == nil {
		state.KeyStatsText = report.NoStatistics
	}
	state.DailyReport, state.DailyReportText = r.DailyReport(m, now)
	return state
}

// Metrics exposes the statistics for callers that only need numbers, with every
// offered moving average over the whole series.
func (e *Engine) Metrics(series model.TimeSeries, now time.Time) model.DerivedMetrics {
	m := calculator.Derive(series, now, e.Location)
	ids := make([]string, len(model.Indicators))
	for i, ind := range model.Indicators {
		ids[i] = ind.ID
	}
	movingAverages(&m, series, window.Filter(series, model.PeriodAll), ids)
	return m
}

func tableRows(points model.TimeSeries) model.TableRows {
	rows := make(model.TableRows, 0, len(points))
	for _, p := range points {
		row := model.TableRow{LastUpdated: p.Time.Format(TableTimeLayout)}
		if p.HasPrice() {
			price := p.Price
			row.Price = &price
		}
		rows = append(rows, row)
	}
	return rows
}

func (e *Engine) chart(w model.Window, chartType model.ChartType) model.ChartData {
	r := e.Renderer
	c := model.ChartData{Type: chartType, Title: r.ChartTitle()}
	if chartType == model.ChartCandlestick {
		c.Name = "OHLC"
		c.Candles = calculator.OHLCByDate(w.Points)
		return c
	}
	c.Name = r.SeriesName()
	c.Color = r.Style.Colors.Primary
	c.Line = make([]model.ChartPoint, 0, len(w.Points))
	for _, p := range w.Points {
		pt := model.ChartPoint{Time: p.Time}
		if p.HasPrice() {
			v := p.Price
			pt.Value = &v
		}
		c.Line = append(c.Line, pt)
	}
	return c
}

// movingAverages computes the selected overlays over the full series, clips them
// to the window and stores them in m keyed by window length.
// Unknown or duplicate indicator IDs are ignored.
func movingAverages(m *model.DerivedMetrics, series model.TimeSeries, w model.Window, ids []string) []model.MASeries {
	if w.Empty() || len(ids) == 0 {
		return nil
	}
	m.MovingAverages = make(map[int][]model.MAPoint)
	var out []model.MASeries
	for _, id := range ids {
		ind, ok := model.LookupIndicator(id)
		if !ok {
			continue
		}
		if _, done := m.MovingAverages[ind.Window]; done {
			continue
		}
		points := calculator.MovingAverage(series, ind.Window, w.Start, w.End)
		m.MovingAverages[ind.Window] = points
		out = append(out, model.MASeries{
			ID:     ind.ID,
			Window: ind.Window,
			Name:   ind.Name,
			Color:  ind.Color,
			Points: points,
		})
	}
	return out
}
