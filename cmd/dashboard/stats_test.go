package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PriceDashboard/internal/dashboard"
	"PriceDashboard/internal/model"
	"PriceDashboard/internal/recorder"
	"PriceDashboard/internal/report"
)

func TestStatsControls(t *testing.T) {
	c := &statsCmd{period: "1w", chart: "candlestick", ma: "sma5, ,sma20", table: true}
	got := c.controls()
	require.Equal(t, model.PeriodWeek, got.Period)
	require.Equal(t, model.ChartCandlestick, got.Chart)
	require.Equal(t, []string{"sma5", "sma20"}, got.Indicators)
	require.Equal(t, 1, got.TableClicks)
}

func TestWindowMarkdown(t *testing.T) {
	eng := dashboard.NewEngine(report.NewRenderer(report.DefaultStyle()), time.UTC)
	series := model.TimeSeries{
		{Time: time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC), Price: 110},
		{Time: time.Date(2024, 1, 3, 17, 0, 0, 0, time.UTC), Price: math.NaN()},
	}
	controls := model.Controls{Period: model.PeriodAll, Indicators: []string{"sma5"}, TableClicks: 1}
	md := windowMarkdown(eng.ComputeState(series, controls, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)))

	require.Contains(t, md, "## Window ALL")
	require.Contains(t, md, "2 rows, chart line")
	require.Contains(t, md, "- 5-Day MA: not enough data")
	require.Contains(t, md, "| 2024-01-02 17:00:00 | 110.00 |")
	require.Contains(t, md, "| 2024-01-03 17:00:00 | NaN |")

	require.Empty(t, windowMarkdown(model.DisplayState{}))
}

func TestHistoryMarkdown(t *testing.T) {
	require.Contains(t, historyMarkdown(nil, "USD"), "No refreshes recorded.")

	md := historyMarkdown([]recorder.RefreshSnapshot{
		{ID: "0123456789abcdef", LoadedAt: time.Now().Add(-2 * time.Hour), Rows: 1500, LastPrice: 105, ChangePct: -4.545},
		{ID: "short", LoadedAt: time.Now(), LoadError: "open a|b: missing", LastPrice: math.NaN()},
	}, "USD")
	lines := strings.Split(md, "\n")
	require.Equal(t, "| 01234567 | 2 hours ago | 1,500 | $105.00 | -4.55% | ok |", lines[4])
	require.Contains(t, lines[5], "| short |")
	require.Contains(t, lines[5], "open a/b: missing")
}
