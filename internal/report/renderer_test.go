package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PriceDashboard/internal/model"
)

func sampleMetrics() model.DerivedMetrics {
	return model.DerivedMetrics{
		LastPrice:      105,
		PriceChange:    -5,
		PriceChangePct: -5.0 / 110 * 100,
		HasDay:         true,
		Day: model.DayStats{
			Date:      time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			Open:      100,
			High:      106,
			Low:       97,
			Close:     102,
			Change:    2,
			ChangePct: 2,
			Prices:    []float64{100, 106, 97, 102},
		},
		YTDChangePct: -1.5,
		High52w:      120,
		Low52w:       80.5,
	}
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "$61.23", FormatMoney(61.234, "USD"))
	require.Equal(t, "$61.24", FormatMoney(61.235, "USD"))
	require.Equal(t, "$0.00", FormatMoney(0, "USD"))
	require.Equal(t, "$1,234.50", FormatMoney(1234.5, "USD"))
	require.Equal(t, "-$5.00", FormatMoney(-5, "USD"))
	require.Equal(t, "$NaN", FormatMoney(math.NaN(), "USD"))
}

func TestFormatPercent(t *testing.T) {
	require.Equal(t, "-4.55%", FormatPercent(-5.0/110*100))
	require.Equal(t, "0.00%", FormatPercent(0))
	require.Equal(t, "NaN%", FormatPercent(math.NaN()))
}

func TestPriceChange(t *testing.T) {
	r := NewRenderer(DefaultStyle())

	text, style := r.PriceChange(-5, -5.0/110*100)
	require.Equal(t, "▼ $5.00 (4.55%) since last update", text)
	require.Equal(t, model.DirectionDown, style.Direction)
	require.Equal(t, "#dc3545", style.Color)

	text, style = r.PriceChange(0.5, 0.82)
	require.Equal(t, "▲ $0.50 (0.82%) since last update", text)
	require.Equal(t, model.DirectionUp, style.Direction)

	text, style = r.PriceChange(0, 0)
	require.Equal(t, "◆ $0.00 (0.00%) since last update", text)
	require.Equal(t, model.DirectionFlat, style.Direction)
	require.Equal(t, "#6c757d", style.Color)
}

func TestKeyStats(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	ks := r.KeyStats(sampleMetrics())
	require.NotNil(t, ks)
	require.Equal(t, []model.Stat{
		{Label: "Open", Value: "$100.00"},
		{Label: "High", Value: "$106.00"},
		{Label: "Low", Value: "$97.00"},
		{Label: "Close", Value: "$102.00"},
	}, ks.Day)
	require.Equal(t, "$2.00 (2.00%)", ks.Summary[0].Value)
	require.Equal(t, "#28a745", ks.Summary[0].Color)
	require.Equal(t, "-1.50%", ks.Summary[1].Value)
	require.Equal(t, "#dc3545", ks.Summary[1].Color)
	require.Equal(t, "$80.50 - $120.00", ks.Summary[2].Value)

	require.Nil(t, r.KeyStats(model.DerivedMetrics{}))
}

func TestDailyReport_BeforeReportHour(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	view, msg := r.DailyReport(sampleMetrics(), time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))
	require.Nil(t, view)
	require.Equal(t, "Daily report will be updated at 8pm.", msg)

	// The gate does not depend on data being present.
	view, msg = r.DailyReport(model.DerivedMetrics{}, time.Date(2024, 1, 3, 17, 59, 0, 0, time.UTC))
	require.Nil(t, view)
	require.Equal(t, "Daily report will be updated at 8pm.", msg)
}

func TestDailyReport_UsesUTCHour(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	tokyo := time.FixedZone("JST", 9*3600)
	// 03:00 in Tokyo is 18:00 UTC the previous day.
	view, _ := r.DailyReport(sampleMetrics(), time.Date(2024, 1, 4, 3, 0, 0, 0, tokyo))
	require.NotNil(t, view)
}

func TestDailyReport_AfterReportHour(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	view, msg := r.DailyReport(sampleMetrics(), time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	require.Empty(t, msg)
	require.NotNil(t, view)
	require.Equal(t, "TTE report for 2024-01-03", view.Title)
	require.Equal(t, "$100.00", view.Prices[0].Value)
	require.Equal(t, "$102.00", view.Prices[1].Value)
	require.Equal(t, "Volatility", view.Details[0].Label)
	require.Equal(t, "3.77", view.Details[0].Value)
	require.Equal(t, "2.00%", view.Details[1].Value)
	require.Equal(t, "#28a745", view.Details[1].Color)

	view, msg = r.DailyReport(model.DerivedMetrics{}, time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC))
	require.Nil(t, view)
	require.Equal(t, NoReportData, msg)
}

func TestStyleDefaults(t *testing.T) {
	s := Style{Symbol: "AIR", ReportHourUTC: 30}.WithDefaults()
	require.Equal(t, "AIR", s.Symbol)
	require.Equal(t, 18, s.ReportHourUTC)
	require.Equal(t, "USD", s.Currency)
	require.Equal(t, "#007BFF", s.Colors.Primary)
}

func TestMarkdownAndHTML(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	m := sampleMetrics()
	view, _ := r.DailyReport(m, time.Date(2024, 1, 3, 19, 0, 0, 0, time.UTC))
	state := model.DisplayState{
		Available:       true,
		PriceTitle:      "$105.00",
		PriceChangeText: "▼ $5.00 (4.55%) since last update",
		LastUpdated:     "2024-01-03 17:00:00",
		LastUpdatedAt:   time.Date(2024, 1, 3, 17, 0, 0, 0, time.UTC),
		GeneratedAt:     time.Date(2024, 1, 3, 19, 0, 0, 0, time.UTC),
		KeyStats:        r.KeyStats(m),
		DailyReport:     view,
	}
	out := r.Markdown(state)
	require.Contains(t, out, "# TTE Stock Dashboard")
	require.Contains(t, out, "**$105.00**")
	require.Contains(t, out, "(2 hours ago)")
	require.Contains(t, out, "| Open | High | Low | Close |")
	require.Contains(t, out, "### TTE report for 2024-01-03")

	html, err := HTML(out)
	require.NoError(t, err)
	require.Contains(t, html, "<table>")
	require.Contains(t, html, "<h1>TTE Stock Dashboard</h1>")

	empty := r.Markdown(model.DisplayState{})
	require.True(t, strings.HasSuffix(empty, model.NoData+"\n"))
}
