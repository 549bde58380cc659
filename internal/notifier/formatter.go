package notifier

import (
	"fmt"
	"html"
	"strings"

	"PriceDashboard/internal/model"
)

// FormatPrice formats the current price and change banner into a Telegram message.
func FormatPrice(symbol string, s model.DisplayState) string {
	if !s.Available {
		return fmt.Sprintf("💹 <b>%s</b>\n\n%s", html.EscapeString(symbol), model.NoData)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💹 <b>%s %s</b>\n", html.EscapeString(symbol), html.EscapeString(s.PriceTitle))
	fmt.Fprintf(&b, "%s\n", html.EscapeString(s.PriceChangeText))
	if s.LastUpdated != "" {
		fmt.Fprintf(&b, "Last updated: %s\n", s.LastUpdated)
	}
	return b.String()
}

// FormatKeyStats formats the key statistics panel.
func FormatKeyStats(symbol string, s model.DisplayState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>%s key statistics</b>\n\n", html.EscapeString(symbol))
	if s.KeyStats == nil {
		b.WriteString(html.EscapeString(orText(s.KeyStatsText, model.NoData)))
		return b.String()
	}
	writeStats(&b, s.KeyStats.Day)
	b.WriteString("\n")
	writeStats(&b, s.KeyStats.Summary)
	return b.String()
}

// FormatDailyReport formats the daily report panel, or its placeholder text.
func FormatDailyReport(s model.DisplayState) string {
	var b strings.Builder
	if s.DailyReport == nil {
		b.WriteString("📊 ")
		b.WriteString(html.EscapeString(orText(s.DailyReportText, model.NoData)))
		return b.String()
	}
	fmt.Fprintf(&b, "📊 <b>%s</b>\n\n", html.EscapeString(s.DailyReport.Title))
	writeStats(&b, s.DailyReport.Prices)
	b.WriteString("\n")
	writeStats(&b, s.DailyReport.Details)
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Commands:\n/price - current price\n/stats - key statistics\n/report - daily report"
}

func writeStats(b *strings.Builder, stats []model.Stat) {
	for _, st := range stats {
		fmt.Fprintf(b, "%s: <b>%s</b>\n", html.EscapeString(st.Label), html.EscapeString(st.Value))
	}
}

func orText(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
