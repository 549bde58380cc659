package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"PriceDashboard/internal/model"
)

// Markdown renders the price, key statistics and daily report panels of a state.
func (r *Renderer) Markdown(s model.DisplayState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Stock Dashboard\n\n", r.Style.Symbol)

	if !s.Available {
		b.WriteString(model.NoData + "\n")
		return b.String()
	}

	b.WriteString("## Current Price\n\n")
	fmt.Fprintf(&b, "**%s**  \n%s\n\n", s.PriceTitle, s.PriceChangeText)
	if s.LastUpdated != "" {
		fmt.Fprintf(&b, "Last updated: %s", s.LastUpdated)
		if !s.LastUpdatedAt.IsZero() && !s.GeneratedAt.IsZero() {
			fmt.Fprintf(&b, " (%s)", humanize.RelTime(s.LastUpdatedAt, s.GeneratedAt, "ago", "from now"))
		}
		b.WriteString("\n\n")
	}

	b.WriteString("## Key Statistics\n\n")
	if s.KeyStats == nil {
		b.WriteString(orText(s.KeyStatsText, NoStatistics) + "\n\n")
	} else {
		writeStatTable(&b, s.KeyStats.Day)
		writeStatTable(&b, s.KeyStats.Summary)
	}

	b.WriteString("## Daily Report\n\n")
	if s.DailyReport == nil {
		b.WriteString(s.DailyReportText + "\n")
	} else {
		fmt.Fprintf(&b, "### %s\n\n", s.DailyReport.Title)
		writeStatTable(&b, s.DailyReport.Prices)
		writeStatTable(&b, s.DailyReport.Details)
	}
	return b.String()
}

// writeStatTable writes the stats as a one-row markdown table.
func writeStatTable(b *strings.Builder, stats []model.Stat) {
	if len(stats) == 0 {
		return
	}
	labels := make([]string, len(stats))
	seps := make([]string, len(stats))
	values := make([]string, len(stats))
	for i, st := range stats {
		labels[i] = st.Label
		seps[i] = "---"
		values[i] = st.Value
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(labels, " | "))
	fmt.Fprintf(b, "| %s |\n", strings.Join(seps, " | "))
	fmt.Fprintf(b, "| %s |\n\n", strings.Join(values, " | "))
}

func orText(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts a markdown report into an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
