package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"PriceDashboard/internal/model"
	"PriceDashboard/internal/report"
)

type statsCmd struct {
	period string
	chart  string
	ma     string
	table  bool
	asJSON bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "print the current price and key statistics" }
func (*statsCmd) Usage() string {
	return `dashboard stats [-period 1D|1W|1M|ALL] [-chart line|candlestick] [-ma sma5,sma10] [-table] [-json]

  Loads the price table once and prints the dashboard panels.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "ALL", "time window of the table and chart")
	f.StringVar(&c.chart, "chart", "line", "chart type")
	f.StringVar(&c.ma, "ma", "", "comma separated moving averages")
	f.BoolVar(&c.table, "table", false, "include the price table")
	f.BoolVar(&c.asJSON, "json", false, "print the full display state as JSON")
}

func (c *statsCmd) controls() model.Controls {
	ctrl := model.Controls{
		Chart:  model.ParseChartType(c.chart),
		Period: model.ParsePeriod(c.period),
	}
	for _, id := range strings.Split(c.ma, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ctrl.Indicators = append(ctrl.Indicators, id)
		}
	}
	if c.table {
		ctrl.TableClicks = 1
	}
	return ctrl.Normalize()
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	res := a.loader.Load(ctx)
	state := a.engine.ComputeState(res.Series, c.controls(), time.Now().In(a.loc))

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			log.Printf("[ERROR] encode state: %v", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	md := a.engine.Renderer.Markdown(state)
	md += windowMarkdown(state)
	printMarkdown(md)
	if res.Failed() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// windowMarkdown summarizes the selected window and, when visible, its price table.
func windowMarkdown(s model.DisplayState) string {
	if !s.Available {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n## Window %s\n\n", s.Controls.Period)
	fmt.Fprintf(&b, "%d rows, chart %s", len(s.Table), s.Chart.Type)
	if s.Chart.Type == model.ChartCandlestick {
		fmt.Fprintf(&b, " (%d daily bars)", len(s.Chart.Candles))
	}
	b.WriteString("\n\n")
	for _, ma := range s.MovingAverages {
		if n := len(ma.Points); n > 0 {
			fmt.Fprintf(&b, "- %s: %s\n", ma.Name, report.FormatNumber(ma.Points[n-1].Value))
		} else {
			fmt.Fprintf(&b, "- %s: not enough data\n", ma.Name)
		}
	}
	if !s.TableVisible {
		return b.String()
	}
	b.WriteString("\n| LastUpdated | Price |\n| --- | --- |\n")
	for _, row := range s.Table {
		price := "NaN"
		if row.Price != nil {
			price = report.FormatNumber(*row.Price)
		}
		fmt.Fprintf(&b, "| %s | %s |\n", row.LastUpdated, price)
	}
	return b.String()
}
