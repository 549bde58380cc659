package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"

	"PriceDashboard/internal/recorder"
	"PriceDashboard/internal/report"
)

type historyCmd struct {
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recent refreshes from the audit log" }
func (*historyCmd) Usage() string {
	return `dashboard history [-n 20]

  Lists the most recent refresh snapshots recorded by "serve".
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "number of refreshes to list")
}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rec, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rec.Close()

	snaps, err := rec.RecentRefreshes(c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(historyMarkdown(snaps, a.cfg.Style.Currency))
	return subcommands.ExitSuccess
}

func historyMarkdown(snaps []recorder.RefreshSnapshot, currency string) string {
	var b strings.Builder
	b.WriteString("# Refresh history\n\n")
	if len(snaps) == 0 {
		b.WriteString("No refreshes recorded.\n")
		return b.String()
	}
	b.WriteString("| ID | Loaded | Rows | Last price | Change | Status |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, s := range snaps {
		status := "ok"
		if s.LoadError != "" {
			status = s.LoadError
		} else if s.Coerced > 0 {
			status = fmt.Sprintf("%s rows coerced", humanize.Comma(int64(s.Coerced)))
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			shortID(s.ID),
			humanize.Time(s.LoadedAt),
			humanize.Comma(int64(s.Rows)),
			report.FormatMoney(s.LastPrice, currency),
			report.FormatPercent(s.ChangePct),
			strings.ReplaceAll(status, "|", "/"),
		)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
