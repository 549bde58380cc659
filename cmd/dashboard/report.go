package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"PriceDashboard/internal/model"
	"PriceDashboard/internal/report"
)

type reportCmd struct {
	html bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the daily report" }
func (*reportCmd) Usage() string {
	return `dashboard report [-html]

  Prints the dashboard report. The daily section is only filled after the
  configured report hour (UTC).
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.html, "html", false, "print HTML instead of rendering for the terminal")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	res := a.loader.Load(ctx)
	state := a.engine.ComputeState(res.Series, model.DefaultControls(), time.Now().In(a.loc))
	md := a.engine.Renderer.Markdown(state)

	if c.html {
		out, err := report.HTML(md)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Print(out)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
