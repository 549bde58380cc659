package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"PriceDashboard/internal/config"
	"PriceDashboard/internal/dashboard"
	"PriceDashboard/internal/loader"
	"PriceDashboard/internal/report"
)

var configPath = flag.String("config", defaultConfigPath(), "Path to the YAML config file")

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// app bundles what every subcommand needs.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	loader *loader.Loader
	engine *dashboard.Engine
}

func newApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		loc:    loc,
		loader: loader.NewLoader(loader.NewFileSource(cfg.Data.CSVPath), loc),
		engine: dashboard.NewEngine(report.NewRenderer(cfg.Style), loc),
	}, nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
