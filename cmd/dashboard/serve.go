package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"PriceDashboard/internal/notifier"
	"PriceDashboard/internal/recorder"
	"PriceDashboard/internal/scheduler"
	"PriceDashboard/internal/server"
)

type serveCmd struct {
	noTelegram bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the dashboard server, refresh loop and Telegram bot" }
func (*serveCmd) Usage() string {
	return `dashboard [-config <file>] serve [-no-telegram]

  Serves the HTTP API and websocket feed, refreshes the price table on
  schedule and pushes the daily report to Telegram when configured.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.noTelegram, "no-telegram", false, "disable Telegram even when credentials are set")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] PriceDashboard starting...")
	a, err := newApp()
	if err != nil {
		log.Printf("[FATAL] %v", err)
		return subcommands.ExitFailure
	}
	cfg := a.cfg
	log.Printf("[INFO] data source: %s (%s)", a.loader.Source.Name(), cfg.Data.Timezone)

	// Init notifier
	var tn notifier.Notifier = notifier.NewNoopNotifier()
	if cfg.TelegramEnabled() && !c.noTelegram {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] Telegram notifier enabled")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(a.engine, a.loader)

	sched := scheduler.NewScheduler(ctx, a.loader, a.engine, tn, rec)
	sched.Broadcaster = hub
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.ReportCron); err != nil {
		log.Printf("[FATAL] register cron tasks: %v", err)
		return subcommands.ExitFailure
	}
	sched.Refresh()
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)

	srv := server.NewServer(server.Params{Port: cfg.Server.Port}, a.loader, a.engine, hub)
	log.Println("[INFO] PriceDashboard is running. Press Ctrl+C to stop.")
	if err := srv.Run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
		return subcommands.ExitFailure
	}

	log.Println("[INFO] shutdown signal received, stopping...")
	return subcommands.ExitSuccess
}
