package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"PriceDashboard/internal/calculator"
	"PriceDashboard/internal/dashboard"
	"PriceDashboard/internal/loader"
	"PriceDashboard/internal/model"
	"PriceDashboard/internal/notifier"
	"PriceDashboard/internal/recorder"
)

// Broadcaster receives every freshly loaded series.
type Broadcaster interface {
	Broadcast(series model.TimeSeries, now time.Time)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron        *cron.Cron
	Loader      *loader.Loader
	Engine      *dashboard.Engine
	Notifier    notifier.Notifier
	Recorder    recorder.Recorder
	Broadcaster Broadcaster
	Symbol      string
	Now         func() time.Time
	Ctx         context.Context

	mu         sync.RWMutex
	latest     model.DisplayState
	refreshID  string
	lastReport string
}

// NewScheduler creates a new Scheduler. Cron expressions are evaluated in UTC.
func NewScheduler(ctx context.Context, ld *loader.Loader, eng *dashboard.Engine, n notifier.Notifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		Loader:   ld,
		Engine:   eng,
		Notifier: n,
		Recorder: rec,
		Symbol:   eng.Renderer.Style.Symbol,
		Now:      time.Now,
		Ctx:      ctx,
	}
}

// RegisterAll registers the refresh and daily report tasks.
func (s *Scheduler) RegisterAll(refreshCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.Refresh() }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, func() { s.SendDailyReport() }); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Latest returns the most recent default-controls state and whether a refresh has run.
func (s *Scheduler) Latest() (model.DisplayState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.refreshID != ""
}

// Refresh reloads the price table, recomputes the default view, records a
// snapshot and pushes the series to the broadcaster.
func (s *Scheduler) Refresh() model.DisplayState {
	now := s.Now()
	res := s.Loader.Load(s.Ctx)
	state := s.Engine.ComputeState(res.Series, model.DefaultControls(), now)
	id := uuid.NewString()

	s.mu.Lock()
	s.latest = state
	s.refreshID = id
	s.mu.Unlock()

	snap := &recorder.RefreshSnapshot{
		ID:       id,
		Source:   res.Source,
		LoadedAt: res.LoadedAt,
		Rows:     len(res.Series),
		Coerced:  res.Coerced,
	}
	if res.Failed() {
		snap.LoadError = res.Err.Error()
	}
	if !res.Empty() {
		m := s.Engine.Metrics(res.Series, now)
		snap.LastPrice = m.LastPrice
		snap.LastUpdated = m.LastUpdated
		snap.PriceChange = m.PriceChange
		snap.ChangePct = m.PriceChangePct
		snap.YTDChangePct = m.YTDChangePct
		snap.High52w = m.High52w
		snap.Low52w = m.Low52w
	}
	if err := s.Recorder.RecordRefresh(snap); err != nil {
		log.Printf("[ERROR] record refresh: %v", err)
	}

	if s.Broadcaster != nil {
		s.Broadcaster.Broadcast(res.Series, now)
	}
	log.Printf("[INFO] refresh %s: %d rows from %s", id, len(res.Series), res.Source)
	return state
}

// SendDailyReport refreshes and pushes the daily report once per report date.
// It returns false when nothing was sent.
func (s *Scheduler) SendDailyReport() bool {
	log.Println("[INFO] running daily report task")
	now := s.Now()
	res := s.Loader.Load(s.Ctx)
	state := s.Engine.ComputeState(res.Series, model.DefaultControls(), now)
	if state.DailyReport == nil {
		log.Printf("[WARN] daily report skipped: %s", state.DailyReportText)
		return false
	}

	m := s.Engine.Metrics(res.Series, now)
	date := m.Day.Date.Format(time.DateOnly)
	s.mu.Lock()
	if s.lastReport == date {
		s.mu.Unlock()
		log.Printf("[INFO] daily report for %s already sent", date)
		return false
	}
	s.lastReport = date
	refreshID := s.refreshID
	s.mu.Unlock()

	evt := &recorder.DailyReportEvent{
		RefreshID:  refreshID,
		ReportDate: m.Day.Date,
		Open:       m.Day.Open,
		Close:      m.Day.Close,
		High:       m.Day.High,
		Low:        m.Day.Low,
		Volatility: calculator.Volatility(m.Day.Prices),
		ChangePct:  m.Day.ChangePct,
		Delivered:  true,
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, notifier.FormatDailyReport(state), 3); err != nil {
		log.Printf("[ERROR] send daily report: %v", err)
		evt.Delivered = false
		evt.Note = err.Error()
	}
	if err := s.Recorder.RecordDailyReport(evt); err != nil {
		log.Printf("[ERROR] record daily report: %v", err)
	}
	return evt.Delivered
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	switch cmd {
	case "/price":
		return notifier.FormatPrice(s.Symbol, s.Refresh())
	case "/stats":
		return notifier.FormatKeyStats(s.Symbol, s.Refresh())
	case "/report":
		return notifier.FormatDailyReport(s.Refresh())
	default:
		return notifier.FormatHelp()
	}
}
