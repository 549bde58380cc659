package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PriceDashboard/internal/dashboard"
	"PriceDashboard/internal/loader"
	"PriceDashboard/internal/model"
	"PriceDashboard/internal/notifier"
	"PriceDashboard/internal/recorder"
	"PriceDashboard/internal/report"
)

const sampleCSV = `LastUpdated,Price
2024-01-01 17:00:00,100
2024-01-02 17:00:00,110
2024-01-03 09:00:00,100
2024-01-03 17:00:00,105
`

type fakeNotifier struct {
	notifier.NoopNotifier
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return f.err
}

type fakeRecorder struct {
	recorder.NoopRecorder
	refreshes []*recorder.RefreshSnapshot
	reports   []*recorder.DailyReportEvent
}

func (f *fakeRecorder) RecordRefresh(s *recorder.RefreshSnapshot) error {
	f.refreshes = append(f.refreshes, s)
	return nil
}

func (f *fakeRecorder) RecordDailyReport(e *recorder.DailyReportEvent) error {
	f.reports = append(f.reports, e)
	return nil
}

type fakeBroadcaster struct {
	calls int
	rows  int
}

func (f *fakeBroadcaster) Broadcast(series model.TimeSeries, _ time.Time) {
	f.calls++
	f.rows = len(series)
}

func newTestScheduler(src loader.Source, now time.Time) (*Scheduler, *fakeNotifier, *fakeRecorder) {
	n := &fakeNotifier{}
	rec := &fakeRecorder{}
	eng := dashboard.NewEngine(report.NewRenderer(report.DefaultStyle()), time.UTC)
	s := NewScheduler(context.Background(), loader.NewLoader(src, time.UTC), eng, n, rec)
	s.Now = func() time.Time { return now }
	return s, n, rec
}

func TestRefresh(t *testing.T) {
	s, _, rec := newTestScheduler(&loader.StaticSource{Content: sampleCSV}, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))
	b := &fakeBroadcaster{}
	s.Broadcaster = b

	_, ok := s.Latest()
	require.False(t, ok)

	state := s.Refresh()
	require.Equal(t, "$105.00", state.PriceTitle)

	latest, ok := s.Latest()
	require.True(t, ok)
	require.Equal(t, state.PriceTitle, latest.PriceTitle)

	require.Len(t, rec.refreshes, 1)
	snap := rec.refreshes[0]
	require.NotEmpty(t, snap.ID)
	require.Equal(t, "static", snap.Source)
	require.Equal(t, 4, snap.Rows)
	require.Equal(t, 105.0, snap.LastPrice)
	require.Empty(t, snap.LoadError)

	require.Equal(t, 1, b.calls)
	require.Equal(t, 4, b.rows)
}

func TestRefresh_LoadFailure(t *testing.T) {
	s, _, rec := newTestScheduler(&loader.StaticSource{Err: errors.New("disk gone")}, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))

	state := s.Refresh()
	require.False(t, state.Available)
	require.Equal(t, model.NoData, state.PriceTitle)
	require.Len(t, rec.refreshes, 1)
	require.Equal(t, "disk gone", rec.refreshes[0].LoadError)
	require.Zero(t, rec.refreshes[0].LastPrice)
}

func TestSendDailyReport(t *testing.T) {
	s, n, rec := newTestScheduler(&loader.StaticSource{Content: sampleCSV}, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	s.Refresh()

	require.True(t, s.SendDailyReport())
	require.Len(t, n.sent, 1)
	require.Contains(t, n.sent[0], "TTE report for 2024-01-03")

	require.Len(t, rec.reports, 1)
	evt := rec.reports[0]
	require.True(t, evt.Delivered)
	require.Equal(t, rec.refreshes[0].ID, evt.RefreshID)
	require.Equal(t, 100.0, evt.Open)
	require.Equal(t, 105.0, evt.Close)
	require.InDelta(t, 5.0, evt.ChangePct, 1e-9)

	// Second run on the same date is a no-op.
	require.False(t, s.SendDailyReport())
	require.Len(t, n.sent, 1)
}

func TestSendDailyReport_BeforeReportHour(t *testing.T) {
	s, n, rec := newTestScheduler(&loader.StaticSource{Content: sampleCSV}, time.Date(2024, 1, 3, 17, 59, 0, 0, time.UTC))
	require.False(t, s.SendDailyReport())
	require.Empty(t, n.sent)
	require.Empty(t, rec.reports)
}

func TestSendDailyReport_DeliveryFailure(t *testing.T) {
	s, n, rec := newTestScheduler(&loader.StaticSource{Content: sampleCSV}, time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC))
	n.err = errors.New("telegram down")

	require.False(t, s.SendDailyReport())
	require.Len(t, rec.reports, 1)
	require.False(t, rec.reports[0].Delivered)
	require.Equal(t, "telegram down", rec.reports[0].Note)
}

func TestHandleCommand(t *testing.T) {
	s, _, rec := newTestScheduler(&loader.StaticSource{Content: sampleCSV}, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))

	price := s.HandleCommand("/price")
	require.Contains(t, price, "$105.00")

	stats := s.HandleCommand("/STATS@PriceBot")
	require.Contains(t, stats, "Open: <b>$100.00</b>")

	rep := s.HandleCommand("/report")
	require.Equal(t, "📊 Daily report will be updated at 8pm.", rep)

	help := s.HandleCommand("hello")
	require.True(t, strings.HasPrefix(help, "Commands:"))

	require.Len(t, rec.refreshes, 3)
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(&loader.StaticSource{Content: sampleCSV}, time.Now())
	require.NoError(t, s.RegisterAll("@every 300s", "0 0 18 * * *"))
	require.Len(t, s.Cron.Entries(), 2)

	require.Error(t, s.RegisterAll("not a schedule", "0 0 18 * * *"))
}
