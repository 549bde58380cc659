package recorder

import "time"

// RefreshSnapshot summarizes one refresh of the price table.
type RefreshSnapshot struct {
	ID           string
	Source       string
	LoadedAt     time.Time
	Rows         int
	Coerced      int
	LoadError    string
	LastPrice    float64
	LastUpdated  time.Time
	PriceChange  float64
	ChangePct    float64
	YTDChangePct float64
	High52w      float64
	Low52w       float64
}

// DailyReportEvent records one daily report push.
type DailyReportEvent struct {
	RefreshID  string
	ReportDate time.Time
	Open       float64
	Close      float64
	High       float64
	Low        float64
	Volatility float64
	ChangePct  float64
	Delivered  bool
	Note       string
}

// Recorder persists the refresh history for later analysis.
type Recorder interface {
	RecordRefresh(snap *RefreshSnapshot) error
	RecordDailyReport(evt *DailyReportEvent) error
	Close() error
}
