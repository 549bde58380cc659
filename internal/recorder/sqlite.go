package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the refresh history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so `history` can read while `serve` writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_snapshots (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			source         TEXT,
			row_count      INTEGER,
			coerced        INTEGER,
			load_error     TEXT,
			last_price     REAL,
			last_updated   INTEGER,
			price_change   REAL,
			change_pct     REAL,
			ytd_change_pct REAL,
			high_52w       REAL,
			low_52w        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS daily_reports (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			refresh_id  TEXT,
			report_date TEXT,
			open        REAL,
			close       REAL,
			high        REAL,
			low         REAL,
			volatility  REAL,
			change_pct  REAL,
			delivered   INTEGER,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_report_date ON daily_reports(report_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRefresh stores the snapshot, assigning an ID when it has none.
func (r *SQLiteRecorder) RecordRefresh(snap *RefreshSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	loadedAt := snap.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO refresh_snapshots
		(id, timestamp, source, row_count, coerced, load_error,
		 last_price, last_updated, price_change, change_pct,
		 ytd_change_pct, high_52w, low_52w)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.ID, loadedAt.Unix(), snap.Source, snap.Rows, snap.Coerced, snap.LoadError,
		nullReal(snap.LastPrice), nullUnix(snap.LastUpdated), nullReal(snap.PriceChange), nullReal(snap.ChangePct),
		nullReal(snap.YTDChangePct), nullReal(snap.High52w), nullReal(snap.Low52w),
	)
	return err
}

func (r *SQLiteRecorder) RecordDailyReport(evt *DailyReportEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	if evt.Delivered {
		delivered = 1
	}
	_, err := r.db.Exec(`INSERT INTO daily_reports
		(timestamp, refresh_id, report_date, open, close, high, low,
		 volatility, change_pct, delivered, note)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RefreshID, evt.ReportDate.Format(time.DateOnly),
		nullReal(evt.Open), nullReal(evt.Close), nullReal(evt.High), nullReal(evt.Low),
		nullReal(evt.Volatility), nullReal(evt.ChangePct), delivered, evt.Note,
	)
	return err
}

// RecentRefreshes returns up to limit snapshots, newest first.
func (r *SQLiteRecorder) RecentRefreshes(limit int) ([]RefreshSnapshot, error) {
	rows, err := r.db.Query(`SELECT id, timestamp, source, row_count, coerced, load_error,
		last_price, last_updated, price_change, change_pct, ytd_change_pct, high_52w, low_52w
		FROM refresh_snapshots ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query refreshes: %w", err)
	}
	defer rows.Close()

	var out []RefreshSnapshot
	for rows.Next() {
		var s RefreshSnapshot
		var loadedAt int64
		var lastUpdated sql.NullInt64
		var last, change, pct, ytd, high, low sql.NullFloat64
		if err := rows.Scan(&s.ID, &loadedAt, &s.Source, &s.Rows, &s.Coerced, &s.LoadError,
			&last, &lastUpdated, &change, &pct, &ytd, &high, &low); err != nil {
			return nil, fmt.Errorf("scan refresh: %w", err)
		}
		s.LoadedAt = time.Unix(loadedAt, 0)
		if lastUpdated.Valid {
			s.LastUpdated = time.Unix(lastUpdated.Int64, 0)
		}
		s.LastPrice = fromNull(last)
		s.PriceChange = fromNull(change)
		s.ChangePct = fromNull(pct)
		s.YTDChangePct = fromNull(ytd)
		s.High52w = fromNull(high)
		s.Low52w = fromNull(low)
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountDailyReports returns how many report rows exist for the given date.
func (r *SQLiteRecorder) CountDailyReports(date time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM daily_reports WHERE report_date = ?`,
		date.Format(time.DateOnly)).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// nullReal maps a missing price to NULL.
func nullReal(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func nullUnix(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}
