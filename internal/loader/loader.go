package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"PriceDashboard/internal/model"
)

// Column names expected in the header row.
const (
	PriceColumn = "Price"
	TimeColumn  = "LastUpdated"
)

// ErrMissingColumn is reported when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// timeLayouts are tried in order when coercing the LastUpdated field.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// LoadResult is the outcome of one load. A failed load carries an empty series.
type LoadResult struct {
	Series   model.TimeSeries
	Err      error
	Source   string
	LoadedAt time.Time
	// Coerced counts rows that kept a missing price or timestamp.
	Coerced int
}

// Failed reports whether the source could not be read at all.
func (r LoadResult) Failed() bool { return r.Err != nil }

// Empty reports whether there is nothing to display.
func (r LoadResult) Empty() bool { return len(r.Series) == 0 }

// Loader reads the price table from a Source into a TimeSeries.
type Loader struct {
	Source   Source
	Location *time.Location
}

// NewLoader creates a new Loader. Timestamps without a zone are read in loc (UTC if nil).
func NewLoader(source Source, loc *time.Location) *Loader {
	if loc == nil {
		loc = time.UTC
	}
	return &Loader{Source: source, Location: loc}
}

// Load reads and coerces the whole table. It never returns an error: a failure is
// reported in the result together with an empty series.
func (l *Loader) Load(ctx context.Context) LoadResult {
	res := LoadResult{Source: l.Source.Name(), LoadedAt: time.Now()}

	rc, err := l.Source.Open(ctx)
	if err != nil {
		log.Printf("[ERROR] reading data: %v", err)
		res.Err = err
		return res
	}
	defer rc.Close()

	series, coerced, err := l.parse(rc)
	if err != nil {
		log.Printf("[ERROR] reading data from %s: %v", res.Source, err)
		res.Err = err
		return res
	}
	if coerced > 0 {
		log.Printf("[WARN] %d rows of %s had unparseable fields", coerced, res.Source)
	}
	res.Series = series
	res.Coerced = coerced
	return res
}

func (l *Loader) parse(r io.Reader) (model.TimeSeries, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("empty file: %w", ErrMissingColumn)
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	priceIdx, timeIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case PriceColumn:
			priceIdx = i
		case TimeColumn:
			timeIdx = i
		}
	}
	if priceIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumn, PriceColumn)
	}
	if timeIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumn, TimeColumn)
	}

	var series model.TimeSeries
	coerced := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row %d: %w", len(series)+2, err)
		}
		p := model.PricePoint{
			Price: ParsePrice(field(rec, priceIdx)),
			Time:  ParseTime(field(rec, timeIdx), l.Location),
		}
		if !p.HasPrice() || !p.HasTime() {
			coerced++
		}
		series = append(series, p)
	}
	return series, coerced, nil
}

func field(rec []string, idx int) string {
	if idx < len(rec) {
		return rec[idx]
	}
	return ""
}

// ParsePrice coerces a price field, returning NaN when it is not numeric.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// ParseTime coerces a timestamp field, returning the zero time when no layout matches.
// Zoned timestamps are converted to loc so that calendar dates agree across rows.
func ParseTime(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc)
		}
	}
	return time.Time{}
}
