package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"PriceDashboard/internal/dashboard"
	"PriceDashboard/internal/loader"
	"PriceDashboard/internal/model"
	"PriceDashboard/internal/report"
)

const sampleCSV = `LastUpdated,Price
2024-01-01 17:00:00,100
2024-01-02 17:00:00,110
2024-01-03 17:00:00,105
`

var fixedNow = time.Date(2024, 1, 3, 19, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, src loader.Source) (*httptest.Server, *Hub) {
	eng := dashboard.NewEngine(report.NewRenderer(report.DefaultStyle()), time.UTC)
	ld := loader.NewLoader(src, time.UTC)
	hub := NewHub(eng, ld)
	hub.Now = func() time.Time { return fixedNow }
	s := NewServer(Params{Port: 0}, ld, eng, hub)
	s.now = func() time.Time { return fixedNow }

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, hub
}

func get(t *testing.T, url string) (int, string) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestStateHandler(t *testing.T) {
	ts, _ := newTestServer(t, &loader.StaticSource{Content: sampleCSV})

	code, body := get(t, ts.URL+"/api/state?chart=candlestick&period=1W&ma=sma5,%20sma10&clicks=3")
	require.Equal(t, http.StatusOK, code)

	var state struct {
		Available   bool   `json:"available"`
		PriceTitle  string `json:"price_title"`
		PriceChange string `json:"price_change"`
		ToggleLabel string `json:"toggle_label"`
		Chart       struct {
			Type    string          `json:"type"`
			Candles json.RawMessage `json:"candles"`
		} `json:"chart"`
		MovingAverages []struct {
			Name string `json:"name"`
		} `json:"moving_averages"`
		Table []struct {
			LastUpdated string
			Price       *float64
		} `json:"table"`
		DailyReport *struct {
			Title string `json:"title"`
		} `json:"daily_report"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	require.True(t, state.Available)
	require.Equal(t, "$105.00", state.PriceTitle)
	require.Equal(t, "▼ $5.00 (4.55%) since last update", state.PriceChange)
	require.Equal(t, "Hide Prices", state.ToggleLabel)
	require.Equal(t, "candlestick", state.Chart.Type)
	require.Len(t, state.MovingAverages, 2)
	require.Len(t, state.Table, 3)
	require.NotNil(t, state.DailyReport)
	require.Equal(t, "TTE report for 2024-01-03", state.DailyReport.Title)
}

func TestStateHandler_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t, &loader.StaticSource{Content: sampleCSV})

	code, _ := get(t, ts.URL+"/api/state?clicks=many")
	require.Equal(t, http.StatusBadRequest, code)

	resp, err := http.Post(ts.URL+"/api/state", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStateHandler_NoData(t *testing.T) {
	ts, _ := newTestServer(t, &loader.StaticSource{Err: errors.New("gone")})

	code, body := get(t, ts.URL+"/api/state")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"price_title":"No data available"`)
	require.Contains(t, body, `"table":[]`)
}

func TestTableHandler(t *testing.T) {
	ts, _ := newTestServer(t, &loader.StaticSource{Content: sampleCSV + "2024-01-03 18:00:00,n/a\n"})

	code, body := get(t, ts.URL+"/api/table?period=1D")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[
		{"LastUpdated":"2024-01-03 17:00:00","Price":105},
		{"LastUpdated":"2024-01-03 18:00:00","Price":null}
	]`, body)
}

func TestReportHandler(t *testing.T) {
	ts, _ := newTestServer(t, &loader.StaticSource{Content: sampleCSV})

	code, body := get(t, ts.URL+"/report")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "<title>TTE Stock Dashboard</title>")
	require.Contains(t, body, "<h3>TTE report for 2024-01-03</h3>")
	require.Contains(t, body, "<table>")
	require.Contains(t, body, "color: #007BFF")
}

func TestHealthHandler(t *testing.T) {
	ts, _ := newTestServer(t, &loader.StaticSource{Content: sampleCSV})
	code, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ok","source":"static","rows":3,"clients":0}`, body)

	ts, _ = newTestServer(t, &loader.StaticSource{Err: errors.New("gone")})
	code, body = get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body, `"error":"gone"`)
}

func readState(t *testing.T, conn *websocket.Conn) model.DisplayState {
	var state model.DisplayState
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&state))
	return state
}

func TestWebsocket(t *testing.T) {
	ts, hub := newTestServer(t, &loader.StaticSource{Content: sampleCSV})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readState(t, conn)
	require.True(t, first.Available)
	require.Equal(t, model.ChartLine, first.Chart.Type)
	require.Len(t, first.Table, 3)
	require.False(t, first.TableVisible)

	require.NoError(t, conn.WriteJSON(model.Controls{Chart: model.ChartCandlestick, Period: model.PeriodToday, TableClicks: 1}))
	second := readState(t, conn)
	require.Equal(t, model.ChartCandlestick, second.Chart.Type)
	require.Len(t, second.Table, 1)
	require.True(t, second.TableVisible)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)
	hub.Broadcast(model.TimeSeries{{Time: fixedNow, Price: 42}}, fixedNow)
	third := readState(t, conn)
	require.Equal(t, "$42.00", third.PriceTitle)
	require.Equal(t, model.ChartCandlestick, third.Chart.Type, "controls survive a refresh")
}
