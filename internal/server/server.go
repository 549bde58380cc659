package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mailru/easyjson"

	"PriceDashboard/internal/dashboard"
	"PriceDashboard/internal/loader"
	"PriceDashboard/internal/model"
	"PriceDashboard/internal/report"
)

type Params struct {
	Port int
}

// Server exposes the dashboard over HTTP. Every request reloads the price table.
type Server struct {
	p      Params
	loader *loader.Loader
	engine *dashboard.Engine
	hub    *Hub
	now    func() time.Time
}

func NewServer(p Params, ld *loader.Loader, eng *dashboard.Engine, hub *Hub) *Server {
	return &Server{
		p:      p,
		loader: ld,
		engine: eng,
		hub:    hub,
		now:    time.Now,
	}
}

// Handler builds the route table wrapped in the logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.stateHandler)
	mux.HandleFunc("/api/table", s.tableHandler)
	mux.HandleFunc("/report", s.reportHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	if s.hub != nil {
		mux.HandleFunc("/ws", s.hub.ServeWS)
	}
	return middleware(mux)
}

// Run starts the HTTP server and will continue until either an
// unexpected error is encountered, or the provided context is finished.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.p.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	log.Printf("[INFO] http server listening on :%d", s.p.Port)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shCtx); err != nil {
			log.Printf("[WARN] http shutdown: %v", err)
		}
		<-errCh
		return nil

	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// stateHandler serves the full DisplayState for the controls in the query string.
func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	controls, err := parseControls(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.loader.Load(r.Context())
	state := s.engine.ComputeState(res.Series, controls, s.now())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Printf("[ERROR] write state: %v", err)
	}
}

// tableHandler serves the price table rows of the requested period.
func (s *Server) tableHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	controls := model.DefaultControls()
	controls.Period = model.ParsePeriod(getParamOr(r, "period", string(model.PeriodAll)))

	res := s.loader.Load(r.Context())
	state := s.engine.ComputeState(res.Series, controls, s.now())
	writeJSON(w, state.Table)
}

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: {{.Colors.Background}}; color: {{.Colors.Text}}; font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid {{.Colors.Border}}; padding: 0.4em 0.8em; }
h1 { color: {{.Colors.Primary}}; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// reportHandler renders the price, key statistics and daily report panels as HTML.
func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	res := s.loader.Load(r.Context())
	state := s.engine.ComputeState(res.Series, model.DefaultControls(), s.now())

	rd := s.engine.Renderer
	body, err := report.HTML(rd.Markdown(state))
	if err != nil {
		log.Printf("[ERROR] render report: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = reportPage.Execute(w, struct {
		Title  string
		Colors report.Colors
		Body   template.HTML
	}{
		Title:  rd.Style.Symbol + " Stock Dashboard",
		Colors: rd.Style.Colors,
		Body:   template.HTML(body),
	})
	if err != nil {
		log.Printf("[ERROR] write report: %v", err)
	}
}

// healthHandler reports whether the price table can currently be read.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	res := s.loader.Load(r.Context())
	body := map[string]any{
		"status": "ok",
		"source": res.Source,
		"rows":   len(res.Series),
	}
	code := http.StatusOK
	if res.Failed() {
		body["status"] = "degraded"
		body["error"] = res.Err.Error()
		code = http.StatusServiceUnavailable
	}
	if s.hub != nil {
		body["clients"] = s.hub.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// parseControls reads chart, period, ma and clicks from the query string.
// Unknown chart types and periods fall back to their defaults.
func parseControls(r *http.Request) (model.Controls, error) {
	c := model.Controls{
		Chart:  model.ParseChartType(getParam(r, "chart")),
		Period: model.ParsePeriod(getParamOr(r, "period", string(model.PeriodAll))),
	}
	if ma := getParam(r, "ma"); ma != "" {
		for _, id := range strings.Split(ma, ",") {
			if id = strings.TrimSpace(id); id != "" {
				c.Indicators = append(c.Indicators, id)
			}
		}
	}
	if v := getParam(r, "clicks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("invalid clicks value %q", v)
		}
		c.TableClicks = n
	}
	return c.Normalize(), nil
}

// writeJSON serializes the response via easyjson.
func writeJSON(w http.ResponseWriter, data easyjson.Marshaler) {
	payload, err := easyjson.Marshal(data)
	if err != nil {
		log.Printf("[ERROR] marshal response: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		log.Printf("[WARN] write response: %v", err)
	}
}

func getParam(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

func getParamOr(r *http.Request, key, defVal string) string {
	if val := getParam(r, key); val != "" {
		return val
	}
	return defVal
}

func middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %s", r.Method, r.URL.RequestURI(), time.Since(start))
	})
}
