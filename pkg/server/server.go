package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/priyakud/zeplens/pkg/config"
	"github.com/priyakud/zeplens/pkg/report"
	"github.com/priyakud/zeplens/pkg/service"
	"github.com/priyakud/zeplens/pkg/summary"
)

//go:embed templates/*.html
var templates embed.FS

// Server serves the spend dashboard and the scan/clear API over HTTP.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	template  *template.Template
	processor *service.Processor
}

// New creates a new HTTP server around an existing processor.
func New(cfg *config.Config, logger *log.Logger, processor *service.Processor) *Server {
	tmpl := template.Must(template.ParseFS(templates, "templates/*.html"))
	return &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		template:  tmpl,
		processor: processor,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.withLogging(s.handleHome))
	s.mux.HandleFunc("/api/summary", s.withLogging(s.handleSummary))
	s.mux.HandleFunc("/api/scan", s.withLogging(s.handleScan))
	s.mux.HandleFunc("/api/clear", s.withLogging(s.handleClear))
}

func (s *Server) options() summary.Options {
	return summary.Options{
		TopProducts: s.config.TopProducts,
		TopOrders:   s.config.TopOrders,
	}
}

// ---------------- dashboard page ----------------

type monthView struct {
	Label string
	Value string
	Width int // percent of the tallest bar
}

type productView struct {
	Name  string
	Count int
}

type orderView struct {
	Date  string
	Price string
}

type dashboardView struct {
	Empty    bool
	Total    string
	Count    int
	Months   []monthView
	Products []productView
	Largest  []orderView
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sum, err := s.buildSummary(r)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load orders", err)
		return
	}

	view := dashboardView{
		Empty: sum.OrderCount == 0,
		Total: report.Rupees(sum.Total),
		Count: sum.OrderCount,
	}

	max := 0.0
	for _, m := range sum.Months {
		if m.Total > max {
			max = m.Total
		}
	}
	for _, m := range sum.Months {
		width := 0
		if max > 0 {
			width = int(m.Total / max * 100)
		}
		if width < 1 {
			width = 1
		}
		view.Months = append(view.Months, monthView{Label: m.Key, Value: report.Rupees(m.Total), Width: width})
	}
	for _, p := range sum.TopProducts {
		view.Products = append(view.Products, productView{Name: p.Name, Count: p.Count})
	}
	for _, o := range sum.TopOrders {
		view.Largest = append(view.Largest, orderView{Date: report.DateLabel(o.Date), Price: report.Rupees(o.Price)})
	}

	if err := s.template.ExecuteTemplate(w, "index.html", view); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render page", err)
	}
}

// ---------------- API handlers ----------------

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	sum, err := s.buildSummary(r)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load orders", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"summary": sum,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("snapshot")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "snapshot file required", err)
		return
	}
	defer file.Close()

	result, err := s.processor.ScanReader(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "scan failed", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"source":     result.Source,
		"found":      len(result.Orders),
		"added":      result.Added,
		"duplicates": result.Duplicates,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	if err := s.processor.Ledger().Clear(r.Context()); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "clear failed", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) buildSummary(r *http.Request) (*summary.Summary, error) {
	orders, err := s.processor.Ledger().Orders(r.Context())
	if err != nil {
		return nil, err
	}
	return summary.Build(orders, s.options()), nil
}

// ---------------- helpers ----------------

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
