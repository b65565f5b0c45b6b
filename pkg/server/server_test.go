package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/priyakud/zeplens/pkg/config"
	"github.com/priyakud/zeplens/pkg/service"
	"github.com/priyakud/zeplens/pkg/store"
)

const ordersPage = `
<div id="list">
	<div class="card"><span>Placed at 5th Jun 2025, 10 PM</span><img alt="amul butter" src="/a.jpg"><div>₹1,250</div></div>
	<div class="card"><span>Placed at 7th Jun 2025, 9 PM</span><div>₹499</div></div>
</div>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{DomainHint: "zepto", TopProducts: 5, TopOrders: 3}
	logger := log.New(io.Discard)
	processor := service.NewProcessor(cfg, logger, store.NewMemory())

	s := New(cfg, logger, processor)
	s.setupRoutes()

	ts := httptest.NewServer(s.mux)
	t.Cleanup(ts.Close)
	return ts
}

func postSnapshot(t *testing.T, url string) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("snapshot", "zepto-orders.html")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(ordersPage)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	resp, err := http.Post(url+"/api/scan", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan status = %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func getSummary(t *testing.T, url string) map[string]interface{} {
	t.Helper()
	resp, err := http.Get(url + "/api/summary")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d", resp.StatusCode)
	}

	var body struct {
		Summary map[string]interface{} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Summary
}

func TestScanAndSummary(t *testing.T) {
	ts := newTestServer(t)

	body := postSnapshot(t, ts.URL)
	if body["found"].(float64) != 2 || body["added"].(float64) != 2 {
		t.Errorf("scan response = %v", body)
	}

	sum := getSummary(t, ts.URL)
	if sum["total"].(float64) != 1749 {
		t.Errorf("total = %v, want 1749", sum["total"])
	}
	if sum["order_count"].(float64) != 2 {
		t.Errorf("order_count = %v, want 2", sum["order_count"])
	}
}

func TestRescanReportsDuplicates(t *testing.T) {
	ts := newTestServer(t)

	postSnapshot(t, ts.URL)
	body := postSnapshot(t, ts.URL)
	if body["added"].(float64) != 0 || body["duplicates"].(float64) != 2 {
		t.Errorf("rescan response = %v", body)
	}
}

func TestClearThenSummaryIsEmpty(t *testing.T) {
	ts := newTestServer(t)
	postSnapshot(t, ts.URL)

	resp, err := http.Post(ts.URL+"/api/clear", "application/json", nil)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d", resp.StatusCode)
	}

	sum := getSummary(t, ts.URL)
	if sum["total"].(float64) != 0 || sum["order_count"].(float64) != 0 {
		t.Errorf("summary after clear = %v", sum)
	}
}

func TestHomeRendersDashboard(t *testing.T) {
	ts := newTestServer(t)
	postSnapshot(t, ts.URL)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	page, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	html := string(page)
	if !strings.Contains(html, "2 orders") {
		t.Errorf("dashboard missing order count: %s", html)
	}
	if !strings.Contains(html, "Jun 2025") {
		t.Errorf("dashboard missing month bucket")
	}
	if !strings.Contains(html, "Amul butter") {
		t.Errorf("dashboard missing product name")
	}
}

func TestScanRequiresSnapshot(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/scan", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSummaryMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/summary", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
