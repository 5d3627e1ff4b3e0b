package main

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"gfp-rankings/internal/pipeline"
	"gfp-rankings/internal/ranking"
	"gfp-rankings/pkg/logger"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	tbl, err := ranking.NewTable([]string{"2022", "2023"}, [][]string{{"USA", "Japan"}, {"Japan", "USA"}})
	if err != nil {
		t.Fatal(err)
	}
	res := &pipeline.Result{
		Source: "https://ranks.example.com",
		Table:  tbl,
		Years:  []string{"2022", "2023"},
		Series: ranking.PositionSeries{{Country: "Japan", Positions: []int{2, 1}}},
	}
	ts := httptest.NewServer(logRequest(logger.Discard(), newMux(res)))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/health")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("unexpected health response %d %s", resp.StatusCode, body)
	}
}

func TestChartPage(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, `"name":"Japan"`) {
		t.Fatal("series missing from chart")
	}

	resp, _ = get(t, ts.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 for unknown path, got %d", resp.StatusCode)
	}
}

func TestPositions(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/positions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		Years  []string               `json:"years"`
		Series ranking.PositionSeries `json:"series"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Series) != 1 || out.Series[0].Positions[1] != 1 {
		t.Fatalf("unexpected positions %+v", out)
	}
}

func TestTableAndReport(t *testing.T) {
	ts := testServer(t)
	_, csvBody := get(t, ts.URL+"/table.csv")
	if !strings.HasPrefix(csvBody, ",2022,2023\n0,USA,Japan\n") {
		t.Fatalf("unexpected csv %q", csvBody)
	}
	_, md := get(t, ts.URL+"/report.md")
	if !strings.Contains(md, "Japan") {
		t.Fatalf("unexpected report %q", md)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Post(ts.URL+"/positions", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", resp.StatusCode)
	}
}

func TestServeFailsOnOccupiedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	done := make(chan error, 1)
	go func() {
		done <- serve(ln.Addr().String(), http.NotFoundHandler(), make(chan os.Signal), logger.Discard())
	}()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve kept running after a failed bind")
	}
}

func TestServeStopsOnSignal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	stop := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(addr, newMux(&pipeline.Result{}), stop, logger.Discard())
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	stop <- syscall.SIGTERM
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not return after stop")
	}
}
