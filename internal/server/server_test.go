package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rserranon/options-simulator/internal/config"
	apperrors "github.com/rserranon/options-simulator/internal/errors"
	"github.com/rserranon/options-simulator/internal/export"
	"github.com/rserranon/options-simulator/internal/payoff"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(config.Default(), zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestPayoffAPIScenario(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/api/payoff?strike=420&premium=10&basis=420&contract_size=100&per_share=true&show_profit=true&strategy=covered-call&strategy=Long+Stock")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	var doc export.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Series) != 2 || doc.Series[0].Strategy != payoff.CoveredCall || doc.Series[1].Strategy != payoff.LongStock {
		t.Fatalf("series = %+v", doc.Series)
	}
	i := doc.Grid.Nearest(450)
	if got := doc.Series[0].Values[i]; got != 10 {
		t.Errorf("covered call at 450 = %v, want 10", got)
	}
	if got := doc.Series[1].Values[i]; got != 30 {
		t.Errorf("long stock at 450 = %v, want 30", got)
	}
}

func TestPayoffAPIDefaultsAndCommaList(t *testing.T) {
	srv := newTestServer(t)

	var doc export.Document
	if err := json.NewDecoder(get(t, srv, "/api/payoff").Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Series) != len(payoff.DefaultSelection) {
		t.Errorf("default series = %d, want %d", len(doc.Series), len(payoff.DefaultSelection))
	}

	doc = export.Document{}
	if err := json.NewDecoder(get(t, srv, "/api/payoff?strategy=naked-short-put,cash-secured-put,bogus&per_share=false").Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Series) != 2 || doc.Params.PerShare {
		t.Fatalf("doc = %+v", doc.Params)
	}
	for k := range doc.Series[0].Values {
		if doc.Series[0].Values[k] != doc.Series[1].Values[k] {
			t.Fatalf("puts differ at %v", doc.Grid[k])
		}
	}
}

func TestPayoffAPIErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"empty selection", "strategy=", apperrors.MsgEmptySelection},
		{"empty selection wins", "strategy=&strike=-1", apperrors.MsgEmptySelection},
		{"negative strike", "strike=-1", apperrors.MsgInvalidParameter},
		{"zero contract", "contract_size=0", apperrors.MsgInvalidParameter},
		{"unparsable premium", "premium=ten", apperrors.MsgInvalidParameter},
		{"bad boolean", "per_share=maybe", apperrors.MsgInvalidParameter},
		{"strike grid too long", "strike=1e10&strategy=long-stock", apperrors.MsgInvalidParameter},
		{"strike overflows grid", "strike=1e20&strategy=long-stock", apperrors.MsgInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv, "/api/payoff?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if e.Message != tt.message || e.Error == "" {
				t.Errorf("error = %+v", e)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)

	t.Run("first load plots defaults", func(t *testing.T) {
		resp := get(t, srv, "/")
		html := body(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if strings.Count(html, "<polyline") != len(payoff.DefaultSelection) {
			t.Errorf("want %d polylines", len(payoff.DefaultSelection))
		}
		for _, want := range []string{"Pay-off at Expiration (P/L, Per Share)", `class="zero"`, "Cost Basis = $420.00", `value="covered-call" checked`} {
			if !strings.Contains(html, want) {
				t.Errorf("missing %q", want)
			}
		}
	})

	t.Run("no strategies checked", func(t *testing.T) {
		resp := get(t, srv, "/?submitted=1&strike=420&premium=10&basis=420&contract_size=100")
		html := body(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if !strings.Contains(html, apperrors.MsgEmptySelection) || strings.Contains(html, "<polyline") {
			t.Error("expected empty selection message and no chart")
		}
	})

	t.Run("oversized strike is rejected", func(t *testing.T) {
		resp := get(t, srv, "/?submitted=1&strike=1e20&strategy=long-stock")
		html := body(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if !strings.Contains(html, apperrors.MsgInvalidParameter) || strings.Contains(html, "<polyline") {
			t.Error("expected invalid parameter message and no chart")
		}
	})

	t.Run("invalid input keeps form values", func(t *testing.T) {
		q := url.Values{"submitted": {"1"}, "strike": {"-5"}, "strategy": {"long-stock"}, "per_share": {"on"}}
		html := body(t, get(t, srv, "/?"+q.Encode()))
		if !strings.Contains(html, apperrors.MsgInvalidParameter) {
			t.Error("expected invalid parameter message")
		}
		if !strings.Contains(html, `value="-5"`) || !strings.Contains(html, `value="long-stock" checked`) {
			t.Error("form did not echo the submitted values")
		}
		if strings.Contains(html, `name="show_profit" value="true" checked`) {
			t.Error("unchecked box rendered as checked")
		}
	})

	t.Run("contract value mode", func(t *testing.T) {
		q := url.Values{"submitted": {"1"}, "strategy": {"covered-call"}}
		html := body(t, get(t, srv, "/?"+q.Encode()))
		if !strings.Contains(html, "Pay-off at Expiration (Value, Per Contract)") {
			t.Error("title does not reflect unchecked boxes")
		}
		if !strings.Contains(html, "$43,000") {
			t.Error("summary missing covered call maximum value per contract")
		}
	})
}

func TestStrategiesAndHealth(t *testing.T) {
	srv := newTestServer(t)

	var infos []payoff.Info
	if err := json.NewDecoder(get(t, srv, "/api/strategies").Body).Decode(&infos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(infos) != len(payoff.All) || infos[2].Slug != "covered-call" || len(infos[2].DependsOn) != 2 {
		t.Errorf("strategies = %+v", infos)
	}

	if got := body(t, get(t, srv, "/healthz")); got != "ok" {
		t.Errorf("healthz = %q", got)
	}
	if resp := get(t, srv, "/nope"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRequestIDIsKept(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestRecoverPanics(t *testing.T) {
	s := New(config.Default(), zerolog.Nop())
	h := s.requestID(s.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var e errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Message != "Error: boom" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(config.Default(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(315, 525, 6)
	if len(ticks) == 0 || ticks[0] < 315 || ticks[len(ticks)-1] > 525 {
		t.Fatalf("ticks = %v", ticks)
	}
	for i := 1; i < len(ticks); i++ {
		if d := ticks[i] - ticks[i-1]; d != 50 {
			t.Errorf("step = %v, want 50", d)
		}
	}
	if niceTicks(1, 1, 5) != nil {
		t.Error("empty range should have no ticks")
	}
}

func TestTokenBucket(t *testing.T) {
	now := time.Unix(0, 0)
	b := newTokenBucket(2, 3, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if ok, _ := b.allow(); !ok {
			t.Fatalf("request %d rejected within burst", i)
		}
	}
	ok, wait := b.allow()
	if ok || wait != 500*time.Millisecond {
		t.Fatalf("allow = %v, %v; want rejection with 500ms wait", ok, wait)
	}

	now = now.Add(500 * time.Millisecond)
	if ok, _ := b.allow(); !ok {
		t.Error("token not refilled")
	}
	now = now.Add(time.Hour)
	for i := 0; i < 3; i++ {
		b.allow()
	}
	if ok, _ := b.allow(); ok {
		t.Error("refill exceeded burst")
	}
}

func TestThrottle(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit = 0.001
	cfg.Server.Burst = 1
	srv := httptest.NewServer(New(cfg, zerolog.Nop()).Handler())
	defer srv.Close()

	if resp := get(t, srv, "/api/strategies"); resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d", resp.StatusCode)
	}
	resp := get(t, srv, "/api/strategies")
	if resp.StatusCode != http.StatusTooManyRequests || resp.Header.Get("Retry-After") == "" {
		t.Errorf("second request status = %d, Retry-After %q", resp.StatusCode, resp.Header.Get("Retry-After"))
	}
	if resp := get(t, srv, "/healthz"); resp.StatusCode != http.StatusOK {
		t.Errorf("healthz throttled: %d", resp.StatusCode)
	}
}
