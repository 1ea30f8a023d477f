package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weft-ui/weft/pkg/engine"
	"github.com/weft-ui/weft/pkg/vdom"
)

func testEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	e := engine.New(opts...)
	root := vdom.Div(
		vdom.H1("weft"),
		vdom.Ul(
			vdom.Li(vdom.Key("a"), "alpha"),
			vdom.Li(vdom.Key("b"), "beta"),
		),
	)
	if _, err := e.Mount(context.Background(), root); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return e
}

func TestPage(t *testing.T) {
	srv := New(testEngine(t), &Config{Title: "Test Page"})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	for _, want := range []string{
		"<title>Test Page</title>",
		"<h1>weft</h1>",
		"alpha",
		"window.__WEFT_STREAM__",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPageNoTree(t *testing.T) {
	srv := New(engine.New(), nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := New(testEngine(t), nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok\n" {
		t.Errorf("body = %q", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng := engine.New(engine.WithMetrics(reg))
	root := vdom.Div(vdom.Span("hello"))
	if _, err := eng.Mount(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Render(context.Background(), vdom.Div(vdom.Span("world"))); err != nil {
		t.Fatal(err)
	}

	srv := New(eng, &Config{Gatherer: reg})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "weft_passes_total") {
		t.Error("metrics output missing weft_passes_total")
	}
}

func TestMetricsNotMounted(t *testing.T) {
	srv := New(testEngine(t), nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a gatherer", resp.StatusCode)
	}
}

func TestStreamIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newStreamID()
		if len(id) != 32 {
			t.Fatalf("stream id length = %d", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate stream id %s", id)
		}
		seen[id] = true
	}
}
