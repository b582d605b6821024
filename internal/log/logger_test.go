package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: component, Output: buf})
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentSales)
	logger.Info("hello", FieldSaleID, 7)

	out := buf.String()
	if !strings.Contains(out, "component=sales") || !strings.Contains(out, "sale_id=7") {
		t.Fatalf("unexpected log line %q", out)
	}
	if logger.WithComponent(ComponentHTTP).Component() != ComponentHTTP {
		t.Fatal("WithComponent should switch component name")
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	app := newBufferLogger(&buf, ComponentApp).With(FieldRequestID, "req-1")

	app.WithComponent(ComponentSales).WithComponent(ComponentHTTP).Info("nested")

	out := buf.String()
	if n := strings.Count(out, "component="); n != 1 {
		t.Fatalf("expected exactly one component attribute, got %d in %q", n, out)
	}
	if !strings.Contains(out, "component=http") || !strings.Contains(out, "request_id=req-1") {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentHTTP)

	var inner *Logger
	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req-42" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner = FromContext(r.Context())
			inner.InfoContext(r.Context(), "inside")
		}),
	))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sales", nil))

	if inner == nil {
		t.Fatal("handler was not called")
	}
	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Fatalf("request id missing from %q", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil || l.Component() != "unknown" {
		t.Fatalf("unexpected fallback logger %+v", l)
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{200, "level=INFO"},
		{404, "level=WARN"},
		{500, "level=ERROR"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		logger := newBufferLogger(&buf, ComponentHTTP)
		sl := NewStructuredLogger(logger)
		ctx := NewContext(context.Background(), logger)
		req := httptest.NewRequest(http.MethodGet, "/api/export?month", nil)

		sl.LogHTTPEnd(ctx, req, tc.status, 3, "127.0.0.1")

		out := buf.String()
		if !strings.Contains(out, tc.level) {
			t.Fatalf("status %d: expected %s in %q", tc.status, tc.level, out)
		}
		if !strings.Contains(out, "query=month") {
			t.Fatalf("expected query field in %q", out)
		}
	}
}

func TestLogSaleEventAndError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentSales))

	sl.LogSaleEvent(context.Background(), OpCreate, 1, 2, 200, 20)
	if !strings.Contains(buf.String(), `msg="Sale created"`) {
		t.Fatalf("unexpected sale log %q", buf.String())
	}

	buf.Reset()
	sl.LogError(context.Background(), "publish failed", context.Canceled, ErrorTypeNetwork, OpPublish, nil)
	out := buf.String()
	if !strings.Contains(out, "error_type=network_error") || !strings.Contains(out, "operation=publish") {
		t.Fatalf("unexpected error log %q", out)
	}
}
