package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/Alijeyrad/vitum_backend/pkg/reqctx"
)

func TestContextHandlerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&contextHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "rid-1"})
	logger.InfoContext(ctx, "completed")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["request_id"] != "rid-1" {
		t.Errorf("request_id = %v", rec["request_id"])
	}

	buf.Reset()
	logger.Info("no request")
	if bytes.Contains(buf.Bytes(), []byte("request_id")) {
		t.Error("request_id written outside a request")
	}
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var debug, warn bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(h).With("service", "vitum")

	logger.Info("info line")
	logger.Warn("warn line")

	if !bytes.Contains(debug.Bytes(), []byte("info line")) || !bytes.Contains(debug.Bytes(), []byte("warn line")) {
		t.Errorf("debug output missing lines: %s", debug.String())
	}
	if bytes.Contains(warn.Bytes(), []byte("info line")) {
		t.Error("warn handler received info record")
	}
	if !bytes.Contains(warn.Bytes(), []byte("service=vitum")) {
		t.Error("attrs not propagated")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
