package pkglog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

type captureHandler struct {
	attrs map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	if h.attrs == nil {
		h.attrs = make(map[string]slog.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.attrs[a.Key] = a.Value
		return true
	})
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(_ string) slog.Handler {
	return h
}

func TestContextHandlerAddsServiceAndCID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture, service: "fraud-scorer"}

	ctx := SetCorrelationID(context.Background(), "cid-abc")
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	if err := handler.Handle(ctx, rec); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := capture.attrs["service"].String(); got != "fraud-scorer" {
		t.Fatalf("expected service=fraud-scorer, got %q", got)
	}
	if got := capture.attrs["_cID"].String(); got != "cid-abc" {
		t.Fatalf("expected _cID=cid-abc, got %q", got)
	}
}

func TestContextHandlerSkipsInvalidCID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture, service: "fraud-trainer"}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	if err := handler.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if _, ok := capture.attrs["_cID"]; ok {
		t.Fatalf("did not expect _cID to be set")
	}
	if got := capture.attrs["service"].String(); got != "fraud-trainer" {
		t.Fatalf("expected service=fraud-trainer, got %q", got)
	}
}

func TestNewHandlerWritesNormalizedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler("fraud-scorer", &buf, slog.LevelInfo)).With("component", "test")

	logger.Debug("dropped")
	logger.Info("kept", "rows", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	for _, key := range []string{"ts", "severity", "service", "component"} {
		if _, ok := line[key]; !ok {
			t.Fatalf("expected key %q in %v", key, line)
		}
	}
	if line["service"] != "fraud-scorer" {
		t.Fatalf("unexpected service: %v", line["service"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}
