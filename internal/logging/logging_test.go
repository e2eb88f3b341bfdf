package logging

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetFlags(0)
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		log.SetFlags(flags)
		SetVerbose(false)
	})
	return &buf
}

func TestLevelPrefixes(t *testing.T) {
	buf := captureLog(t)
	Info("loaded %d", 3)
	Warn("slow %s", "lookup")
	got := buf.String()
	if !strings.Contains(got, "[INFO] loaded 3") {
		t.Errorf("missing info line in %q", got)
	}
	if !strings.Contains(got, "[WARN] slow lookup") {
		t.Errorf("missing warn line in %q", got)
	}
}

func TestDebugGatedByVerbose(t *testing.T) {
	buf := captureLog(t)
	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("Debug wrote %q while not verbose", buf.String())
	}
	SetVerbose(true)
	Debug("shown")
	if !strings.Contains(buf.String(), "[DEBUG] shown") {
		t.Errorf("Debug did not write while verbose: %q", buf.String())
	}
}

func TestRequestIDPrefix(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "abc-123")
	if RequestID(ctx) != "abc-123" {
		t.Fatalf("RequestID = %q, want abc-123", RequestID(ctx))
	}
	InfoCtx(ctx, "move %s", "accepted")
	WarnCtx(context.Background(), "no id")
	got := buf.String()
	if !strings.Contains(got, "[INFO] [request_id=abc-123] move accepted") {
		t.Errorf("missing request id prefix in %q", got)
	}
	if !strings.Contains(got, "[WARN] no id") {
		t.Errorf("missing plain warn in %q", got)
	}
}
