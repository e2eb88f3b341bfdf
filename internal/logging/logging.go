// Package logging holds the level-prefixed log helpers shared by the web
// server, the console game and the lookup client.
package logging

import (
	"context"
	"io"
	"log"
	"sync/atomic"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var verbose atomic.Bool

// SetVerbose toggles Debug output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// WithRequestID stores a request ID in ctx for the *Ctx helpers.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func Info(format string, v ...any) {
	log.Printf("[INFO] "+format, v...)
}

func Warn(format string, v ...any) {
	log.Printf("[WARN] "+format, v...)
}

func Debug(format string, v ...any) {
	if !verbose.Load() {
		return
	}
	log.Printf("[DEBUG] "+format, v...)
}

func Fatal(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}

// InfoCtx logs like Info, prefixed with the request ID when ctx carries one.
func InfoCtx(ctx context.Context, format string, v ...any) {
	if reqID := RequestID(ctx); reqID != "" {
		Info("[request_id=%v] "+format, append([]any{reqID}, v...)...)
		return
	}
	Info(format, v...)
}

// WarnCtx logs like Warn, prefixed with the request ID when ctx carries one.
func WarnCtx(ctx context.Context, format string, v ...any) {
	if reqID := RequestID(ctx); reqID != "" {
		Warn("[request_id=%v] "+format, append([]any{reqID}, v...)...)
		return
	}
	Warn(format, v...)
}
