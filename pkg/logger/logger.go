// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the request-scoped logger stored by the HTTP middleware,
// so every line a handler or service writes carries the request id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", id)
//	// → time=... level=INFO msg="order placed" request_id=0b6f... order_id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/orderdesk/config"
)

var L *slog.Logger

func init() {
	L = New(config.AppEnv(), os.Stdout)
	slog.SetDefault(L)
}

// New builds the logger for env: JSON at INFO in production, text at DEBUG
// everywhere else.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

type ctxKey struct{}

// WithCtx returns the logger injected into ctx, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
