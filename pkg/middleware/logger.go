// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/reqid"
)

// responseWriter captures the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

type notesKey struct{}

// notes are extra fields for the request's closing log line.
type notes struct {
	mu    sync.Mutex
	attrs []any
}

// Annotate adds key/value to the line Logger writes when the request ends.
// It is a no-op outside a request wrapped by Logger.
func Annotate(ctx context.Context, key string, value any) {
	n, ok := ctx.Value(notesKey{}).(*notes)
	if !ok {
		return
	}
	n.mu.Lock()
	n.attrs = append(n.attrs, key, value)
	n.mu.Unlock()
}

// Logger writes one line per request, tagged with the request id and the
// matched route. 5xx responses log at error level and 4xx at warn.
//
// Wire reqid.Middleware() before it so the id is in the context.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Every downstream logger.WithCtx(ctx) returns this logger.
		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()), "method", r.Method, "path", r.URL.Path)
		n := &notes{}
		ctx := context.WithValue(logger.InjectLogger(r.Context(), reqLog), notesKey{}, n)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		attrs := []any{
			"route", metrics.Route(r),
			"status", rw.statusCode,
			"bytes", rw.bytes,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		}
		n.mu.Lock()
		attrs = append(attrs, n.attrs...)
		n.mu.Unlock()

		switch {
		case rw.statusCode >= http.StatusInternalServerError:
			reqLog.Error("request", attrs...)
		case rw.statusCode >= http.StatusBadRequest:
			reqLog.Warn("request", attrs...)
		default:
			reqLog.Info("request", attrs...)
		}
	})
}
