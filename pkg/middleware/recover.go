package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
)

// startedWriter remembers whether anything reached the client.
type startedWriter struct {
	http.ResponseWriter
	started bool
}

func (w *startedWriter) WriteHeader(code int) {
	w.started = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *startedWriter) Write(b []byte) (int, error) {
	w.started = true
	return w.ResponseWriter.Write(b)
}

// Recovery turns a handler panic into a logged, counted 500. A response
// that already started (a streamed download) is left as it is. Mount it
// after Logger so the panic carries the request's fields.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &startedWriter{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			route := metrics.Route(r)
			metrics.PanicsRecovered.WithLabelValues(route).Inc()
			Annotate(r.Context(), "error_kind", "panic")
			logger.WithCtx(r.Context()).Error("panic recovered",
				"route", route,
				"error", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
			)

			if !sw.started {
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(sw, r)
	})
}
