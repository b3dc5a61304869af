package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
	"github.com/shashiranjanraj/orderdesk/pkg/reqid"
)

func TestRecoveryAfterLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L
	logger.L = logger.New("production", &buf)
	t.Cleanup(func() { logger.L = prev })

	h := reqid.Middleware()(middleware.Logger(middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(reqid.Header, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(reqid.Header))
	assert.Contains(t, buf.String(), `"msg":"panic recovered"`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"status":500`)
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.L
	logger.L = logger.New("production", &buf)
	t.Cleanup(func() { logger.L = prev })
	return &buf
}

func TestLoggerRecordsRouteAndErrorKind(t *testing.T) {
	buf := captureLog(t)

	r := chi.NewRouter()
	r.Use(reqid.Middleware(), middleware.Logger, middleware.Recovery)
	r.Post("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		middleware.Annotate(r.Context(), "error_kind", "insufficient_stock")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("{}"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/7", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"route":"/api/orders/{id}"`)
	assert.Contains(t, out, `"path":"/api/orders/7"`)
	assert.Contains(t, out, `"error_kind":"insufficient_stock"`)
	assert.Contains(t, out, `"bytes":2`)
}

func TestAnnotateWithoutLoggerIsNoop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotPanics(t, func() { middleware.Annotate(req.Context(), "k", "v") })
}

func TestRecoveryCountsPanicsAndKeepsStartedResponses(t *testing.T) {
	buf := captureLog(t)
	counter := metrics.PanicsRecovered.WithLabelValues("/api/reports/orders.csv")
	before := testutil.ToFloat64(counter)

	r := chi.NewRouter()
	r.Use(reqid.Middleware(), middleware.Logger, middleware.Recovery)
	r.Get("/api/reports/orders.csv", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Order ID;Customer\n"))
		panic("row render failed")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/orders.csv", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order ID;Customer\n", rec.Body.String(), "no envelope appended to a started body")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Contains(t, buf.String(), `"error_kind":"panic"`)
}

func TestReqIDGeneratedWhenMissing(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}
