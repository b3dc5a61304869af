// Package ctx provides the request context handed to controllers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, binding and the JSON
// envelope:
//
//	func Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    if !ok {
//	        return // 404 already sent
//	    }
//	    c.Success(order)
//	}
//
//	router.Get("/orders/{id}", "orders.show", ctx.Wrap(Show))
package ctx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/orderdesk/pkg/bind"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
	"github.com/shashiranjanraj/orderdesk/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/orders/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter. On failure it sends
// a 404 and returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 0)
	if err != nil || n == 0 {
		c.NotFound()
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

// QueryPtr returns a pointer to a non-empty query value, or nil.
func (c *Context) QueryPtr(key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

// QueryInt parses an integer query value, returning def when it is absent.
// On a malformed value it sends a 422 and returns false.
func (c *Context) QueryInt(key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.ValidationError(map[string]string{key: fmt.Sprintf("The %s field must be an integer.", key)})
		return 0, false
	}
	return n, true
}

// QueryUintPtr parses an optional positive integer query value. On a
// malformed value it sends a 422 and returns false.
func (c *Context) QueryUintPtr(key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || n == 0 {
		c.ValidationError(map[string]string{key: fmt.Sprintf("The %s field must be a positive integer.", key)})
		return nil, false
	}
	u := uint(n)
	return &u, true
}

// Body reads and returns the raw request body bytes.
func (c *Context) Body() ([]byte, error) {
	return io.ReadAll(c.R.Body)
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// On validation failure it sends a 422 and returns false; on a decode
// error it sends a 400 and returns false.
//
//	var input services.ProductInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// Status writes just the HTTP status code with an empty body.
func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// JSON writes v as JSON with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

func (c *Context) envelope(code int, body response.Envelope) {
	c.status = code
	response.Write(c.W, code, body)
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.envelope(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON envelope.
func (c *Context) Created(data any) {
	c.envelope(http.StatusCreated, response.Envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.envelope(code, response.Envelope{Status: code, Message: message})
}

// ErrorWith sends a JSON error envelope carrying details.
func (c *Context) ErrorWith(code int, message string, details any) {
	c.envelope(code, response.Envelope{Status: code, Message: message, Errors: details})
}

// ValidationError sends a 422 Unprocessable Entity with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.ErrorWith(http.StatusUnprocessableEntity, "Validation failed", errs)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// Attachment prepares the response for a file download.
func (c *Context) Attachment(filename, contentType string) {
	c.W.Header().Set("Content-Type", contentType)
	c.W.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }
