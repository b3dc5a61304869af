package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
)

// fail maps a service error onto the response envelope.
func fail(c *ctx.Context, err error) {
	var (
		verr     *services.ValidationError
		stockErr *services.InsufficientStockError
	)

	middleware.Annotate(c.Context(), "error_kind", errorKind(err))

	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.As(err, &stockErr):
		c.ErrorWith(http.StatusConflict, stockErr.Error(), map[string]any{
			"product_id":   stockErr.ProductID,
			"product_name": stockErr.ProductName,
			"available":    stockErr.Available,
			"requested":    stockErr.Requested,
		})
	case errors.Is(err, services.ErrIntegrityConflict):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrTransactionFailed):
		c.Error(http.StatusInternalServerError, "The operation could not be completed. Nothing was saved.")
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// errorKind names the failure for the request log.
func errorKind(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, services.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, services.ErrIntegrityConflict):
		return "integrity_conflict"
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrTransactionFailed):
		return "transaction_failed"
	}
	return "internal"
}
