// Package listeners reacts to committed writes: it records the audit trail
// and drops the cached dashboard.
package listeners

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/audit"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// Register wires the audit recorder and the dashboard cache to bus.
// Either may be nil.
func Register(bus *event.Bus, rec *audit.Recorder, reports *services.ReportService) {
	bus.Listen(services.EventOrderPlaced, func(ctx context.Context, payload any) {
		p, ok := payload.(services.OrderPlaced)
		if !ok {
			logger.WithCtx(ctx).Warn("listeners: unexpected payload", "event", services.EventOrderPlaced)
			return
		}
		rec.Record(ctx, audit.EntityOrder, audit.ActionCreate,
			fmt.Sprintf("order %d for customer %d on %s, %d line(s), total %s",
				p.OrderID, p.CustomerID, p.Date, p.Lines, p.Total.StringFixed(2)))
		if reports != nil {
			reports.InvalidateDashboard(ctx)
		}
	})

	bus.Listen(services.EventCustomerChanged, func(ctx context.Context, payload any) {
		p, ok := payload.(services.CatalogChanged)
		if !ok {
			logger.WithCtx(ctx).Warn("listeners: unexpected payload", "event", services.EventCustomerChanged)
			return
		}
		rec.Record(ctx, audit.EntityCustomer, p.Action, fmt.Sprintf("%s (id %d)", p.Name, p.ID))
		if reports != nil {
			reports.InvalidateDashboard(ctx)
		}
	})

	bus.Listen(services.EventProductChanged, func(ctx context.Context, payload any) {
		p, ok := payload.(services.CatalogChanged)
		if !ok {
			logger.WithCtx(ctx).Warn("listeners: unexpected payload", "event", services.EventProductChanged)
			return
		}
		rec.Record(ctx, audit.EntityProduct, p.Action, fmt.Sprintf("%s (id %d)", p.Name, p.ID))
	})
}
