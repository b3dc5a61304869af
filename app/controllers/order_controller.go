package controllers

import (
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
)

type OrderController struct {
	orders  *services.OrderService
	reports *services.ReportService
}

func NewOrderController(orders *services.OrderService, reports *services.ReportService) *OrderController {
	return &OrderController{orders: orders, reports: reports}
}

// Store places an order. Stock problems answer 409 with the product and
// the units available.
func (oc *OrderController) Store(c *ctx.Context) {
	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}

	id, err := oc.orders.PlaceOrder(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	order, err := oc.orders.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(order)
}

func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	order, err := oc.orders.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

// Index lists orders filtered by ?customer_id=&date_from=&date_to=.
func (oc *OrderController) Index(c *ctx.Context) {
	f, ok := reportFilter(c)
	if !ok {
		return
	}
	list, err := oc.reports.FilteredOrders(c.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

// Recent lists the newest orders, ?limit= defaulting to 5.
func (oc *OrderController) Recent(c *ctx.Context) {
	limit, ok := c.QueryInt("limit", services.DefaultRecentLimit)
	if !ok {
		return
	}
	list, err := oc.reports.RecentOrders(c.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func reportFilter(c *ctx.Context) (services.ReportFilter, bool) {
	customerID, ok := c.QueryUintPtr("customer_id")
	if !ok {
		return services.ReportFilter{}, false
	}
	return services.ReportFilter{
		CustomerID: customerID,
		DateFrom:   c.QueryPtr("date_from"),
		DateTo:     c.QueryPtr("date_to"),
	}, true
}
