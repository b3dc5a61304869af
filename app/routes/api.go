package routes

import (
	"github.com/shashiranjanraj/orderdesk/app/controllers"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/router"
)

// Controllers are the handlers mounted under /api.
type Controllers struct {
	Customers *controllers.CustomerController
	Products  *controllers.ProductController
	Orders    *controllers.OrderController
	Reports   *controllers.ReportController
	History   *controllers.HistoryController
}

func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	api.Get("/dashboard", "dashboard", ctx.Wrap(c.Reports.Dashboard))

	customers := api.Group("/customers")
	customers.Get("/", "customers.index", ctx.Wrap(c.Customers.Index))
	customers.Post("/", "customers.store", ctx.Wrap(c.Customers.Store))
	customers.Get("/{id}", "customers.show", ctx.Wrap(c.Customers.Show))
	customers.Put("/{id}", "customers.update", ctx.Wrap(c.Customers.Update))
	customers.Delete("/{id}", "customers.destroy", ctx.Wrap(c.Customers.Destroy))

	products := api.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(c.Products.Index))
	products.Post("/", "products.store", ctx.Wrap(c.Products.Store))
	products.Get("/{id}", "products.show", ctx.Wrap(c.Products.Show))
	products.Put("/{id}", "products.update", ctx.Wrap(c.Products.Update))
	products.Delete("/{id}", "products.destroy", ctx.Wrap(c.Products.Destroy))

	orders := api.Group("/orders")
	orders.Get("/", "orders.index", ctx.Wrap(c.Orders.Index))
	orders.Post("/", "orders.store", ctx.Wrap(c.Orders.Store))
	orders.Get("/recent", "orders.recent", ctx.Wrap(c.Orders.Recent))
	orders.Get("/{id}", "orders.show", ctx.Wrap(c.Orders.Show))

	reports := api.Group("/reports")
	reports.Get("/orders.csv", "reports.orders.csv", ctx.Wrap(c.Reports.Download))
	reports.Get("/orders.pdf", "reports.orders.pdf", ctx.Wrap(c.Reports.DownloadPDF))
	reports.Post("/orders/export", "reports.orders.export", ctx.Wrap(c.Reports.Export))
	reports.Get("/analysis", "reports.analysis", ctx.Wrap(c.Reports.Analysis))

	api.Get("/history", "history.index", ctx.Wrap(c.History.Index))
	api.Delete("/history", "history.clear", ctx.Wrap(c.History.Clear))
}
