// Package graphql exposes the read-side reports as a GraphQL schema:
// dashboard, recentOrders, orders and order.
package graphql

import (
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/orderdesk/app/services"
	pkggraphql "github.com/shashiranjanraj/orderdesk/pkg/graphql"
)

// money resolves a decimal field as a fixed two-place string.
func money(get func(any) decimal.Decimal) gql.FieldResolveFn {
	return func(p gql.ResolveParams) (any, error) {
		return get(p.Source).StringFixed(2), nil
	}
}

var lineType = gql.NewObject(gql.ObjectConfig{
	Name: "OrderLine",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"kind":        &gql.Field{Type: gql.NewNonNull(gql.String)},
		"productId": &gql.Field{Type: gql.Int, Resolve: func(p gql.ResolveParams) (any, error) {
			if id := p.Source.(services.LineView).ProductID; id != nil {
				return int(*id), nil
			}
			return nil, nil
		}},
		"productName": &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: func(p gql.ResolveParams) (any, error) { return p.Source.(services.LineView).ProductName, nil }},
		"quantity":    &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"unitPrice":   &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: money(func(s any) decimal.Decimal { return s.(services.LineView).UnitPrice })},
		"subtotal":    &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: money(func(s any) decimal.Decimal { return s.(services.LineView).Subtotal })},
	},
})

var orderType = gql.NewObject(gql.ObjectConfig{
	Name: "Order",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"customerId":   &gql.Field{Type: gql.NewNonNull(gql.Int), Resolve: func(p gql.ResolveParams) (any, error) { return p.Source.(services.OrderSummary).CustomerID, nil }},
		"customerName": &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: func(p gql.ResolveParams) (any, error) { return p.Source.(services.OrderSummary).CustomerName, nil }},
		"date":         &gql.Field{Type: gql.NewNonNull(gql.String)},
		"total":        &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: money(func(s any) decimal.Decimal { return s.(services.OrderSummary).Total })},
		"lines":        &gql.Field{Type: gql.NewList(lineType)},
	},
})

var dashboardType = gql.NewObject(gql.ObjectConfig{
	Name: "Dashboard",
	Fields: gql.Fields{
		"customerCount":   &gql.Field{Type: gql.NewNonNull(gql.Int), Resolve: func(p gql.ResolveParams) (any, error) { return p.Source.(services.DashboardMetrics).CustomerCount, nil }},
		"monthOrderCount": &gql.Field{Type: gql.NewNonNull(gql.Int), Resolve: func(p gql.ResolveParams) (any, error) { return p.Source.(services.DashboardMetrics).MonthOrderCount, nil }},
		"monthAvgTotal":   &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: money(func(s any) decimal.Decimal { return s.(services.DashboardMetrics).MonthAvgTotal })},
		"monthStart":      &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: func(p gql.ResolveParams) (any, error) { return p.Source.(services.DashboardMetrics).MonthStart, nil }},
	},
})

// NewSchema builds the schema over the given services. now supplies the
// dashboard's reference time.
func NewSchema(reports *services.ReportService, orders *services.OrderService, now func() time.Time) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"dashboard": &gql.Field{
				Type: gql.NewNonNull(dashboardType),
				Resolve: func(p gql.ResolveParams) (any, error) {
					return reports.DashboardMetrics(p.Context, now())
				},
			},
			"recentOrders": &gql.Field{
				Type: gql.NewList(orderType),
				Args: gql.FieldConfigArgument{
					"limit": &gql.ArgumentConfig{Type: gql.Int, DefaultValue: services.DefaultRecentLimit},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					limit, _ := p.Args["limit"].(int)
					return reports.RecentOrders(p.Context, limit)
				},
			},
			"orders": &gql.Field{
				Type: gql.NewList(orderType),
				Args: gql.FieldConfigArgument{
					"customerId": &gql.ArgumentConfig{Type: gql.Int},
					"dateFrom":   &gql.ArgumentConfig{Type: gql.String},
					"dateTo":     &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					var f services.ReportFilter
					if id, ok := p.Args["customerId"].(int); ok && id > 0 {
						u := uint(id)
						f.CustomerID = &u
					}
					if s, ok := p.Args["dateFrom"].(string); ok {
						f.DateFrom = &s
					}
					if s, ok := p.Args["dateTo"].(string); ok {
						f.DateTo = &s
					}
					return reports.FilteredOrders(p.Context, f)
				},
			},
			"order": &gql.Field{
				Type: orderType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					return orders.Get(p.Context, uint(id))
				},
			},
		},
	})
	return pkggraphql.NewSchema(query)
}
