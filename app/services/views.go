package services

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/collection"
)

// LineView is an order line as presented to callers.
type LineView struct {
	ID          uint            `json:"id"`
	Kind        string          `json:"kind"`
	ProductID   *uint           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderSummary is an order with its customer name and lines.
type OrderSummary struct {
	ID           uint            `json:"id"`
	CustomerID   uint            `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Date         string          `json:"date"`
	Total        decimal.Decimal `json:"total"`
	Lines        []LineView      `json:"lines"`
}

func lineViewFromModel(l models.OrderLine) LineView {
	return LineView{
		ID:          l.ID,
		Kind:        l.Kind().String(),
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Subtotal:    l.Subtotal(),
	}
}

func lineViewFromRow(r repositories.OrderRow) LineView {
	return lineViewFromModel(models.OrderLine{
		ID:          r.LineID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	})
}

// groupRows folds fan-out join rows into one summary per order. Orders
// appear in row order; lines keep row order within their order.
func groupRows(rows []repositories.OrderRow) []OrderSummary {
	groups := collection.GroupOrdered(rows, func(r repositories.OrderRow) uint { return r.OrderID })

	return collection.Map(groups, func(g collection.Group[uint, repositories.OrderRow]) OrderSummary {
		head := g.Items[0]
		return OrderSummary{
			ID:           head.OrderID,
			CustomerID:   head.CustomerID,
			CustomerName: head.CustomerName,
			Date:         head.Date,
			Total:        head.Total,
			Lines:        collection.Map(g.Items, lineViewFromRow),
		}
	})
}
