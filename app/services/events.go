package services

import "github.com/shopspring/decimal"

// Events published on the bus after a write commits.
const (
	EventOrderPlaced     = "order.placed"
	EventCustomerChanged = "customer.changed"
	EventProductChanged  = "product.changed"
)

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	OrderID    uint
	CustomerID uint
	Date       string
	Total      decimal.Decimal
	Lines      int
}

// CatalogChanged is the payload of EventCustomerChanged and
// EventProductChanged. Action is one of audit.ActionCreate/Update/Delete.
type CatalogChanged struct {
	Action string
	ID     uint
	Name   string
}
