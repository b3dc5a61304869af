package models

import "github.com/shopspring/decimal"

// DateLayout is the stored format of Order.Date.
const DateLayout = "2006-01-02"

// Order is written once, together with its lines, and never updated.
type Order struct {
	ID         uint            `gorm:"primaryKey"                  json:"id"`
	CustomerID uint            `gorm:"not null;index"              json:"customer_id"`
	Customer   *Customer       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date       string          `gorm:"size:10;not null;index"      json:"date"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}

// LineKind distinguishes catalogue-linked lines from ad-hoc ones.
type LineKind int

const (
	// CatalogLine references a product and moves its stock.
	CatalogLine LineKind = iota + 1
	// CustomLine has no product and no stock effect.
	CustomLine
)

func (k LineKind) String() string {
	switch k {
	case CatalogLine:
		return "catalog"
	case CustomLine:
		return "custom"
	default:
		return "unknown"
	}
}

// OrderLine keeps ProductName as a snapshot taken at order time, so the line
// stays readable after the product is renamed or deleted (ProductID then
// becomes NULL).
type OrderLine struct {
	ID          uint            `gorm:"primaryKey"                   json:"id"`
	OrderID     uint            `gorm:"not null;index"               json:"order_id"`
	Order       *Order          `gorm:"constraint:OnDelete:CASCADE"  json:"-"`
	ProductID   *uint           `gorm:"index"                        json:"product_id"`
	Product     *Product        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ProductName string          `gorm:"size:255;not null"            json:"product_name"`
	Quantity    int             `gorm:"not null"                     json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"unit_price"`
}

// Kind reports whether the line is catalogue-linked.
func (l OrderLine) Kind() LineKind {
	if l.ProductID != nil {
		return CatalogLine
	}
	return CustomLine
}

// Subtotal is Quantity × UnitPrice.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
