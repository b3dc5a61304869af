package models

import "github.com/shopspring/decimal"

// Product is a catalogue entry. Stock never goes negative: it is only
// decremented through a conditional update inside order placement.
type Product struct {
	ID    uint            `gorm:"primaryKey"                  json:"id"`
	Name  string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock int             `gorm:"not null;default:0"          json:"stock"`
}
