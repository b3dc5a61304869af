package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/orderdesk/app/models"
)

func init() {
	Register("customers", SeedCustomers)
	Register("products", SeedProducts)
}

func strPtr(s string) *string { return &s }

// SeedCustomers inserts demo customers, skipping emails that already exist.
func SeedCustomers(db *gorm.DB) error {
	customers := []models.Customer{
		{Name: "Ana Souza", Email: strPtr("ana.souza@example.com"), Phone: strPtr("11987654321")},
		{Name: "Bruno Lima", Email: strPtr("bruno.lima@example.com"), Phone: strPtr("21998765432")},
		{Name: "Carla Mendes", Email: strPtr("carla.mendes@example.com")},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&customers).Error
}

// SeedProducts inserts demo products, skipping names that already exist.
func SeedProducts(db *gorm.DB) error {
	products := []models.Product{
		{Name: "Notebook", Price: decimal.RequireFromString("3499.90"), Stock: 10},
		{Name: "Mouse", Price: decimal.RequireFromString("89.90"), Stock: 50},
		{Name: "Keyboard", Price: decimal.RequireFromString("199.00"), Stock: 30},
		{Name: "Monitor 27\"", Price: decimal.RequireFromString("1599.00"), Stock: 8},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}
