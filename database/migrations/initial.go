package migrations

import (
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20240301000000_create_customers_table", &CreateCustomersTable{})
	migration.Register("20240301000001_create_products_table", &CreateProductsTable{})
	migration.Register("20240301000002_create_orders_table", &CreateOrdersTable{})
	migration.Register("20240301000003_create_order_lines_table", &CreateOrderLinesTable{})
}

// -------- 0001: customers --------

type CreateCustomersTable struct{}

func (m *CreateCustomersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Customer{})
}

func (m *CreateCustomersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Customer{})
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

// -------- 0003: orders (customer_id ON DELETE CASCADE) --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Order{})
}

// -------- 0004: order_lines (order_id CASCADE, product_id SET NULL) --------

type CreateOrderLinesTable struct{}

func (m *CreateOrderLinesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderLine{})
}

func (m *CreateOrderLinesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderLine{})
}
