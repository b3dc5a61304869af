package services_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/internal/testdb"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

type fixture struct {
	db        *gorm.DB
	orders    *services.OrderService
	reports   *services.ReportService
	customers *services.CustomerService
	products  *services.ProductService
}

func newFixture(t *testing.T, opts ...services.OrderOption) fixture {
	t.Helper()
	db := testdb.New(t)
	return fixture{
		db:        db,
		orders:    services.NewOrderService(db, opts...),
		reports:   services.NewReportService(db),
		customers: services.NewCustomerService(db, nil),
		products:  services.NewProductService(db, nil),
	}
}

func (f fixture) customer(t *testing.T, name string) models.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), services.CustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f fixture) product(t *testing.T, name, price string, stock int) models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), services.ProductInput{Name: name, Price: dec(price), Stock: stock})
	require.NoError(t, err)
	return p
}

func (f fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f fixture) place(t *testing.T, customerID uint, date string, lines ...services.LineInput) uint {
	t.Helper()
	id, err := f.orders.PlaceOrder(context.Background(), services.PlaceOrderInput{CustomerID: customerID, Date: date, Lines: lines})
	require.NoError(t, err)
	return id
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
