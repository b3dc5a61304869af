package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/orderdesk/app/models"
)

// OrderRow is one row of the orders ⋈ customers ⋈ order_lines join: the
// order header repeated for each of its lines.
type OrderRow struct {
	OrderID      uint
	CustomerID   uint
	CustomerName string
	Date         string
	Total        decimal.Decimal
	LineID       uint
	ProductID    *uint
	ProductName  string
	Quantity     int
	UnitPrice    decimal.Decimal
}

// OrderFilter narrows ReportRows. Nil fields impose no constraint; dates
// are inclusive YYYY-MM-DD bounds.
type OrderFilter struct {
	CustomerID *uint
	DateFrom   *string
	DateTo     *string
}

// MonthStats is the count and average total of orders since a date.
type MonthStats struct {
	Count int64
	Avg   decimal.NullDecimal
}

// OrderRepository handles database operations for Order and OrderLine.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create inserts the order and then its lines. Callers run it inside a
// transaction together with the stock updates.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order, lines []models.OrderLine) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(o).Error; err != nil {
		return err
	}

	for i := range lines {
		lines[i].OrderID = o.ID
	}
	return db.Omit(clause.Associations).Create(&lines).Error
}

// FindByID loads an order with its customer.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Preload("Customer").First(&o, id).Error
	return o, err
}

// Lines returns the lines of an order in insertion order.
func (r *OrderRepository) Lines(ctx context.Context, orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&lines).Error
	return lines, err
}

// ReportRows returns the joined rows matching f, sorted by date desc, then
// order id desc, then line id.
func (r *OrderRepository) ReportRows(ctx context.Context, f OrderFilter) ([]OrderRow, error) {
	q := r.joined(ctx)
	if f.CustomerID != nil {
		q = q.Where("c.id = ?", *f.CustomerID)
	}
	if f.DateFrom != nil {
		q = q.Where("o.date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("o.date <= ?", *f.DateTo)
	}

	var rows []OrderRow
	err := q.Order("o.date DESC").Order("o.id DESC").Order("l.id ASC").Scan(&rows).Error
	return rows, err
}

// RecentIDs returns the ids of the newest limit orders, newest first.
func (r *OrderRepository) RecentIDs(ctx context.Context, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Order("id DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// RowsForOrders returns the joined rows of the given orders, sorted by
// order id desc, then line id.
func (r *OrderRepository) RowsForOrders(ctx context.Context, ids []uint) ([]OrderRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []OrderRow
	err := r.joined(ctx).
		Where("o.id IN ?", ids).
		Order("o.id DESC").Order("l.id ASC").
		Scan(&rows).Error
	return rows, err
}

// StatsSince counts and averages orders dated on or after from.
func (r *OrderRepository) StatsSince(ctx context.Context, from string) (MonthStats, error) {
	var s MonthStats
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(id) AS count, AVG(total) AS avg").
		Where("date >= ?", from).
		Scan(&s).Error
	return s, err
}

func (r *OrderRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id AS order_id, o.customer_id AS customer_id, c.name AS customer_name,
			o.date AS date, o.total AS total, l.id AS line_id, l.product_id AS product_id,
			l.product_name AS product_name, l.quantity AS quantity, l.unit_price AS unit_price`).
		Joins("JOIN customers AS c ON c.id = o.customer_id").
		Joins("JOIN order_lines AS l ON l.order_id = o.id")
}
