package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/collection"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/validate"
)

// DefaultCommitTimeout bounds PlaceOrder when no timeout is configured.
const DefaultCommitTimeout = 5 * time.Second

// Per-line and per-order bounds. Totals are stored as decimal(12,2).
const (
	MaxLineQuantity = 1_000_000
	MaxUnitPrice    = "99999999.99"
	MaxOrderTotal   = "9999999999.99"
)

// LineInput is one proposed order line. A line with a ProductID is a
// catalogue line and moves stock; without one it is a custom line.
// ProductName may be left empty on catalogue lines to snapshot the
// product's current name.
type LineInput struct {
	ProductID   *uint           `json:"product_id"`
	ProductName string          `json:"product_name" validate:"max=255"`
	Quantity    int             `json:"quantity"     validate:"required,gt=0,max=1000000"`
	UnitPrice   decimal.Decimal `json:"unit_price"   validate:"gt=0,max=99999999.99"`
}

// CatalogItem builds a catalogue-linked line.
func CatalogItem(productID uint, name string, qty int, price decimal.Decimal) LineInput {
	return LineInput{ProductID: &productID, ProductName: name, Quantity: qty, UnitPrice: price}
}

// CustomItem builds a line with no product and no stock effect.
func CustomItem(name string, qty int, price decimal.Decimal) LineInput {
	return LineInput{ProductName: name, Quantity: qty, UnitPrice: price}
}

// Kind reports whether the line is catalogue-linked.
func (l LineInput) Kind() models.LineKind {
	if l.ProductID != nil {
		return models.CatalogLine
	}
	return models.CustomLine
}

// PlaceOrderInput is a proposed order.
type PlaceOrderInput struct {
	CustomerID uint        `json:"customer_id" validate:"required"`
	Date       string      `json:"date"        validate:"required,date"`
	Lines      []LineInput `json:"lines"       validate:"required,dive"`
}

// OrderService places and reads orders.
type OrderService struct {
	db        *gorm.DB
	orders    *repositories.OrderRepository
	products  *repositories.ProductRepository
	customers *repositories.CustomerRepository
	events    *event.Bus
	timeout   time.Duration
}

// OrderOption configures an OrderService.
type OrderOption func(*OrderService)

// WithOrderEvents publishes EventOrderPlaced on bus after each commit.
func WithOrderEvents(bus *event.Bus) OrderOption {
	return func(s *OrderService) { s.events = bus }
}

// WithCommitTimeout bounds the placement transaction.
func WithCommitTimeout(d time.Duration) OrderOption {
	return func(s *OrderService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewOrderService(db *gorm.DB, opts ...OrderOption) *OrderService {
	s := &OrderService{
		db:        db,
		orders:    repositories.NewOrderRepository(db),
		products:  repositories.NewProductRepository(db),
		customers: repositories.NewCustomerRepository(db),
		timeout:   DefaultCommitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates in and commits the order, its lines and the stock
// decrements as one transaction. It returns the new order id, or one of
// ErrInvalidInput, ErrInsufficientStock, ErrTransactionFailed with nothing
// written. A reference that disappears mid-transaction is ErrInvalidInput.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (uint, error) {
	start := time.Now()
	log := logger.WithCtx(ctx)

	if err := checkOrderInput(in); err != nil {
		metrics.ObserveCommit("invalid_input", start)
		return 0, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var placed models.Order
	var lines []models.OrderLine

	err := s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		var err error
		placed, lines, err = s.placeInTx(txCtx, tx, in)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidInput):
		metrics.ObserveCommit("invalid_input", start)
		return 0, err
	case errors.Is(err, ErrInsufficientStock):
		metrics.ObserveCommit("insufficient_stock", start)
		log.Info("order rejected", "customer_id", in.CustomerID, "reason", err.Error())
		return 0, err
	case database.IsForeignKeyViolation(err):
		// The customer or a product was deleted after it was checked.
		metrics.ObserveCommit("invalid_input", start)
		log.Info("order rejected", "customer_id", in.CustomerID, "reason", err.Error())
		return 0, invalid("customer_id", "The customer or a product was removed while the order was being placed.")
	default:
		metrics.ObserveCommit("transaction_failed", start)
		log.Error("order transaction rolled back", "customer_id", in.CustomerID, "lines", len(in.Lines), "error", err)
		return 0, &TransactionError{Op: "place order", Err: err}
	}

	metrics.ObserveCommit("", start)
	log.Info("order placed", "order_id", placed.ID, "customer_id", placed.CustomerID, "total", placed.Total.StringFixed(2))

	s.events.Fire(ctx, EventOrderPlaced, OrderPlaced{
		OrderID:    placed.ID,
		CustomerID: placed.CustomerID,
		Date:       placed.Date,
		Total:      placed.Total,
		Lines:      len(lines),
	})

	return placed.ID, nil
}

// placeInTx does every read and write of PlaceOrder on tx.
func (s *OrderService) placeInTx(ctx context.Context, tx *gorm.DB, in PlaceOrderInput) (models.Order, []models.OrderLine, error) {
	products := s.products.WithTx(tx)
	orders := s.orders.WithTx(tx)

	var customers int64
	if err := tx.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", in.CustomerID).Count(&customers).Error; err != nil {
		return models.Order{}, nil, err
	}
	if customers == 0 {
		return models.Order{}, nil, invalid("customer_id", fmt.Sprintf("customer %d does not exist", in.CustomerID))
	}

	// Sum quantities per product, in first-seen order, so several lines
	// for one product are checked against its stock together.
	var productIDs []uint
	wanted := map[uint]int{}
	for i, l := range in.Lines {
		if l.Kind() != models.CatalogLine {
			continue
		}
		if _, seen := wanted[*l.ProductID]; !seen {
			productIDs = append(productIDs, *l.ProductID)
		}
		if l.Quantity > math.MaxInt32-wanted[*l.ProductID] {
			return models.Order{}, nil, invalid(fmt.Sprintf("lines.%d.quantity", i), "The combined quantity for one product is too large.")
		}
		wanted[*l.ProductID] += l.Quantity
	}

	catalog := map[uint]models.Product{}
	if len(productIDs) > 0 {
		var found []models.Product
		if err := tx.WithContext(ctx).Where("id IN ?", productIDs).Find(&found).Error; err != nil {
			return models.Order{}, nil, err
		}
		catalog = collection.KeyBy(found, func(p models.Product) uint { return p.ID })
	}

	for i, l := range in.Lines {
		if l.Kind() == models.CatalogLine {
			if _, ok := catalog[*l.ProductID]; !ok {
				return models.Order{}, nil, invalid(fmt.Sprintf("lines.%d.product_id", i), fmt.Sprintf("product %d does not exist", *l.ProductID))
			}
		}
	}

	for _, id := range productIDs {
		ok, err := products.DecrementStock(ctx, id, wanted[id])
		if err != nil {
			return models.Order{}, nil, err
		}
		if ok {
			continue
		}

		current, err := products.FindByID(ctx, id)
		if err != nil {
			return models.Order{}, nil, err
		}
		return models.Order{}, nil, &InsufficientStockError{
			ProductID:   id,
			ProductName: current.Name,
			Available:   current.Stock,
			Requested:   wanted[id],
		}
	}

	lines := make([]models.OrderLine, len(in.Lines))
	for i, l := range in.Lines {
		name := l.ProductName
		if name == "" && l.Kind() == models.CatalogLine {
			name = catalog[*l.ProductID].Name
		}
		lines[i] = models.OrderLine{
			ProductID:   l.ProductID,
			ProductName: name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}

	order := models.Order{
		CustomerID: in.CustomerID,
		Date:       in.Date,
		Total:      orderTotal(lines),
	}
	if err := orders.Create(ctx, &order, lines); err != nil {
		return models.Order{}, nil, err
	}

	return order, lines, nil
}

// Get returns one order with its lines.
func (s *OrderService) Get(ctx context.Context, id uint) (OrderSummary, error) {
	o, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderSummary{}, &NotFoundError{Entity: "order", ID: id}
	}
	if err != nil {
		return OrderSummary{}, fmt.Errorf("get order %d: %w", id, err)
	}

	lines, err := s.orders.Lines(ctx, id)
	if err != nil {
		return OrderSummary{}, fmt.Errorf("get order %d lines: %w", id, err)
	}

	detail := OrderSummary{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Date:       o.Date,
		Total:      o.Total,
		Lines:      collection.Map(lines, lineViewFromModel),
	}
	if o.Customer != nil {
		detail.CustomerName = o.Customer.Name
	}
	return detail, nil
}

// checkOrderInput enforces every rule that needs no store access.
func checkOrderInput(in PlaceOrderInput) error {
	errs := validate.Struct(in)
	for i, l := range in.Lines {
		if l.Kind() == models.CustomLine && l.ProductName == "" {
			errs[fmt.Sprintf("lines.%d.product_name", i)] = "A custom line needs a product name."
		}
		if !l.UnitPrice.Equal(l.UnitPrice.Round(2)) {
			errs[fmt.Sprintf("lines.%d.unit_price", i)] = "The unit_price may have at most 2 decimal places."
		}
	}
	if validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}

	total := collection.Reduce(in.Lines, decimal.Zero, func(sum decimal.Decimal, l LineInput) decimal.Decimal {
		return sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	})
	if total.GreaterThan(decimal.RequireFromString(MaxOrderTotal)) {
		return invalid("lines", "The order total must not be greater than "+MaxOrderTotal+".")
	}
	return nil
}

func orderTotal(lines []models.OrderLine) decimal.Decimal {
	return collection.Reduce(lines, decimal.Zero, func(sum decimal.Decimal, l models.OrderLine) decimal.Decimal {
		return sum.Add(l.Subtotal())
	})
}
