package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/audit"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/validate"
)

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name  string          `json:"name"  validate:"required,max=255"`
	Price decimal.Decimal `json:"price" validate:"gt=0,max=9999999999.99"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// ProductService manages the product catalogue.
type ProductService struct {
	repo   *repositories.ProductRepository
	events *event.Bus
}

func NewProductService(db *gorm.DB, bus *event.Bus) *ProductService {
	return &ProductService{repo: repositories.NewProductRepository(db), events: bus}
}

// List returns products whose name contains term, ordered by name.
func (s *ProductService) List(ctx context.Context, term string) ([]models.Product, error) {
	products, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, &NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// Create validates in and stores a new product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := checkProduct(in); err != nil {
		return models.Product{}, err
	}

	p := models.Product{Name: in.Name, Price: in.Price, Stock: in.Stock}
	if err := s.repo.Create(ctx, &p); err != nil {
		return models.Product{}, s.writeError(ctx, "create product", in, err)
	}

	s.events.Fire(ctx, EventProductChanged, CatalogChanged{Action: audit.ActionCreate, ID: p.ID, Name: p.Name})
	return p, nil
}

// Update replaces name, price and stock of product id. Existing order
// lines keep the name they were placed with.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := checkProduct(in); err != nil {
		return models.Product{}, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	p.Name, p.Price, p.Stock = in.Name, in.Price, in.Stock
	if err := s.repo.Update(ctx, &p); err != nil {
		return models.Product{}, s.writeError(ctx, "update product", in, err)
	}

	s.events.Fire(ctx, EventProductChanged, CatalogChanged{Action: audit.ActionUpdate, ID: p.ID, Name: p.Name})
	return p, nil
}

// Delete removes product id. Order lines that referenced it stay, with a
// NULL product reference and their name snapshot.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		logger.WithCtx(ctx).Error("product delete failed", "product_id", id, "error", err)
		return &TransactionError{Op: "delete product", Err: err}
	}

	s.events.Fire(ctx, EventProductChanged, CatalogChanged{Action: audit.ActionDelete, ID: p.ID, Name: p.Name})
	return nil
}

func (s *ProductService) writeError(ctx context.Context, op string, in ProductInput, err error) error {
	if database.IsUniqueViolation(err) {
		return &ConflictError{Entity: "product", Field: "name", Value: in.Name}
	}
	logger.WithCtx(ctx).Error(op+" failed", "error", err)
	return &TransactionError{Op: op, Err: err}
}

func checkProduct(in ProductInput) error {
	errs := validate.Struct(in)
	if _, bad := errs["price"]; !bad && !in.Price.Equal(in.Price.Round(2)) {
		errs["price"] = "The price may have at most 2 decimal places."
	}
	if validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}
