package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, err
}

// Search matches term against the product name, case-insensitively.
func (r *ProductRepository) Search(ctx context.Context, term string) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if term = strings.TrimSpace(term); term != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(term))
	}

	var products []models.Product
	err := q.Order("name").Order("id").Find(&products).Error
	return products, err
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update writes every column of p. The row must exist.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Model(p).Select("*").Omit("id").Updates(p).Error
}

// Delete removes a product; order lines that referenced it keep their
// name snapshot and get a NULL product_id.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock subtracts qty only if at least qty is in stock, as a single
// statement. It reports whether the row was updated. qty must be positive.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("decrement stock of product %d: quantity %d is not positive", id, qty)
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
