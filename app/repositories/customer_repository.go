package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID looks up a customer by primary key.
func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (models.Customer, error) {
	var c models.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return c, err
}

// Search matches term against name and email, case-insensitively. An empty
// term lists everyone. Results are ordered by name.
func (r *CustomerRepository) Search(ctx context.Context, term string) ([]models.Customer, error) {
	q := r.db.WithContext(ctx).Model(&models.Customer{})
	if term = strings.TrimSpace(term); term != "" {
		like := likePattern(term)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var customers []models.Customer
	err := q.Order("name").Order("id").Find(&customers).Error
	return customers, err
}

// Create persists a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update writes every column of c, including NULLs. The row must exist.
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Model(c).Select("*").Omit("id").Updates(c).Error
}

// Delete removes a customer; the store cascades to its orders and lines.
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the number of customers.
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error
	return n, err
}

func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
