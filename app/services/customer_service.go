package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/audit"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/validate"
)

// CustomerInput is the writable part of a customer. Empty email and phone
// are stored as NULL.
type CustomerInput struct {
	Name  string  `json:"name"  validate:"required,max=255"`
	Email *string `json:"email" validate:"nullable,email,max=255"`
	Phone *string `json:"phone" validate:"nullable,phone,max=50"`
}

// CustomerService manages customers.
type CustomerService struct {
	repo   *repositories.CustomerRepository
	events *event.Bus
}

func NewCustomerService(db *gorm.DB, bus *event.Bus) *CustomerService {
	return &CustomerService{repo: repositories.NewCustomerRepository(db), events: bus}
}

// List returns customers whose name or email contains term, ordered by name.
func (s *CustomerService) List(ctx context.Context, term string) ([]models.Customer, error) {
	customers, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// Get returns one customer.
func (s *CustomerService) Get(ctx context.Context, id uint) (models.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Customer{}, &NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

// Create validates in and stores a new customer.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (models.Customer, error) {
	in = in.normalized()
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Customer{}, &ValidationError{Fields: errs}
	}

	c := models.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := s.repo.Create(ctx, &c); err != nil {
		return models.Customer{}, s.writeError(ctx, "create customer", in, err)
	}

	s.events.Fire(ctx, EventCustomerChanged, CatalogChanged{Action: audit.ActionCreate, ID: c.ID, Name: c.Name})
	return c, nil
}

// Update replaces every writable field of customer id.
func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (models.Customer, error) {
	in = in.normalized()
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Customer{}, &ValidationError{Fields: errs}
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}

	c.Name, c.Email, c.Phone = in.Name, in.Email, in.Phone
	if err := s.repo.Update(ctx, &c); err != nil {
		return models.Customer{}, s.writeError(ctx, "update customer", in, err)
	}

	s.events.Fire(ctx, EventCustomerChanged, CatalogChanged{Action: audit.ActionUpdate, ID: c.ID, Name: c.Name})
	return c, nil
}

// Delete removes customer id together with its orders and their lines.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		logger.WithCtx(ctx).Error("customer delete failed", "customer_id", id, "error", err)
		return &TransactionError{Op: "delete customer", Err: err}
	}

	s.events.Fire(ctx, EventCustomerChanged, CatalogChanged{Action: audit.ActionDelete, ID: c.ID, Name: c.Name})
	return nil
}

func (s *CustomerService) writeError(ctx context.Context, op string, in CustomerInput, err error) error {
	if database.IsUniqueViolation(err) {
		value := ""
		if in.Email != nil {
			value = *in.Email
		}
		return &ConflictError{Entity: "customer", Field: "email", Value: value}
	}
	logger.WithCtx(ctx).Error(op+" failed", "error", err)
	return &TransactionError{Op: op, Err: err}
}

func (in CustomerInput) normalized() CustomerInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = blankToNil(in.Email)
	in.Phone = blankToNil(in.Phone)
	return in
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
