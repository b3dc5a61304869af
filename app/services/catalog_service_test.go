package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
)

func TestCustomer_CreateNormalisesBlankContact(t *testing.T) {
	f := newFixture(t)
	c, err := f.customers.Create(context.Background(), services.CustomerInput{
		Name:  "  Ana  ",
		Email: strPtr(" "),
		Phone: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Nil(t, c.Email)
	assert.Nil(t, c.Phone)

	// Two customers without email do not collide on the unique index.
	_, err = f.customers.Create(context.Background(), services.CustomerInput{Name: "Bruno"})
	require.NoError(t, err)
}

func TestCustomer_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.customers.Create(context.Background(), services.CustomerInput{
		Name:  "",
		Email: strPtr("nope"),
		Phone: strPtr("123"),
	})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "phone")
}

func TestCustomer_DuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.customers.Create(ctx, services.CustomerInput{Name: "Ana", Email: strPtr("ana@example.com")})
	require.NoError(t, err)
	bruno, err := f.customers.Create(ctx, services.CustomerInput{Name: "Bruno", Email: strPtr("bruno@example.com")})
	require.NoError(t, err)

	_, err = f.customers.Create(ctx, services.CustomerInput{Name: "Other Ana", Email: strPtr("ana@example.com")})
	require.ErrorIs(t, err, services.ErrIntegrityConflict)
	var conflict *services.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "email", conflict.Field)

	_, err = f.customers.Update(ctx, bruno.ID, services.CustomerInput{Name: "Bruno", Email: strPtr("ana@example.com")})
	require.ErrorIs(t, err, services.ErrIntegrityConflict)

	got, err := f.customers.Get(ctx, bruno.ID)
	require.NoError(t, err)
	assert.Equal(t, "bruno@example.com", *got.Email)
}

func TestCustomer_UpdateClearsEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.customers.Create(ctx, services.CustomerInput{Name: "Ana", Email: strPtr("ana@example.com")})
	require.NoError(t, err)

	_, err = f.customers.Update(ctx, c.ID, services.CustomerInput{Name: "Ana Souza"})
	require.NoError(t, err)

	got, err := f.customers.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", got.Name)
	assert.Nil(t, got.Email)

	_, err = f.customers.Update(ctx, 999, services.CustomerInput{Name: "x"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCustomer_SearchByNameOrEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, in := range []services.CustomerInput{
		{Name: "Carla", Email: strPtr("carla@shop.test")},
		{Name: "ana souza"},
		{Name: "Bruno", Email: strPtr("bruno@ANA.test")},
	} {
		_, err := f.customers.Create(ctx, in)
		require.NoError(t, err)
	}

	found, err := f.customers.List(ctx, "ANA")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Bruno", found[0].Name)
	assert.Equal(t, "ana souza", found[1].Name)

	all, err := f.customers.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCustomer_DeleteCascadesToOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.customer(t, "Ana")
	bruno := f.customer(t, "Bruno")

	f.place(t, ana.ID, "2024-03-01", services.CustomItem("a", 1, dec("1")), services.CustomItem("b", 1, dec("1")))
	kept := f.place(t, bruno.ID, "2024-03-01", services.CustomItem("c", 1, dec("1")))

	require.NoError(t, f.customers.Delete(ctx, ana.ID))

	assert.EqualValues(t, 1, count(t, f.db, &models.Order{}))
	assert.EqualValues(t, 1, count(t, f.db, &models.OrderLine{}))
	_, err := f.orders.Get(ctx, kept)
	require.NoError(t, err)

	assert.ErrorIs(t, f.customers.Delete(ctx, ana.ID), services.ErrNotFound)
}

func TestProduct_DeleteKeepsLineSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.customer(t, "Ana")
	mouse := f.product(t, "Mouse", "10.00", 5)

	id := f.place(t, ana.ID, "2024-03-01", services.CatalogItem(mouse.ID, "", 1, dec("10.00")))

	_, err := f.products.Update(ctx, mouse.ID, services.ProductInput{Name: "Wireless Mouse", Price: dec("12.00"), Stock: 4})
	require.NoError(t, err)

	order, err := f.orders.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mouse", order.Lines[0].ProductName, "renames do not touch old lines")

	require.NoError(t, f.products.Delete(ctx, mouse.ID))

	order, err = f.orders.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Nil(t, order.Lines[0].ProductID)
	assert.Equal(t, "Mouse", order.Lines[0].ProductName)
	assert.Equal(t, "custom", order.Lines[0].Kind)
	assert.True(t, dec("10").Equal(order.Total))
}

func TestProduct_ValidationAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, services.ProductInput{Name: "Free", Price: dec("0"), Stock: 1})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = f.products.Create(ctx, services.ProductInput{Name: "Neg", Price: dec("1"), Stock: -1})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = f.products.Create(ctx, services.ProductInput{Name: "Fine", Price: dec("1.999"), Stock: 1})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	f.product(t, "Mouse", "10.00", 5)
	_, err = f.products.Create(ctx, services.ProductInput{Name: "Mouse", Price: dec("11.00"), Stock: 1})
	require.ErrorIs(t, err, services.ErrIntegrityConflict)

	list, err := f.products.List(ctx, "mou")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Stock)
}

func TestCatalog_PublishesChanges(t *testing.T) {
	f := newFixture(t)
	bus := event.New()
	var actions []string
	bus.Listen(services.EventProductChanged, func(_ context.Context, payload any) {
		actions = append(actions, payload.(services.CatalogChanged).Action)
	})
	products := services.NewProductService(f.db, bus)
	ctx := context.Background()

	p, err := products.Create(ctx, services.ProductInput{Name: "Pad", Price: dec("5"), Stock: 1})
	require.NoError(t, err)
	_, err = products.Update(ctx, p.ID, services.ProductInput{Name: "Pad", Price: dec("6"), Stock: 1})
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, p.ID))

	_, err = products.Create(ctx, services.ProductInput{Name: "", Price: dec("5")})
	require.Error(t, err)

	assert.Equal(t, []string{"CREATE", "UPDATE", "DELETE"}, actions)
}
