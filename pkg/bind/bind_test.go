package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/pkg/bind"
)

type productBody struct {
	Name  string `json:"name"  validate:"required"`
	Stock int    `json:"stock" validate:"gte=0"`
}

func TestJSON(t *testing.T) {
	var ok productBody
	errs, err := bind.JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Mouse","stock":3}`)), &ok)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, productBody{Name: "Mouse", Stock: 3}, ok)

	var bad productBody
	errs, err = bind.JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","stock":-1}`)), &bad)
	require.NoError(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "stock")

	_, err = bind.JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`)), &bad)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = bind.JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","colour":"red"}`)), &bad)
	assert.Error(t, err, "unknown fields are rejected")
}
