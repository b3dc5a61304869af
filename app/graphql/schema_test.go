package graphql_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appgraphql "github.com/shashiranjanraj/orderdesk/app/graphql"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/internal/testdb"
	pkggraphql "github.com/shashiranjanraj/orderdesk/pkg/graphql"
)

func TestSchema_ReportsOverHTTP(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	customers := services.NewCustomerService(db, nil)
	products := services.NewProductService(db, nil)
	orders := services.NewOrderService(db)
	reports := services.NewReportService(db)

	ana, err := customers.Create(ctx, services.CustomerInput{Name: "Ana"})
	require.NoError(t, err)
	mouse, err := products.Create(ctx, services.ProductInput{Name: "Mouse", Price: decimal.RequireFromString("10.00"), Stock: 5})
	require.NoError(t, err)
	id, err := orders.PlaceOrder(ctx, services.PlaceOrderInput{
		CustomerID: ana.ID,
		Date:       "2024-03-01",
		Lines:      []services.LineInput{services.CatalogItem(mouse.ID, "", 3, decimal.RequireFromString("10.00"))},
	})
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }
	schema, err := appgraphql.NewSchema(reports, orders, now)
	require.NoError(t, err)
	srv := httptest.NewServer(pkggraphql.Handler(schema))
	defer srv.Close()

	post := func(body string) string {
		resp, err := http.Post(srv.URL, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		buf := new(strings.Builder)
		_, err = io.Copy(buf, resp.Body)
		require.NoError(t, err)
		return buf.String()
	}

	out := post(`{"query":"{ dashboard { customerCount monthOrderCount monthAvgTotal monthStart } }"}`)
	assert.JSONEq(t, `{"data":{"dashboard":{"customerCount":1,"monthOrderCount":1,"monthAvgTotal":"30.00","monthStart":"2024-03-01"}}}`, out)

	out = post(`{"query":"{ recentOrders(limit: 1) { id customerName total lines { kind productId productName quantity unitPrice subtotal } } }"}`)
	assert.JSONEq(t, `{"data":{"recentOrders":[{"id":`+itoa(id)+`,"customerName":"Ana","total":"30.00","lines":[{"kind":"catalog","productId":`+itoa(mouse.ID)+`,"productName":"Mouse","quantity":3,"unitPrice":"10.00","subtotal":"30.00"}]}]}}`, out)

	out = post(`{"query":"query($c: Int) { orders(customerId: $c, dateFrom: \"2024-04-01\") { id } }","variables":{"c":` + itoa(ana.ID) + `}}`)
	assert.JSONEq(t, `{"data":{"orders":[]}}`, out)

	out = post(`{"query":"{ order(id: 999) { id } }"}`)
	assert.Contains(t, out, `"errors"`)
	assert.Contains(t, out, "order 999 not found")
}

func TestHandler_RejectsBadRequests(t *testing.T) {
	schema, err := appgraphql.NewSchema(nil, nil, time.Now)
	require.NoError(t, err)
	h := pkggraphql.Handler(schema)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }
