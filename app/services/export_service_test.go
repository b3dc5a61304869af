package services_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/storage"
)

func TestExport_WriteCSV(t *testing.T) {
	f := newFixture(t)
	ana := f.customer(t, "Ana; Souza")
	mouse := f.product(t, "Mouse", "10.00", 5)

	id := f.place(t, ana.ID, "2024-03-01",
		services.CatalogItem(mouse.ID, "", 3, dec("10")),
		services.CustomItem("Cable", 1, dec("2.5")),
	)
	order, err := f.orders.Get(context.Background(), id)
	require.NoError(t, err)

	var buf bytes.Buffer
	orders, lines, err := services.NewExportService(f.reports, nil).WriteCSV(context.Background(), &buf, services.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, orders)
	assert.Equal(t, 2, lines)

	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "Order ID;Customer;Order Date;Order Total;Item ID;Product;Quantity;Unit Price", rows[0])
	assert.Equal(t, strings.Join([]string{
		itoa(id), `"Ana; Souza"`, "2024-03-01", "32.50", itoa(order.Lines[0].ID), "Mouse", "3", "10.00",
	}, ";"), rows[1])
	assert.True(t, strings.HasSuffix(rows[2], ";Cable;1;2.50"), rows[2])
}

func TestExport_StoresOnDisk(t *testing.T) {
	f := newFixture(t)
	ana := f.customer(t, "Ana")
	f.place(t, ana.ID, "2024-03-01", services.CustomItem("Cable", 1, dec("2.50")))

	disks, err := storage.New(storage.Config{LocalRoot: t.TempDir(), LocalURL: "http://localhost:8080/exports"})
	require.NoError(t, err)

	out, err := services.NewExportService(f.reports, disks).Export(context.Background(), services.ReportFilter{}, services.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "local", out.Disk)
	assert.Equal(t, services.FormatCSV, out.Format)
	assert.Regexp(t, `^reports/orders-\d{8}-\d{6}-[0-9a-f-]{36}\.csv$`, out.Path)
	assert.Equal(t, "http://localhost:8080/exports/"+out.Path, out.URL)
	assert.Equal(t, 1, out.Orders)

	rc, err := disks.Default().Open(context.Background(), out.Path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(data), ";Cable;1;2.50")
}

func TestExport_RejectsBadFilter(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	_, _, err := services.NewExportService(f.reports, nil).WriteCSV(context.Background(), &buf, services.ReportFilter{DateTo: strPtr("tomorrow")})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	assert.Zero(t, buf.Len())
}

func TestExport_WritePDF(t *testing.T) {
	f := newFixture(t)
	ana := f.customer(t, "Ana Lúcia")
	f.place(t, ana.ID, "2024-03-01",
		services.CustomItem("Cable", 1, dec("2.50")),
		services.CustomItem("Café", 2, dec("4.00")),
	)

	var buf bytes.Buffer
	orders, lines, err := services.NewExportService(f.reports, nil).WritePDF(context.Background(), &buf, services.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, orders)
	assert.Equal(t, 2, lines)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestExport_WritePDFWithoutOrders(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	orders, lines, err := services.NewExportService(f.reports, nil).WritePDF(context.Background(), &buf, services.ReportFilter{})
	require.NoError(t, err)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExport_StoresPDFOnDisk(t *testing.T) {
	f := newFixture(t)
	ana := f.customer(t, "Ana")
	f.place(t, ana.ID, "2024-03-01", services.CustomItem("Cable", 1, dec("2.50")))

	disks, err := storage.New(storage.Config{LocalRoot: t.TempDir(), LocalURL: "http://localhost:8080/exports"})
	require.NoError(t, err)

	out, err := services.NewExportService(f.reports, disks).Export(context.Background(), services.ReportFilter{}, services.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, services.FormatPDF, out.Format)
	assert.Regexp(t, `\.pdf$`, out.Path)
	assert.Equal(t, 1, out.Lines)

	rc, err := disks.Default().Open(context.Background(), out.Path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]services.Format{"": services.FormatCSV, "csv": services.FormatCSV, " PDF ": services.FormatPDF} {
		got, err := services.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := services.ParseFormat("xlsx")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}
