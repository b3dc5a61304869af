package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/storage"
)

// ExportHeader is the first row of every order report.
var ExportHeader = []string{
	"Order ID", "Customer", "Order Date", "Order Total",
	"Item ID", "Product", "Quantity", "Unit Price",
}

// Format selects the report renderer.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat maps "" to FormatCSV and rejects anything but csv and pdf.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", invalid("format", "The format must be csv or pdf.")
}

// Export describes a written report.
type Export struct {
	Format Format `json:"format"`
	Disk   string `json:"disk"`
	Path   string `json:"path"`
	URL    string `json:"url"`
	Orders int    `json:"orders"`
	Lines  int    `json:"lines"`
}

// ExportService renders filtered orders as CSV or PDF.
type ExportService struct {
	reports  *ReportService
	disks    *storage.Manager
	diskName string
	now      func() time.Time
}

// NewExportService writes to the default disk of disks. disks may be nil
// when only WriteCSV is used.
func NewExportService(reports *ReportService, disks *storage.Manager) *ExportService {
	s := &ExportService{reports: reports, disks: disks, now: time.Now}
	if disks != nil {
		s.diskName = disks.DefaultName()
	}
	return s
}

// WriteCSV writes the orders matching f to w, one row per line item,
// separated by ';'.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, f ReportFilter) (orders, lines int, err error) {
	summaries, err := s.reports.FilteredOrders(ctx, f)
	if err != nil {
		return 0, 0, err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(ExportHeader); err != nil {
		return 0, 0, fmt.Errorf("export: header: %w", err)
	}

	for _, o := range summaries {
		for _, l := range o.Lines {
			row := []string{
				strconv.FormatUint(uint64(o.ID), 10),
				o.CustomerName,
				o.Date,
				o.Total.StringFixed(2),
				strconv.FormatUint(uint64(l.ID), 10),
				l.ProductName,
				strconv.Itoa(l.Quantity),
				l.UnitPrice.StringFixed(2),
			}
			if err := cw.Write(row); err != nil {
				return 0, 0, fmt.Errorf("export: order %d: %w", o.ID, err)
			}
			lines++
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, 0, fmt.Errorf("export: flush: %w", err)
	}
	return len(summaries), lines, nil
}

// Export writes the report to the storage disk under reports/.
func (s *ExportService) Export(ctx context.Context, f ReportFilter, format Format) (Export, error) {
	if s.disks == nil {
		return Export{}, fmt.Errorf("export: no storage configured")
	}

	render := s.WriteCSV
	switch format {
	case FormatCSV:
	case FormatPDF:
		render = s.WritePDF
	default:
		return Export{}, invalid("format", "The format must be csv or pdf.")
	}

	var buf bytes.Buffer
	orders, lines, err := render(ctx, &buf, f)
	if err != nil {
		return Export{}, err
	}

	path := fmt.Sprintf("reports/orders-%s-%s.%s", s.now().Format("20060102-150405"), uuid.NewString(), format)
	disk := s.disks.Default()
	if err := disk.Put(ctx, path, bytes.NewReader(buf.Bytes())); err != nil {
		return Export{}, fmt.Errorf("export: store %s: %w", path, err)
	}

	out := Export{Format: format, Disk: s.diskName, Path: path, URL: disk.URL(path), Orders: orders, Lines: lines}
	logger.WithCtx(ctx).Info("orders exported", "format", format, "disk", out.Disk, "path", out.Path, "orders", orders, "lines", lines)
	return out, nil
}
