package services

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// PDFTitle heads the first page of a PDF order report.
const PDFTitle = "Detailed Order Report"

// Column widths in mm for the line table, indented under each order.
var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Product", 95, "L"},
	{"Qty", 20, "R"},
	{"Unit Price", 30, "R"},
	{"Subtotal", 30, "R"},
}

// WritePDF renders the orders matching f to w as a paginated Letter report.
func (s *ExportService) WritePDF(ctx context.Context, w io.Writer, f ReportFilter) (orders, lines int, err error) {
	summaries, err := s.reports.FilteredOrders(ctx, f)
	if err != nil {
		return 0, 0, err
	}

	generated := s.now()
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(PDFTitle, true)
	pdf.SetCreator("orderdesk", true)
	pdf.SetCreationDate(generated)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.CellFormat(0, 9, PDFTitle, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, 6, "Generated "+generated.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
		} else {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 8, PDFTitle+" (continued)", "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	if len(summaries) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, "No orders match the filter.", "", 1, "L", false, 0, "")
	}

	for _, o := range summaries {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, tr(fmt.Sprintf("Order %d | %s | %s | Total %s",
			o.ID, o.CustomerName, o.Date, o.Total.StringFixed(2))), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(10, 6, "", "", 0, "L", false, 0, "")
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, c.title, "B", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, l := range o.Lines {
			cells := []string{
				tr(l.ProductName),
				strconv.Itoa(l.Quantity),
				l.UnitPrice.StringFixed(2),
				l.Subtotal.StringFixed(2),
			}
			pdf.CellFormat(10, 6, "", "", 0, "L", false, 0, "")
			for i, c := range pdfColumns {
				pdf.CellFormat(c.width, 6, cells[i], "", 0, c.align, false, 0, "")
			}
			pdf.Ln(-1)
			lines++
		}
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return 0, 0, fmt.Errorf("export: pdf: %w", err)
	}
	return len(summaries), lines, nil
}
