package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

type ReportController struct {
	reports *services.ReportService
	exports *services.ExportService
	now     func() time.Time
}

// NewReportController reads the dashboard month from now, or the wall clock
// when now is nil.
func NewReportController(reports *services.ReportService, exports *services.ExportService, now func() time.Time) *ReportController {
	if now == nil {
		now = time.Now
	}
	return &ReportController{reports: reports, exports: exports, now: now}
}

func (rc *ReportController) Dashboard(c *ctx.Context) {
	m, err := rc.reports.DashboardMetrics(c.Context(), rc.now())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(m)
}

// Download streams the filtered orders as CSV.
func (rc *ReportController) Download(c *ctx.Context) {
	rc.download(c, services.FormatCSV, "text/csv; charset=utf-8", rc.exports.WriteCSV)
}

// DownloadPDF streams the filtered orders as a PDF report.
func (rc *ReportController) DownloadPDF(c *ctx.Context) {
	rc.download(c, services.FormatPDF, "application/pdf", rc.exports.WritePDF)
}

type renderFunc func(context.Context, io.Writer, services.ReportFilter) (int, int, error)

func (rc *ReportController) download(c *ctx.Context, format services.Format, contentType string, render renderFunc) {
	f, ok := reportFilter(c)
	if !ok {
		return
	}

	// Validate before the headers are committed.
	if err := f.Validate(); err != nil {
		fail(c, err)
		return
	}

	c.Attachment(fmt.Sprintf("orders-%s.%s", rc.now().Format("20060102-150405"), format), contentType)
	c.Status(http.StatusOK)
	if _, _, err := render(c.Context(), c.W, f); err != nil {
		logger.WithCtx(c.Context()).Error("report download interrupted", "format", format, "error", err)
	}
}

// Export writes the filtered orders to the storage disk.
func (rc *ReportController) Export(c *ctx.Context) {
	f, ok := reportFilter(c)
	if !ok {
		return
	}
	format, err := services.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, err)
		return
	}
	out, err := rc.exports.Export(c.Context(), f, format)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(out)
}

// Analysis returns the plain-text summary of recent activity.
func (rc *ReportController) Analysis(c *ctx.Context) {
	limit, ok := c.QueryInt("limit", services.DefaultRecentLimit)
	if !ok {
		return
	}
	text, err := rc.reports.AnalysisContext(c.Context(), rc.now(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.String(http.StatusOK, "%s", text)
}
