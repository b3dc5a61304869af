package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/internal/kernel"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

var (
	exportCustomer uint
	exportFrom     string
	exportTo       string
	exportFormat   string
	historyLimit   int
)

// withApp boots the full application for one command.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *kernel.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := kernel.Boot(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()
	return fn(ctx, app)
}

// orderdesk dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the customer count and this month's order figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *kernel.App) error {
			m, err := app.Reports.DashboardMetrics(ctx, time.Now())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		})
	},
}

// orderdesk report:export
var reportExportCmd = &cobra.Command{
	Use:   "report:export",
	Short: "Write the filtered orders as CSV or PDF to the storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := services.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		var f services.ReportFilter
		if cmd.Flags().Changed("customer") {
			f.CustomerID = &exportCustomer
		}
		if exportFrom != "" {
			f.DateFrom = &exportFrom
		}
		if exportTo != "" {
			f.DateTo = &exportTo
		}

		return withApp(cmd, func(ctx context.Context, app *kernel.App) error {
			out, err := app.Exports.Export(ctx, f, format)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d order(s), %d line(s) to %s:%s\n", out.Orders, out.Lines, out.Disk, out.Path)
			if out.URL != "" {
				fmt.Println(out.URL)
			}
			return nil
		})
	},
}

// orderdesk history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the audit trail, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *kernel.App) error {
			entries, err := app.Audit.Sink().History(ctx, historyLimit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No history recorded.")
				return nil
			}

			for _, e := range entries {
				fmt.Println(e.String())
			}
			return nil
		})
	},
}

// orderdesk history:clear
var historyClearCmd = &cobra.Command{
	Use:   "history:clear",
	Short: "Delete the audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *kernel.App) error {
			if err := app.Audit.Sink().Clear(ctx); err != nil {
				return err
			}
			fmt.Println("History cleared.")
			return nil
		})
	},
}

func init() {
	reportExportCmd.Flags().UintVar(&exportCustomer, "customer", 0, "only orders of this customer id")
	reportExportCmd.Flags().StringVar(&exportFrom, "from", "", "first order date, YYYY-MM-DD")
	reportExportCmd.Flags().StringVar(&exportTo, "to", "", "last order date, YYYY-MM-DD")
	reportExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or pdf")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "number of entries, 0 for all")
}
