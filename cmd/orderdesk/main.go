package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations register themselves from init().
	_ "github.com/shashiranjanraj/orderdesk/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "orderdesk",
	Short:         "orderdesk: customers, products, orders and reports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Reports
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportExportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(historyClearCmd)
}
