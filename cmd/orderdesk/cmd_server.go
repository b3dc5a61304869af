package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/internal/kernel"
	"github.com/shashiranjanraj/orderdesk/internal/server"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// orderdesk serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(context.Background()); err != nil {
				logger.Error("shutdown", "error", err)
			}
		}()

		return server.Run(ctx, app.Handler(), ":"+config.AppPort())
	},
}

// orderdesk route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every HTTP route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		table, err := kernel.RouteTable(config.GraphQLEnabled())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range table {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
