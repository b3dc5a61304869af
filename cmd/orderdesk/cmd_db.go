package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/database/seeders"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/migration"
)

// withDB loads config, opens the store and closes it after fn.
func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

// orderdesk migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Running migrations…")
			return migration.New(db).Run()
		})
	},
}

// orderdesk migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Rolling back last batch…")
			return migration.New(db).Rollback()
		})
	},
}

// orderdesk migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db).Status()
		})
	},
}

// orderdesk seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample customers and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Running seeders…")
			return seeders.RunAll(db, os.Stdout)
		})
	},
}
