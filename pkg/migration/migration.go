// Package migration runs the registered schema steps and records which
// ones have been applied.
//
//	func init() {
//	    migration.Register("20240301000000_create_customers_table", &CreateCustomersTable{})
//	}
//
// Run from CLI:
//
//	orderdesk migrate             // run all pending
//	orderdesk migrate:rollback    // rollback last batch
//	orderdesk migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(db *gorm.DB) error
	// Down reverses the migration.
	Down(db *gorm.DB) error
}

// migrationRecord is the GORM model stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

// ErrNoMigrations is returned when Run is called but no migrations are registered.
var ErrNoMigrations = errors.New("no migrations registered")

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var (
	regMu    sync.RWMutex
	registry []registeredMigration
)

// Register adds a migration to the global registry.
// name should be timestamp-prefixed so lexical order is chronological.
func Register(name string, m Migration) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, registeredMigration{name: name, m: m})
}

// Registered returns the registered migration names in run order.
func Registered() []string {
	regs := snapshot()
	names := make([]string, len(regs))
	for i, reg := range regs {
		names[i] = reg.name
	}
	return names
}

func snapshot() []registeredMigration {
	regMu.RLock()
	out := make([]registeredMigration, len(registry))
	copy(out, registry)
	regMu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner backed by the provided gorm.DB. Progress goes to stdout.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout}
}

// WithOutput redirects progress output; nil discards it.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	if w == nil {
		w = io.Discard
	}
	r.out = w
	return r
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Ran returns the names of applied migrations.
func (r *Runner) Ran() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	var names []string
	if err := r.db.Model(&migrationRecord{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *Runner) pending() ([]registeredMigration, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range snapshot() {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}
	return pending, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run() error {
	if len(snapshot()) == 0 {
		return ErrNoMigrations
	}
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		record := migrationRecord{Name: reg.name, Batch: batch}
		if err := r.db.Create(&record).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses all migrations from the most recent batch.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	last, err := r.lastBatch()
	if err != nil {
		return err
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("name desc").Find(&records).Error; err != nil {
		return err
	}

	regMap := make(map[string]Migration)
	for _, reg := range snapshot() {
		regMap[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}

		if err := r.db.Delete(&rec).Error; err != nil {
			return err
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}

	return nil
}

// Status prints all migrations and whether each has been run.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return err
	}

	ranMap := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("─", 80))
	for _, reg := range snapshot() {
		if rec, ok := ranMap[reg.name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch() (int, error) {
	var maxBatch struct{ Max int }
	err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&maxBatch).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return maxBatch.Max, nil
}
