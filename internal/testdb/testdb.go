// Package testdb opens a migrated, throwaway SQLite store for tests.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/orderdesk/database/migrations"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/migration"
)

// New returns a handle to a fresh, fully migrated database that is closed
// when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "orderdesk_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, migration.New(db).WithOutput(nil).Run())
	return db
}
