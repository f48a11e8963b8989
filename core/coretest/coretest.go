// Package coretest provides a throwaway sqlite-backed DatabaseManager for tests.
package coretest

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"itsheet.com/itsheet/core"
)

func NewDatabase(t *testing.T) *core.DatabaseManager {
	t.Helper()

	path := filepath.Join(t.TempDir(), "itsheet.db")
	dm, err := core.NewWithDialector(sqlite.Open(path))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// sqlite allows a single writer; one connection keeps transactions simple
	dm.SqlDB.SetMaxOpenConns(1)
	dm.LogLevel = core.LogLevelSilent

	if err := dm.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { dm.Close() })
	return dm
}
