package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestSQLite opens a throwaway account store under t.TempDir(): the same
// hardened write/read pool pair the server uses, with the principals schema
// migrated on the write pool. Both pools are closed via t.Cleanup.
//
// Repository and service tests that never hit the read/write split can use
// writeDB for everything.
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "accounts.sqlite")

	writeDB, readDB, err := OpenSQLitePair(path, 4)
	if err != nil {
		t.Fatalf("open account store: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("migrate account store: %v", err)
	}

	return writeDB, readDB
}
