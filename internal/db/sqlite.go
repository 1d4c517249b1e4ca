// Package db provides database connectivity helpers and migration support
// for the account store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// poolMode selects the write-safety profile of a SQLite pool.
type poolMode string

const (
	// modeWrite serializes all writes through a single connection with
	// _txlock=immediate so write transactions never deadlock on upgrade.
	modeWrite poolMode = "write"
	// modeRead allows concurrent readers under WAL.
	modeRead poolMode = "read"
)

const defaultReadPoolSize = 4

// openSQLite opens a pool for the given SQLite file. Both modes set WAL
// journaling, busy_timeout=5000ms, synchronous=NORMAL, and foreign_keys=on.
func openSQLite(path string, mode poolMode, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	switch mode {
	case modeWrite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case modeRead:
		if maxOpen <= 0 {
			maxOpen = defaultReadPoolSize
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	default:
		_ = db.Close()
		return nil, fmt.Errorf("invalid SQLite pool mode %q", mode)
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}

	return db, nil
}

// OpenSQLitePair opens a single-connection write pool and a concurrent read
// pool for the same SQLite file. readMaxOpen controls the read pool size
// (0 defaults to 4).
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = openSQLite(path, modeWrite, 0)
	if err != nil {
		return nil, nil, err
	}

	readDB, err = openSQLite(path, modeRead, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}

	return writeDB, readDB, nil
}

func buildDSN(path string, mode poolMode) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_synchronous", "NORMAL")
	params.Set("_foreign_keys", "on")
	if mode == modeWrite {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}
