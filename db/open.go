// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/wellness-api/cliparse"
)

// driverNames maps a configured database type to its database/sql driver
var driverNames = map[string]string{
	cliparse.DatabasePostgres: "pgx",
	cliparse.DatabasePQ:       "postgres",
	cliparse.DatabaseSQLite:   "sqlite",
}

// Open connects with the driver for databaseType and verifies the connection
func Open(ctx context.Context, databaseType, url string) (*sql.DB, error) {
	driver, ok := driverNames[databaseType]
	if !ok {
		return nil, fmt.Errorf("unknown database type %q", databaseType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if databaseType == cliparse.DatabaseSQLite {
		// One writer at a time; extra connections only produce SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(20)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}
