// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	ErrCheckViolation      = errors.New("check constraint violation")
)

// Postgres SQLSTATE codes
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Classify maps driver errors from pgx, lib/pq and sqlite onto the sentinels above.
// Unrecognised errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromSQLState(pgErr.Code, pgErr.ConstraintName, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fromSQLState(string(pqErr.Code), pqErr.Constraint, err)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return fromSQLite(liteErr.Code(), err)
	}

	return err
}

func fromSQLState(code, constraint string, err error) error {
	switch code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", ErrUniqueViolation, constraint)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrForeignKeyViolation, constraint)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s", ErrCheckViolation, constraint)
	}
	return err
}

func fromSQLite(code int, err error) error {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%w: %v", ErrForeignKeyViolation, err)
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return fmt.Errorf("%w: %v", ErrCheckViolation, err)
	}

	// Without extended result codes only the message tells constraints apart.
	if code&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return fmt.Errorf("%w: %v", ErrForeignKeyViolation, err)
		case strings.Contains(msg, "CHECK constraint failed"):
			return fmt.Errorf("%w: %v", ErrCheckViolation, err)
		}
	}
	return err
}

// IsUniqueViolation reports whether err is (or classifies as) a unique violation
func IsUniqueViolation(err error) bool {
	return errors.Is(Classify(err), ErrUniqueViolation)
}

// IsNotFound reports whether err is sql.ErrNoRows or ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(Classify(err), ErrNotFound)
}

// IsForeignKeyViolation reports whether err classifies as a foreign key violation
func IsForeignKeyViolation(err error) bool {
	return errors.Is(Classify(err), ErrForeignKeyViolation)
}

// IsCheckViolation reports whether err classifies as a check constraint violation
func IsCheckViolation(err error) bool {
	return errors.Is(Classify(err), ErrCheckViolation)
}
