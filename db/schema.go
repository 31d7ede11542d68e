// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/wellness-api/cliparse"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, databaseType string) error {
	ddl := postgresSchema
	if databaseType == cliparse.DatabaseSQLite {
		ddl = sqliteSchema
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const postgresSchema = `
-- Assessment responses
CREATE TABLE IF NOT EXISTS assessment_response (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    instrument TEXT NOT NULL,
    answers JSONB NOT NULL,
    score INTEGER NOT NULL,
    subscales JSONB,
    level TEXT NOT NULL,
    recommendations JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_assessment_user ON assessment_response(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_assessment_instrument ON assessment_response(instrument, created_at);

-- Module sessions
CREATE TABLE IF NOT EXISTS module_session (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    module_code TEXT NOT NULL,
    duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
    mood_before INTEGER CHECK (mood_before BETWEEN 1 AND 10),
    mood_after INTEGER CHECK (mood_after BETWEEN 1 AND 10),
    started_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_module_session_user ON module_session(user_id, started_at DESC);

-- Teams
CREATE TABLE IF NOT EXISTS team (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    manager_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS team_member (
    team_id TEXT NOT NULL REFERENCES team(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (team_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_team_member_user ON team_member(user_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS assessment_response (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    instrument TEXT NOT NULL,
    answers TEXT NOT NULL,
    score INTEGER NOT NULL,
    subscales TEXT,
    level TEXT NOT NULL,
    recommendations TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_assessment_user ON assessment_response(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_assessment_instrument ON assessment_response(instrument, created_at);

CREATE TABLE IF NOT EXISTS module_session (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    module_code TEXT NOT NULL,
    duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
    mood_before INTEGER CHECK (mood_before BETWEEN 1 AND 10),
    mood_after INTEGER CHECK (mood_after BETWEEN 1 AND 10),
    started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_module_session_user ON module_session(user_id, started_at DESC);

CREATE TABLE IF NOT EXISTS team (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    manager_id TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS team_member (
    team_id TEXT NOT NULL REFERENCES team(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (team_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_team_member_user ON team_member(user_id);
`
