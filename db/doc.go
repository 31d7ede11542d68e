// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and classifies driver errors.

# Connections

Open picks the database/sql driver from the configured type:

	postgres -> pgx (github.com/jackc/pgx/v5/stdlib)
	pq       -> postgres (github.com/lib/pq)
	sqlite   -> sqlite (modernc.org/sqlite), for local development

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - assessment_response: one scored questionnaire submission
  - module_session: one completed wellness module with optional mood ratings
  - team: HR team with its manager
  - team_member: user membership in a team

# Relationships

	team 1──* team_member
	team_member.user_id ── assessment_response.user_id (auth provider user id)

# Errors

Classify maps pgx, lib/pq and sqlite errors onto ErrNotFound,
ErrUniqueViolation, ErrForeignKeyViolation and ErrCheckViolation so
handlers can answer 404/409 without knowing the driver.
*/
package db
