// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the wellness API server.

The service scores wellbeing questionnaires (AAQ-II, WHO-5, PANAS),
recommends content after AAQ-II with a weighted rarity draw, logs guided
module sessions with mood ratings, and shows managers an anonymised
weekly heatmap of their team.

# Commands

	wellness-api serve             Run the HTTP server (also the default)
	wellness-api migrate           Create the schema and exit
	wellness-api assess [code]     Take an assessment in the terminal
	wellness-api token --sub u1    Mint a development bearer token

# Configuration

Settings come from flags, the environment (a .env file is loaded when
present), an optional YAML file passed with --config, then defaults.

Required settings:

  - DATABASE_URL (-d): Connection string
  - JWT_SECRET (--jwt-secret): HS256 secret shared with the auth provider

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres, pq or sqlite (default: postgres)
  - REDIS_URL: Shared cache and rate limits (default: in-process)
  - RATE_LIMIT: Writes per minute per caller (default: 30)
  - MIN_GROUP_SIZE: Smallest visible heatmap cell (default: 5)

# Architecture

  - handlers: HTTP request handlers
  - router: chi routes and middleware order
  - middleware: Request IDs, recovery, logging, auth, rate limiting
  - instruments, content, modules: Embedded catalogues and scoring
  - cache, ratelimit: Redis or in-memory backends
  - db: Drivers, schema and error classification
  - cliparse, logging: Configuration and the zap logger

See package documentation for each component.
*/
package main
