// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the wellness API.

# Route Registration

NewRouter creates a chi router with all endpoints:

	handler := router.NewRouter(db, cfg, cache, limiter)

Every request passes through RequestID, Recovery, WithLogging and CORS.

# Endpoints

Public:

	GET /health               - Liveness check
	GET /modules              - Module catalogue
	GET /modules/{code}       - One module
	GET /instruments          - Instrument catalogue
	GET /instruments/{code}   - One instrument with its items

Authenticated (Authorization: Bearer <jwt>):

	POST /assessments/{code}  - Score and store answers (rate limited)
	GET  /assessments         - Assessment history
	POST /sessions            - Log a module session (rate limited)
	GET  /sessions            - Session history
	GET  /me/summary          - Trends across instruments and sessions

Teams (managers and hr_admin):

	POST /teams               - Create team, caller becomes manager
	POST /teams/{id}/members  - Add member
	GET  /teams/{id}/heatmap  - Weekly anonymised scores (JSON)
	GET  /teams/{id}/report   - Same data as an HTML page
*/
package router
