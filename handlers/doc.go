// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the wellness API.

# Handler Types

Each handler is a struct with its database and catalogue dependencies:

  - CatalogueHandler: Public module and instrument catalogues
  - AssessmentHandler: Scoring and history of questionnaire answers
  - SessionHandler: Logged module sessions with mood ratings
  - SummaryHandler: Per-user trends across instruments and sessions
  - TeamHandler: Teams, membership and the anonymised team heatmap

Handlers are created via constructor functions:

	assessments := handlers.NewAssessmentHandler(db, instruments.Default(), content.Default())

Every handler except CatalogueHandler expects the bearer claims placed in
the request context by middleware.RequireAuth and answers 401 without them.

# Assessments

	POST /assessments/{code} → Submit (scores, stores, recommends for aaq2)
	GET  /assessments        → List (newest first, optional ?instrument=)

AAQ-II submissions carry a content selection drawn with the 70/25/5
rarity weighting from the pool matching the flexibility level.

# Team Heatmap

	GET /teams/{id}/heatmap → Heatmap (JSON, cached)
	GET /teams/{id}/report  → Report (HTML rendered from the same data)

Scores are averaged per member and week before the distribution is
taken. Weeks with fewer respondents than the configured minimum group
size are suppressed so no individual score can be inferred.
*/
package handlers
