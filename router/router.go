// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/wellness-api/auth"
	"github.com/danielhkuo/wellness-api/cache"
	"github.com/danielhkuo/wellness-api/cliparse"
	"github.com/danielhkuo/wellness-api/content"
	"github.com/danielhkuo/wellness-api/handlers"
	"github.com/danielhkuo/wellness-api/instruments"
	"github.com/danielhkuo/wellness-api/middleware"
	"github.com/danielhkuo/wellness-api/modules"
	"github.com/danielhkuo/wellness-api/ratelimit"
)

// Banner is the body served at the root path
const Banner = "wellness API v1"

func NewRouter(db *sql.DB, cfg cliparse.Config, c cache.Cache, limiter ratelimit.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.WithLogging)
	r.Use(middleware.CORS)

	reg := instruments.Default()
	mods := modules.Default()

	// Initialize handlers
	catalogueHandler := handlers.NewCatalogueHandler(reg, mods)
	assessmentHandler := handlers.NewAssessmentHandler(db, reg, content.Default())
	sessionHandler := handlers.NewSessionHandler(db, mods)
	summaryHandler := handlers.NewSummaryHandler(db, reg)
	teamHandler := handlers.NewTeamHandler(db, cfg, c, reg)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Catalogues (public)
	r.Get("/modules", catalogueHandler.ListModules)
	r.Get("/modules/{code}", catalogueHandler.GetModule)
	r.Get("/instruments", catalogueHandler.ListInstruments)
	r.Get("/instruments/{code}", catalogueHandler.GetInstrument)

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(verifier))

		// Writes are rate limited per caller
		limited := r.With(middleware.RateLimit(limiter, cfg.JWTSecret))
		limited.Post("/assessments/{code}", assessmentHandler.Submit)
		limited.Post("/sessions", sessionHandler.Create)

		r.Get("/assessments", assessmentHandler.List)
		r.Get("/sessions", sessionHandler.List)
		r.Get("/me/summary", summaryHandler.Get)

		// Teams
		r.Post("/teams", teamHandler.Create)
		r.Post("/teams/{id}/members", teamHandler.AddMember)
		r.Get("/teams/{id}/heatmap", teamHandler.Heatmap)
		r.Get("/teams/{id}/report", teamHandler.Report)
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return r
}
