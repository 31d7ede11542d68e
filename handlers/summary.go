// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/wellness-api/instruments"
	"github.com/danielhkuo/wellness-api/middleware"
	"github.com/danielhkuo/wellness-api/models"
)

// SummaryWindowDays bounds the session statistics in the summary
const SummaryWindowDays = 30

type SummaryHandler struct {
	db          *sql.DB
	instruments *instruments.Registry
	now         func() time.Time
}

func NewSummaryHandler(db *sql.DB, reg *instruments.Registry) *SummaryHandler {
	return &SummaryHandler{db: db, instruments: reg, now: time.Now}
}

// Get handles GET /me/summary
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var summary models.Summary
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		trends, err := h.trends(ctx, claims.Subject)
		summary.Instruments = trends
		return err
	})
	g.Go(func() error {
		stats, err := h.sessionStats(ctx, claims.Subject)
		summary.Sessions = stats
		return err
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("failed to build summary", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// trends returns the two most recent results per instrument, in catalogue order
func (h *SummaryHandler) trends(ctx context.Context, userID string) ([]models.InstrumentTrend, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT instrument, score, level, created_at, rn
		FROM (
			SELECT instrument, score, level, created_at,
				ROW_NUMBER() OVER (PARTITION BY instrument ORDER BY created_at DESC) AS rn
			FROM assessment_response
			WHERE user_id = $1
		) ranked
		WHERE rn <= 2
		ORDER BY instrument, rn
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	byCode := make(map[string]*models.InstrumentTrend)
	for rows.Next() {
		var (
			code, level string
			score, rn   int
			at          time.Time
		)
		if err := rows.Scan(&code, &score, &level, &at, &rn); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}

		if rn == 1 {
			byCode[code] = &models.InstrumentTrend{Instrument: code, Latest: score, Level: level, LatestAt: at}
			continue
		}
		if t, ok := byCode[code]; ok {
			prev := score
			delta := t.Latest - prev
			t.Previous = &prev
			t.Delta = &delta
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trends: %w", err)
	}

	trends := []models.InstrumentTrend{}
	for _, inst := range h.instruments.List() {
		if t, ok := byCode[inst.Code]; ok {
			trends = append(trends, *t)
		}
	}
	return trends, nil
}

func (h *SummaryHandler) sessionStats(ctx context.Context, userID string) (models.SessionStats, error) {
	stats := models.SessionStats{WindowDays: SummaryWindowDays}
	since := h.now().UTC().AddDate(0, 0, -SummaryWindowDays)

	var avg sql.NullFloat64
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*), CAST(AVG(mood_after - mood_before) AS DOUBLE PRECISION)
		FROM module_session
		WHERE user_id = $1 AND started_at >= $2
	`, userID, since).Scan(&stats.Count, &avg)
	if err != nil {
		return stats, fmt.Errorf("query session stats: %w", err)
	}

	if avg.Valid {
		v := round2(avg.Float64)
		stats.AvgMoodDelta = &v
	}
	return stats, nil
}
