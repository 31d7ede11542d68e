// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/wellness-api/db"
	"github.com/danielhkuo/wellness-api/middleware"
	"github.com/danielhkuo/wellness-api/models"
	"github.com/danielhkuo/wellness-api/modules"
)

type SessionHandler struct {
	db      *sql.DB
	modules *modules.Catalogue
	now     func() time.Time
}

func NewSessionHandler(db *sql.DB, mods *modules.Catalogue) *SessionHandler {
	return &SessionHandler{db: db, modules: mods, now: time.Now}
}

func validMood(m *int) bool {
	return m == nil || (*m >= models.MinMood && *m <= models.MaxMood)
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.ModuleCode == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "module_code is required")
		return
	}
	if _, ok := h.modules.Get(req.ModuleCode); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown module_code")
		return
	}
	if req.DurationSeconds < 1 || req.DurationSeconds > models.MaxSessionSeconds {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration_seconds must be between 1 and 14400")
		return
	}
	if !validMood(req.MoodBefore) || !validMood(req.MoodAfter) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "moods must be between 1 and 10")
		return
	}

	session := models.Session{
		ID:              uuid.NewString(),
		ModuleCode:      req.ModuleCode,
		DurationSeconds: req.DurationSeconds,
		MoodBefore:      req.MoodBefore,
		MoodAfter:       req.MoodAfter,
		MoodDelta:       models.MoodDelta(req.MoodBefore, req.MoodAfter),
		StartedAt:       h.now().UTC(),
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO module_session (id, user_id, module_code, duration_seconds, mood_before, mood_after, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, session.ID, claims.Subject, session.ModuleCode, session.DurationSeconds, session.MoodBefore, session.MoodAfter, session.StartedAt)
	if err != nil {
		if db.IsCheckViolation(err) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Session values out of range")
			return
		}
		zap.L().Error("failed to insert session", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	zap.L().Info("session recorded",
		zap.String("session_id", session.ID),
		zap.String("module", session.ModuleCode),
		zap.Int("duration_seconds", session.DurationSeconds),
	)

	middleware.JSONResponse(w, http.StatusCreated, session)
}

// List handles GET /sessions?limit=
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", models.DefaultListLimit, 1, models.MaxListLimit)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, module_code, duration_seconds, mood_before, mood_after, started_at
		FROM module_session
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, claims.Subject, limit)
	if err != nil {
		zap.L().Error("failed to query sessions", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var (
			s             models.Session
			before, after sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.ModuleCode, &s.DurationSeconds, &before, &after, &s.StartedAt); err != nil {
			zap.L().Error("failed to scan session", zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		s.MoodBefore = nullIntPtr(before)
		s.MoodAfter = nullIntPtr(after)
		s.MoodDelta = models.MoodDelta(s.MoodBefore, s.MoodAfter)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("failed to iterate sessions", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionListResponse{Sessions: sessions})
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
