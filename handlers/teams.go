// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/wellness-api/auth"
	"github.com/danielhkuo/wellness-api/cache"
	"github.com/danielhkuo/wellness-api/cliparse"
	"github.com/danielhkuo/wellness-api/db"
	"github.com/danielhkuo/wellness-api/instruments"
	"github.com/danielhkuo/wellness-api/middleware"
	"github.com/danielhkuo/wellness-api/models"
)

const maxTeamNameLength = 100

//go:embed report.html.tmpl
var reportTemplateText string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
}).Parse(reportTemplateText))

type TeamHandler struct {
	db          *sql.DB
	cfg         cliparse.Config
	cache       cache.Cache
	instruments *instruments.Registry
	now         func() time.Time
}

func NewTeamHandler(db *sql.DB, cfg cliparse.Config, c cache.Cache, reg *instruments.Registry) *TeamHandler {
	return &TeamHandler{db: db, cfg: cfg, cache: c, instruments: reg, now: time.Now}
}

// Create handles POST /teams. The caller becomes the team's manager.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.CreateTeamRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(name) > maxTeamNameLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is too long")
		return
	}

	team := models.Team{
		ID:        uuid.NewString(),
		Name:      name,
		ManagerID: claims.Subject,
		CreatedAt: h.now().UTC(),
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO team (id, name, manager_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, team.ID, team.Name, team.ManagerID, team.CreatedAt)
	if err != nil {
		zap.L().Error("failed to insert team", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create team")
		return
	}

	zap.L().Info("team created", zap.String("team_id", team.ID))

	middleware.JSONResponse(w, http.StatusCreated, team)
}

// AddMember handles POST /teams/{id}/members. Only the manager may add members.
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	team, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if team.ManagerID != claims.Subject {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the team manager can add members")
		return
	}

	var req models.AddMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	member := models.TeamMember{
		TeamID:   team.ID,
		UserID:   strings.TrimSpace(req.UserID),
		JoinedAt: h.now().UTC(),
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO team_member (team_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`, member.TeamID, member.UserID, member.JoinedAt)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			middleware.ErrorResponse(w, http.StatusConflict, "User is already a member")
		case db.IsForeignKeyViolation(err):
			middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		default:
			zap.L().Error("failed to insert team member", zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add member")
		}
		return
	}

	zap.L().Info("team member added", zap.String("team_id", team.ID))
	h.evictHeatmaps(r.Context(), team.ID)

	middleware.JSONResponse(w, http.StatusCreated, member)
}

// Heatmap handles GET /teams/{id}/heatmap?instrument=who5&weeks=8
func (h *TeamHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	hm, cached, ok := h.resolveHeatmap(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(hm)
}

// Report handles GET /teams/{id}/report, the heatmap rendered as a static page
func (h *TeamHandler) Report(w http.ResponseWriter, r *http.Request) {
	raw, _, ok := h.resolveHeatmap(w, r)
	if !ok {
		return
	}

	var hm models.Heatmap
	if err := json.Unmarshal(raw, &hm); err != nil {
		zap.L().Error("failed to decode heatmap", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	instrumentName := hm.Instrument
	if inst, ok := h.instruments.Get(hm.Instrument); ok {
		instrumentName = inst.Name
	}

	var page strings.Builder
	err := reportTemplate.Execute(&page, struct {
		models.Heatmap
		InstrumentName string
	}{hm, instrumentName})
	if err != nil {
		zap.L().Error("failed to render report", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page.String()))
}

// resolveHeatmap authorizes the caller, validates the query and returns the
// heatmap JSON from cache or freshly computed. It writes the error response itself.
func (h *TeamHandler) resolveHeatmap(w http.ResponseWriter, r *http.Request) ([]byte, bool, bool) {
	claims, ok := caller(w, r)
	if !ok {
		return nil, false, false
	}

	team, ok := h.loadTeam(w, r)
	if !ok {
		return nil, false, false
	}
	if !canReadTeam(claims, team) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not allowed to view this team")
		return nil, false, false
	}

	instrument := r.URL.Query().Get("instrument")
	if instrument == "" {
		instrument = instruments.CodeWHO5
	}
	if _, ok := h.instruments.Get(instrument); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown instrument")
		return nil, false, false
	}

	weeks, err := queryInt(r, "weeks", models.DefaultHeatmapWeeks, 1, models.MaxHeatmapWeeks)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false, false
	}

	key := heatmapKey(team.ID, instrument, weeks)
	if raw, err := h.cache.Get(r.Context(), key); err == nil {
		return raw, true, true
	} else if !cache.IsCacheMiss(err) {
		zap.L().Warn("heatmap cache read failed", zap.Error(err))
	}

	hm, err := h.computeHeatmap(r.Context(), team, instrument, weeks)
	if err != nil {
		zap.L().Error("failed to compute heatmap", zap.String("team_id", team.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false, false
	}

	raw, err := json.Marshal(hm)
	if err != nil {
		zap.L().Error("failed to encode heatmap", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build heatmap")
		return nil, false, false
	}

	if err := h.cache.Set(r.Context(), key, raw, h.cfg.CacheTTL); err != nil {
		zap.L().Warn("heatmap cache write failed", zap.Error(err))
	}
	return raw, false, true
}

func heatmapKey(teamID, instrument string, weeks int) string {
	return fmt.Sprintf("heatmap:%s:%s:%d", teamID, instrument, weeks)
}

// evictHeatmaps drops every cached heatmap of the team after its membership changes
func (h *TeamHandler) evictHeatmaps(ctx context.Context, teamID string) {
	for _, inst := range h.instruments.List() {
		for weeks := 1; weeks <= models.MaxHeatmapWeeks; weeks++ {
			if err := h.cache.Delete(ctx, heatmapKey(teamID, inst.Code, weeks)); err != nil {
				zap.L().Warn("heatmap cache eviction failed", zap.String("team_id", teamID), zap.Error(err))
				return
			}
		}
	}
}

func (h *TeamHandler) computeHeatmap(ctx context.Context, team models.Team, instrument string, weeks int) (models.Heatmap, error) {
	now := h.now().UTC()
	start := HeatmapStart(now, weeks)

	rows, err := h.db.QueryContext(ctx, `
		SELECT a.user_id, a.score, a.created_at
		FROM assessment_response a
		JOIN team_member m ON m.user_id = a.user_id
		WHERE m.team_id = $1 AND a.instrument = $2 AND a.created_at >= $3
	`, team.ID, instrument, start)
	if err != nil {
		return models.Heatmap{}, fmt.Errorf("query team scores: %w", err)
	}
	defer rows.Close()

	var points []ScorePoint
	for rows.Next() {
		var p ScorePoint
		if err := rows.Scan(&p.UserID, &p.Score, &p.At); err != nil {
			return models.Heatmap{}, fmt.Errorf("scan team score: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return models.Heatmap{}, fmt.Errorf("iterate team scores: %w", err)
	}

	return models.Heatmap{
		TeamID:       team.ID,
		TeamName:     team.Name,
		Instrument:   instrument,
		Weeks:        weeks,
		MinGroupSize: h.cfg.MinGroupSize,
		Cells:        BuildHeatmap(points, now, weeks, h.cfg.MinGroupSize),
		GeneratedAt:  now,
	}, nil
}

// loadTeam fetches the team named by the {id} URL parameter or writes a 404
func (h *TeamHandler) loadTeam(w http.ResponseWriter, r *http.Request) (models.Team, bool) {
	var team models.Team
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, name, manager_id, created_at FROM team WHERE id = $1
	`, chi.URLParam(r, "id")).Scan(&team.ID, &team.Name, &team.ManagerID, &team.CreatedAt)

	if db.IsNotFound(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return team, false
	}
	if err != nil {
		zap.L().Error("failed to query team", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return team, false
	}
	return team, true
}

// canReadTeam allows the team's manager and HR administrators
func canReadTeam(claims *auth.Claims, team models.Team) bool {
	return claims.Subject == team.ManagerID || claims.IsHRAdmin()
}
