// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/wellness-api/content"
	"github.com/danielhkuo/wellness-api/instruments"
	"github.com/danielhkuo/wellness-api/middleware"
	"github.com/danielhkuo/wellness-api/models"
)

type AssessmentHandler struct {
	db          *sql.DB
	instruments *instruments.Registry
	content     *content.Catalogue
	newRand     func() *rand.Rand
	now         func() time.Time
}

func NewAssessmentHandler(db *sql.DB, reg *instruments.Registry, cat *content.Catalogue) *AssessmentHandler {
	return &AssessmentHandler{
		db:          db,
		instruments: reg,
		content:     cat,
		newRand:     newRequestRand,
		now:         time.Now,
	}
}

// Submit handles POST /assessments/{code}
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	if _, ok := h.instruments.Get(code); !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Instrument not found")
		return
	}

	var req models.SubmitAssessmentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Answers) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "answers are required")
		return
	}

	result, err := h.instruments.Score(code, req.Answers)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Only the AAQ-II level drives content selection
	var recs *content.Selection
	if code == instruments.CodeAAQ2 {
		sel, err := h.content.Select(result.Level, h.newRand())
		if err != nil {
			zap.L().Error("failed to select content", zap.String("level", result.Level), zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to select content")
			return
		}
		recs = &sel
	}

	assessment := models.Assessment{
		ID:              uuid.NewString(),
		Instrument:      code,
		Answers:         req.Answers,
		Score:           result.Score,
		Subscales:       result.Subscales,
		Level:           result.Level,
		Interpretation:  result.Interpretation,
		Recommendations: recs,
		CreatedAt:       h.now().UTC(),
	}

	answersJSON, subscalesJSON, recsJSON, err := encodeAssessment(assessment)
	if err != nil {
		zap.L().Error("failed to encode assessment", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save assessment")
		return
	}

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO assessment_response (id, user_id, instrument, answers, score, subscales, level, recommendations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, assessment.ID, claims.Subject, code, answersJSON, assessment.Score, subscalesJSON, assessment.Level, recsJSON, assessment.CreatedAt)
	if err != nil {
		zap.L().Error("failed to insert assessment", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save assessment")
		return
	}

	zap.L().Info("assessment recorded",
		zap.String("assessment_id", assessment.ID),
		zap.String("instrument", code),
		zap.Int("score", assessment.Score),
		zap.String("level", assessment.Level),
	)

	middleware.JSONResponse(w, http.StatusCreated, assessment)
}

// encodeAssessment renders the JSON columns. Absent subscales and
// recommendations are stored as NULL.
func encodeAssessment(a models.Assessment) (answers string, subscales, recs *string, err error) {
	raw, err := json.Marshal(a.Answers)
	if err != nil {
		return "", nil, nil, err
	}
	answers = string(raw)

	if a.Subscales != nil {
		raw, err := json.Marshal(a.Subscales)
		if err != nil {
			return "", nil, nil, err
		}
		s := string(raw)
		subscales = &s
	}

	if a.Recommendations != nil {
		raw, err := json.Marshal(a.Recommendations)
		if err != nil {
			return "", nil, nil, err
		}
		s := string(raw)
		recs = &s
	}

	return answers, subscales, recs, nil
}

// List handles GET /assessments?instrument=&limit=
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", models.DefaultListLimit, 1, models.MaxListLimit)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	query := `
		SELECT id, instrument, answers, score, subscales, level, recommendations, created_at
		FROM assessment_response
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	args := []interface{}{claims.Subject, limit}

	if code := r.URL.Query().Get("instrument"); code != "" {
		if _, ok := h.instruments.Get(code); !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown instrument")
			return
		}
		query = `
			SELECT id, instrument, answers, score, subscales, level, recommendations, created_at
			FROM assessment_response
			WHERE user_id = $1 AND instrument = $3
			ORDER BY created_at DESC
			LIMIT $2
		`
		args = append(args, code)
	}

	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		zap.L().Error("failed to query assessments", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	assessments := []models.Assessment{}
	for rows.Next() {
		a, err := h.scanAssessment(rows)
		if err != nil {
			zap.L().Error("failed to scan assessment", zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("failed to iterate assessments", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AssessmentListResponse{Assessments: assessments})
}

func (h *AssessmentHandler) scanAssessment(rows *sql.Rows) (models.Assessment, error) {
	var (
		a                        models.Assessment
		answers, subscales, recs []byte
	)
	if err := rows.Scan(&a.ID, &a.Instrument, &answers, &a.Score, &subscales, &a.Level, &recs, &a.CreatedAt); err != nil {
		return a, err
	}

	if err := json.Unmarshal(answers, &a.Answers); err != nil {
		return a, errors.Join(errors.New("corrupt answers column"), err)
	}
	if len(subscales) > 0 {
		if err := json.Unmarshal(subscales, &a.Subscales); err != nil {
			return a, errors.Join(errors.New("corrupt subscales column"), err)
		}
	}
	if len(recs) > 0 {
		var sel content.Selection
		if err := json.Unmarshal(recs, &sel); err != nil {
			return a, errors.Join(errors.New("corrupt recommendations column"), err)
		}
		a.Recommendations = &sel
	}

	if inst, ok := h.instruments.Get(a.Instrument); ok {
		a.Interpretation = inst.Levels[a.Level]
	}
	return a, nil
}
