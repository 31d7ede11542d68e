// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/wellness-api/content"
	"github.com/danielhkuo/wellness-api/instruments"
	"github.com/danielhkuo/wellness-api/models"
	"github.com/danielhkuo/wellness-api/testutil"
)

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestAssessmentHandler(t *testing.T) (*AssessmentHandler, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	h := NewAssessmentHandler(conn, instruments.Default(), content.Default())
	h.newRand = seededRand
	return h, conn
}

func submitRequest(code, user string, body interface{}) *http.Request {
	req := testutil.MakeRequest("POST", "/assessments/"+code, body, nil)
	req = testutil.WithURLParams(req, "code", code)
	if user != "" {
		req = testutil.AsUser(req, user, "")
	}
	return req
}

func TestSubmitAssessment(t *testing.T) {
	h, conn := newTestAssessmentHandler(t)

	tests := []struct {
		name           string
		code           string
		user           string
		body           interface{}
		expectedStatus int
	}{
		{"aaq2 high flexibility", "aaq2", "user-1", models.SubmitAssessmentRequest{Answers: []int{1, 1, 1, 1, 1, 1, 1}}, http.StatusCreated},
		{"who5", "who5", "user-1", models.SubmitAssessmentRequest{Answers: []int{3, 3, 3, 3, 3}}, http.StatusCreated},
		{"unknown instrument", "phq9", "user-1", models.SubmitAssessmentRequest{Answers: []int{1}}, http.StatusNotFound},
		{"wrong answer count", "aaq2", "user-1", models.SubmitAssessmentRequest{Answers: []int{1, 2}}, http.StatusBadRequest},
		{"answer out of range", "aaq2", "user-1", models.SubmitAssessmentRequest{Answers: []int{1, 1, 1, 1, 1, 1, 9}}, http.StatusBadRequest},
		{"missing answers", "aaq2", "user-1", map[string]interface{}{}, http.StatusBadRequest},
		{"invalid JSON", "aaq2", "user-1", `{"answers": [1,`, http.StatusBadRequest},
		{"unauthenticated", "aaq2", "", models.SubmitAssessmentRequest{Answers: []int{1, 1, 1, 1, 1, 1, 1}}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Submit(w, submitRequest(tt.code, tt.user, tt.body))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	var count int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM assessment_response WHERE user_id = $1`, "user-1").Scan(&count))
	assert.Equal(t, 2, count, "only the two valid submissions are stored")
}

func TestSubmitAssessment_AAQ2Recommendations(t *testing.T) {
	h, conn := newTestAssessmentHandler(t)

	// Sum 30: low flexibility, acceptance pool
	answers := []int{5, 5, 4, 4, 4, 4, 4}
	w := httptest.NewRecorder()
	h.Submit(w, submitRequest("aaq2", "user-1", models.SubmitAssessmentRequest{Answers: answers}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.Assessment
	testutil.AssertJSON(t, w, &resp)

	assert.Equal(t, 30, resp.Score)
	assert.Equal(t, instruments.LevelLow, resp.Level)
	assert.NotEmpty(t, resp.Interpretation)
	require.NotNil(t, resp.Recommendations)

	want, err := content.Default().Select(instruments.LevelLow, seededRand())
	require.NoError(t, err)
	assert.Equal(t, want, *resp.Recommendations)
	assert.Equal(t, "acceptance", resp.Recommendations.Featured.Category)
	assert.Len(t, resp.Recommendations.Extras, content.ExtraCount)

	var level string
	var recs sql.NullString
	require.NoError(t, conn.QueryRow(`SELECT level, recommendations FROM assessment_response WHERE id = $1`, resp.ID).Scan(&level, &recs))
	assert.Equal(t, instruments.LevelLow, level)
	assert.True(t, recs.Valid)
}

func TestSubmitAssessment_NoRecommendationsForOtherInstruments(t *testing.T) {
	h, conn := newTestAssessmentHandler(t)

	answers := make([]int, 20)
	for i := range answers {
		answers[i] = 3
	}

	w := httptest.NewRecorder()
	h.Submit(w, submitRequest("panas", "user-2", models.SubmitAssessmentRequest{Answers: answers}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.Assessment
	testutil.AssertJSON(t, w, &resp)
	assert.Nil(t, resp.Recommendations)
	assert.Equal(t, map[string]int{"positive_affect": 30, "negative_affect": 30}, resp.Subscales)
	assert.Equal(t, instruments.LevelBalanced, resp.Level)

	var recs, subscales sql.NullString
	require.NoError(t, conn.QueryRow(`SELECT recommendations, subscales FROM assessment_response WHERE id = $1`, resp.ID).Scan(&recs, &subscales))
	assert.False(t, recs.Valid)
	assert.True(t, subscales.Valid)
}

func TestSubmitAssessment_DatabaseError(t *testing.T) {
	conn, mock := testutil.NewMockDB(t)
	h := NewAssessmentHandler(conn, instruments.Default(), content.Default())

	mock.ExpectExec("INSERT INTO assessment_response").WillReturnError(errors.New("connection reset"))

	w := httptest.NewRecorder()
	h.Submit(w, submitRequest("who5", "user-1", models.SubmitAssessmentRequest{Answers: []int{1, 2, 3, 4, 5}}))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}

func TestListAssessments(t *testing.T) {
	h, conn := newTestAssessmentHandler(t)

	now := time.Now().UTC()
	oldest := testutil.InsertTestAssessment(t, conn, "user-1", "who5", 40, instruments.LevelLow, now.Add(-72*time.Hour))
	middle := testutil.InsertTestAssessment(t, conn, "user-1", "aaq2", 20, instruments.LevelModerate, now.Add(-48*time.Hour))
	newest := testutil.InsertTestAssessment(t, conn, "user-1", "who5", 64, instruments.LevelGood, now.Add(-24*time.Hour))
	testutil.InsertTestAssessment(t, conn, "someone-else", "who5", 12, instruments.LevelVeryLow, now)

	list := func(query string) (*httptest.ResponseRecorder, models.AssessmentListResponse) {
		req := testutil.AsUser(testutil.MakeRequest("GET", "/assessments"+query, nil, nil), "user-1", "")
		w := httptest.NewRecorder()
		h.List(w, req)

		var resp models.AssessmentListResponse
		if w.Code == http.StatusOK {
			testutil.AssertJSON(t, w, &resp)
		}
		return w, resp
	}

	t.Run("newest first", func(t *testing.T) {
		w, resp := list("")
		testutil.AssertStatus(t, w, http.StatusOK)
		require.Len(t, resp.Assessments, 3)
		assert.Equal(t, []string{newest, middle, oldest}, []string{
			resp.Assessments[0].ID, resp.Assessments[1].ID, resp.Assessments[2].ID,
		})
		assert.NotEmpty(t, resp.Assessments[0].Interpretation)
	})

	t.Run("filter by instrument", func(t *testing.T) {
		w, resp := list("?instrument=who5")
		testutil.AssertStatus(t, w, http.StatusOK)
		require.Len(t, resp.Assessments, 2)
		for _, a := range resp.Assessments {
			assert.Equal(t, "who5", a.Instrument)
		}
	})

	t.Run("limit", func(t *testing.T) {
		w, resp := list("?limit=1")
		testutil.AssertStatus(t, w, http.StatusOK)
		require.Len(t, resp.Assessments, 1)
		assert.Equal(t, newest, resp.Assessments[0].ID)
	})

	for _, query := range []string{"?limit=0", "?limit=101", "?limit=abc", "?instrument=phq9"} {
		t.Run("rejects "+query, func(t *testing.T) {
			w, _ := list(query)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestListAssessments_Empty(t *testing.T) {
	h, _ := newTestAssessmentHandler(t)

	req := testutil.AsUser(testutil.MakeRequest("GET", "/assessments", nil, nil), "nobody", "")
	w := httptest.NewRecorder()
	h.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"assessments":[]}`, w.Body.String())
}

func TestListAssessments_DatabaseError(t *testing.T) {
	conn, mock := testutil.NewMockDB(t)
	h := NewAssessmentHandler(conn, instruments.Default(), content.Default())

	mock.ExpectQuery("SELECT id, instrument, answers").WillReturnError(errors.New("connection reset"))

	req := testutil.AsUser(testutil.MakeRequest("GET", "/assessments", nil, nil), "user-1", "")
	w := httptest.NewRecorder()
	h.List(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}
