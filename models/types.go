// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/wellness-api/content"
)

// Session bounds
const (
	MaxSessionSeconds = 4 * 60 * 60
	MinMood           = 1
	MaxMood           = 10
)

// List limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Heatmap bounds
const (
	DefaultHeatmapWeeks = 8
	MaxHeatmapWeeks     = 26
)

// Request types

type SubmitAssessmentRequest struct {
	Answers []int `json:"answers"`
}

type CreateSessionRequest struct {
	ModuleCode      string `json:"module_code"`
	DurationSeconds int    `json:"duration_seconds"`
	MoodBefore      *int   `json:"mood_before,omitempty"`
	MoodAfter       *int   `json:"mood_after,omitempty"`
}

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

// Response types

type AssessmentListResponse struct {
	Assessments []Assessment `json:"assessments"`
}

type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

// Assessment is one scored questionnaire submission
type Assessment struct {
	ID              string             `json:"id"`
	Instrument      string             `json:"instrument"`
	Answers         []int              `json:"answers"`
	Score           int                `json:"score"`
	Subscales       map[string]int     `json:"subscales,omitempty"`
	Level           string             `json:"level"`
	Interpretation  string             `json:"interpretation,omitempty"`
	Recommendations *content.Selection `json:"recommendations,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Session is one completed run of a wellness module
type Session struct {
	ID              string    `json:"id"`
	ModuleCode      string    `json:"module_code"`
	DurationSeconds int       `json:"duration_seconds"`
	MoodBefore      *int      `json:"mood_before,omitempty"`
	MoodAfter       *int      `json:"mood_after,omitempty"`
	MoodDelta       *int      `json:"mood_delta,omitempty"`
	StartedAt       time.Time `json:"started_at"`
}

// MoodDelta is after minus before, or nil unless both were recorded
func MoodDelta(before, after *int) *int {
	if before == nil || after == nil {
		return nil
	}
	d := *after - *before
	return &d
}

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ManagerID string    `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamMember struct {
	TeamID   string    `json:"team_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// InstrumentTrend compares a user's two most recent results on one instrument
type InstrumentTrend struct {
	Instrument string    `json:"instrument"`
	Latest     int       `json:"latest"`
	Level      string    `json:"level"`
	LatestAt   time.Time `json:"latest_at"`
	Previous   *int      `json:"previous,omitempty"`
	Delta      *int      `json:"delta,omitempty"`
}

type SessionStats struct {
	Count        int      `json:"count"`
	AvgMoodDelta *float64 `json:"avg_mood_delta,omitempty"`
	WindowDays   int      `json:"window_days"`
}

type Summary struct {
	Instruments []InstrumentTrend `json:"instruments"`
	Sessions    SessionStats      `json:"sessions"`
}

// HeatmapCell is one ISO week of a team's scores, over per-member means.
// The statistics are nil when the cell is suppressed.
type HeatmapCell struct {
	WeekStart   string   `json:"week_start"`
	Respondents int      `json:"respondents"`
	Mean        *float64 `json:"mean,omitempty"`
	Median      *float64 `json:"median,omitempty"`
	P10         *float64 `json:"p10,omitempty"`
	P90         *float64 `json:"p90,omitempty"`
	Suppressed  bool     `json:"suppressed"`
}

type Heatmap struct {
	TeamID       string        `json:"team_id"`
	TeamName     string        `json:"team_name"`
	Instrument   string        `json:"instrument"`
	Weeks        int           `json:"weeks"`
	MinGroupSize int           `json:"min_group_size"`
	Cells        []HeatmapCell `json:"cells"`
	GeneratedAt  time.Time     `json:"generated_at"`
}
