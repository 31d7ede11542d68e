// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitAssessmentRequest: answers ([]int, one per instrument item)
  - CreateSessionRequest: module_code, duration_seconds, mood_before, mood_after
  - CreateTeamRequest: name
  - AddMemberRequest: user_id

# Response Types

  - AssessmentListResponse, SessionListResponse: list wrappers
  - ErrorResponse: error, message

# Domain Types

  - Assessment: scored submission with optional content recommendations
  - Session: module session with derived mood_delta
  - Team, TeamMember: manager-owned groups
  - Summary, InstrumentTrend, SessionStats: per-user progress
  - Heatmap, HeatmapCell: weekly team aggregates; cells below the
    minimum group size are suppressed

# Constants

	MaxSessionSeconds = 14400
	MinMood, MaxMood  = 1, 10
	DefaultListLimit  = 20, MaxListLimit = 100
	DefaultHeatmapWeeks = 8, MaxHeatmapWeeks = 26
*/
package models
