// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"
	"time"

	"github.com/danielhkuo/wellness-api/models"
)

// ScorePoint is one member's result inside a team heatmap window
type ScorePoint struct {
	UserID string
	Score  int
	At     time.Time
}

// WeekStart returns 00:00 UTC on the Monday of t's ISO week
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// HeatmapStart is the Monday opening the oldest of the weeks ending with now's week
func HeatmapStart(now time.Time, weeks int) time.Time {
	return WeekStart(now).AddDate(0, 0, -7*(weeks-1))
}

// BuildHeatmap buckets points into weekly cells, oldest first. Each member's
// scores in a week are averaged first, so frequent responders do not
// dominate. Cells with fewer than minGroup members carry no statistics.
func BuildHeatmap(points []ScorePoint, now time.Time, weeks, minGroup int) []models.HeatmapCell {
	start := HeatmapStart(now, weeks)

	type acc struct {
		sum   int
		count int
	}
	buckets := make([]map[string]*acc, weeks)
	for i := range buckets {
		buckets[i] = make(map[string]*acc)
	}

	for _, p := range points {
		ws := WeekStart(p.At)
		if ws.Before(start) {
			continue
		}
		idx := int(ws.Sub(start).Hours() / (24 * 7))
		if idx >= weeks {
			continue
		}

		a, ok := buckets[idx][p.UserID]
		if !ok {
			a = &acc{}
			buckets[idx][p.UserID] = a
		}
		a.sum += p.Score
		a.count++
	}

	cells := make([]models.HeatmapCell, weeks)
	for i, members := range buckets {
		cells[i] = models.HeatmapCell{
			WeekStart:   start.AddDate(0, 0, 7*i).Format(time.DateOnly),
			Respondents: len(members),
		}

		if len(members) == 0 || len(members) < minGroup {
			cells[i].Suppressed = true
			continue
		}

		memberMeans := make([]float64, 0, len(members))
		for _, a := range members {
			memberMeans = append(memberMeans, float64(a.sum)/float64(a.count))
		}
		sort.Float64s(memberMeans)

		m := round2(mean(memberMeans))
		median := round2(percentile(memberMeans, 0.5))
		p10 := round2(percentile(memberMeans, 0.1))
		p90 := round2(percentile(memberMeans, 0.9))
		cells[i].Mean = &m
		cells[i].Median = &median
		cells[i].P10 = &p10
		cells[i].P90 = &p90
	}
	return cells
}
