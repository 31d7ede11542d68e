// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"testing"
)

func TestPercentileCalculation(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		p        float64
		expected float64
	}{
		{"empty", []float64{}, 0.5, 0.0},
		{"single value", []float64{5.0}, 0.5, 5.0},
		{"median of odd count", []float64{1.0, 2.0, 3.0}, 0.5, 2.0},
		{"median of even count", []float64{1.0, 2.0, 3.0, 4.0}, 0.5, 2.5},
		{"10th percentile", []float64{1.0, 2.0, 3.0, 4.0, 5.0}, 0.1, 1.4},
		{"90th percentile", []float64{1.0, 2.0, 3.0, 4.0, 5.0}, 0.9, 4.6},
		{"min (p=0)", []float64{1.0, 2.0, 3.0}, 0.0, 1.0},
		{"max (p=1)", []float64{1.0, 2.0, 3.0}, 1.0, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := percentile(tt.data, tt.p)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("percentile(%v, %f) = %f, want %f", tt.data, tt.p, result, tt.expected)
			}
		})
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", []float64{}, 0.0},
		{"single value", []float64{5.0}, 5.0},
		{"positive values", []float64{1.0, 2.0, 3.0}, 2.0},
		{"mixed values", []float64{-1.0, 0.0, 1.0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mean(tt.data)
			if result != tt.expected {
				t.Errorf("mean(%v) = %f, want %f", tt.data, result, tt.expected)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := round2(48.4000000001); got != 48.4 {
		t.Errorf("round2 = %v, want 48.4", got)
	}
	if got := round2(2.0 / 3.0); got != 0.67 {
		t.Errorf("round2 = %v, want 0.67", got)
	}
}
