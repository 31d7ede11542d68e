// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package instruments

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

// Instrument codes
const (
	CodeAAQ2  = "aaq2"
	CodeWHO5  = "who5"
	CodePANAS = "panas"
)

// Result levels
const (
	LevelHigh     = "high"
	LevelModerate = "moderate"
	LevelLow      = "low"

	LevelGood    = "good"
	LevelVeryLow = "very_low"

	LevelPositive = "positive"
	LevelBalanced = "balanced"
	LevelNegative = "negative"
)

var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrAnswerCount       = errors.New("wrong number of answers")
	ErrAnswerRange       = errors.New("answer out of range")
	ErrEmptyCatalogue    = errors.New("catalogue has no instruments")
	ErrCatalogueShape    = errors.New("catalogue does not match scoring rule")
)

// Instrument is a questionnaire with fixed items and a Likert range shared by every item.
type Instrument struct {
	Code        string            `yaml:"code" json:"code"`
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Min         int               `yaml:"min" json:"min"`
	Max         int               `yaml:"max" json:"max"`
	Anchors     map[int]string    `yaml:"anchors" json:"anchors,omitempty"`
	Items       []string          `yaml:"items" json:"items"`
	Levels      map[string]string `yaml:"levels" json:"levels"`
}

// Result is the scored outcome of one set of answers.
type Result struct {
	Instrument     string         `json:"instrument"`
	Score          int            `json:"score"`
	Subscales      map[string]int `json:"subscales,omitempty"`
	Level          string         `json:"level"`
	Interpretation string         `json:"interpretation"`
}

type scorer func(answers []int) (score int, subscales map[string]int, level string)

// rule is a scoring function plus the catalogue shape it was written for.
// Thresholds and item positions are only meaningful for that shape.
type rule struct {
	items  int
	min    int
	max    int
	levels []string
	score  scorer
}

var rules = map[string]rule{
	CodeAAQ2:  {items: 7, min: 1, max: 7, levels: []string{LevelHigh, LevelModerate, LevelLow}, score: scoreAAQ2},
	CodeWHO5:  {items: 5, min: 0, max: 5, levels: []string{LevelGood, LevelLow, LevelVeryLow}, score: scoreWHO5},
	CodePANAS: {items: 20, min: 1, max: 5, levels: []string{LevelPositive, LevelBalanced, LevelNegative}, score: scorePANAS},
}

// Registry holds the instruments available for assessment, in catalogue order.
type Registry struct {
	byCode map[string]Instrument
	order  []string
}

var defaultRegistry = mustLoad(catalogueYAML)

// Default returns the registry built from the embedded catalogue.
func Default() *Registry {
	return defaultRegistry
}

func mustLoad(data []byte) *Registry {
	r, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("instruments: embedded catalogue: %v", err))
	}
	return r
}

// Load parses a YAML catalogue. Every instrument needs a scoring rule compiled into this
// package, and its item count, range and level texts must match that rule.
func Load(data []byte) (*Registry, error) {
	var doc struct {
		Instruments []Instrument `yaml:"instruments"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	if len(doc.Instruments) == 0 {
		return nil, ErrEmptyCatalogue
	}

	r := &Registry{byCode: make(map[string]Instrument, len(doc.Instruments))}
	for _, inst := range doc.Instruments {
		ru, ok := rules[inst.Code]
		if !ok {
			return nil, fmt.Errorf("%w: no scoring rule for %q", ErrUnknownInstrument, inst.Code)
		}
		if _, dup := r.byCode[inst.Code]; dup {
			return nil, fmt.Errorf("duplicate instrument %q", inst.Code)
		}
		if len(inst.Items) != ru.items {
			return nil, fmt.Errorf("%w: %q has %d items, scoring expects %d", ErrCatalogueShape, inst.Code, len(inst.Items), ru.items)
		}
		if inst.Min != ru.min || inst.Max != ru.max {
			return nil, fmt.Errorf("%w: %q has range %d..%d, scoring expects %d..%d", ErrCatalogueShape, inst.Code, inst.Min, inst.Max, ru.min, ru.max)
		}
		for _, level := range ru.levels {
			if inst.Levels[level] == "" {
				return nil, fmt.Errorf("%w: %q has no text for level %q", ErrCatalogueShape, inst.Code, level)
			}
		}
		r.byCode[inst.Code] = inst
		r.order = append(r.order, inst.Code)
	}

	return r, nil
}

// List returns all instruments in catalogue order
func (r *Registry) List() []Instrument {
	out := make([]Instrument, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.byCode[code])
	}
	return out
}

// Get looks up an instrument by code
func (r *Registry) Get(code string) (Instrument, bool) {
	inst, ok := r.byCode[code]
	return inst, ok
}

// Score validates answers against the instrument and applies its scoring rule.
func (r *Registry) Score(code string, answers []int) (Result, error) {
	inst, ok := r.byCode[code]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, code)
	}

	if len(answers) != len(inst.Items) {
		return Result{}, fmt.Errorf("%w: %s expects %d, got %d", ErrAnswerCount, code, len(inst.Items), len(answers))
	}
	for i, a := range answers {
		if a < inst.Min || a > inst.Max {
			return Result{}, fmt.Errorf("%w: item %d must be between %d and %d, got %d", ErrAnswerRange, i+1, inst.Min, inst.Max, a)
		}
	}

	score, subscales, level := rules[code].score(answers)
	return Result{
		Instrument:     code,
		Score:          score,
		Subscales:      subscales,
		Level:          level,
		Interpretation: inst.Levels[level],
	}, nil
}

// FlexibilityLevel buckets an AAQ-II sum. Lower sums mean less experiential avoidance.
func FlexibilityLevel(sum int) string {
	switch {
	case sum <= 17:
		return LevelHigh
	case sum <= 24:
		return LevelModerate
	default:
		return LevelLow
	}
}

func scoreAAQ2(answers []int) (int, map[string]int, string) {
	sum := total(answers)
	return sum, nil, FlexibilityLevel(sum)
}

// WHO-5 is reported as a percentage: raw sum times four.
func scoreWHO5(answers []int) (int, map[string]int, string) {
	raw := total(answers)
	pct := raw * 4

	level := LevelGood
	switch {
	case pct <= 28:
		level = LevelVeryLow
	case pct <= 50:
		level = LevelLow
	}
	return pct, map[string]int{"raw": raw}, level
}

// panasPositive marks the positive-affect items (1-indexed 1,3,5,9,10,12,14,16,17,19).
var panasPositive = map[int]bool{0: true, 2: true, 4: true, 8: true, 9: true, 11: true, 13: true, 15: true, 16: true, 18: true}

func scorePANAS(answers []int) (int, map[string]int, string) {
	var pa, na int
	for i, a := range answers {
		if panasPositive[i] {
			pa += a
		} else {
			na += a
		}
	}

	level := LevelBalanced
	switch {
	case pa > na:
		level = LevelPositive
	case na > pa:
		level = LevelNegative
	}
	return pa, map[string]int{"positive_affect": pa, "negative_affect": na}, level
}

func total(answers []int) int {
	sum := 0
	for _, a := range answers {
		sum += a
	}
	return sum
}
