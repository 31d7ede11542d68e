// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package instruments holds the psychometric questionnaires and their scoring rules.

# Catalogue

Instrument metadata (item texts, Likert range, anchors, level interpretations)
lives in catalogue.yaml, embedded at build time:

	reg := instruments.Default()
	inst, ok := reg.Get("who5")

Scoring rules are Go functions keyed by instrument code. Load refuses a
catalogue entry without a matching rule.

# Scoring

	res, err := reg.Score("aaq2", []int{2, 3, 1, 2, 4, 3, 2})

  - aaq2: sum of 7 items (1..7). Sum <= 17 is high flexibility, <= 24 moderate, else low.
  - who5: raw sum of 5 items (0..5) times four. <= 28 very_low, <= 50 low, else good.
  - panas: positive and negative affect subscales over 20 items (1..5).

Score returns ErrUnknownInstrument, ErrAnswerCount or ErrAnswerRange for
input that does not fit the instrument.
*/
package instruments
