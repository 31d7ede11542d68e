// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package content selects recommended exercises after an AAQ-II assessment.

The flexibility level picks a category pool (low: acceptance, moderate:
defusion, high: values). One featured item is drawn from that pool with
70/25/5 percent odds for common/rare/legendary, then two common items are
drawn from other categories:

	sel, err := content.Default().Select(res.Level, rng)

Callers pass the *rand.Rand so selections are reproducible in tests.
*/
package content
