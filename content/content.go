// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/wellness-api/instruments"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Legendary Rarity = "legendary"
)

var (
	ErrUnknownLevel = errors.New("unknown flexibility level")
	ErrEmptyPool    = errors.New("content pool is empty")
)

// ExtraCount is how many common items from other categories accompany the featured item.
const ExtraCount = 2

// Draw weights in percent, most common first.
var rarityWeights = []struct {
	rarity Rarity
	weight int
}{
	{Common, 70},
	{Rare, 25},
	{Legendary, 5},
}

// LevelCategory maps an AAQ-II flexibility level to the category its featured item is drawn from.
var LevelCategory = map[string]string{
	instruments.LevelLow:      "acceptance",
	instruments.LevelModerate: "defusion",
	instruments.LevelHigh:     "values",
}

type Item struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Category string `yaml:"category" json:"category"`
	Rarity   Rarity `yaml:"rarity" json:"rarity"`
	Module   string `yaml:"module,omitempty" json:"module,omitempty"`
}

// Selection is what a user receives after an AAQ-II assessment
type Selection struct {
	Featured Item   `json:"featured"`
	Extras   []Item `json:"extras"`
}

type Catalogue struct {
	items []Item
}

var defaultCatalogue = mustLoad(catalogueYAML)

// Default returns the embedded content catalogue
func Default() *Catalogue {
	return defaultCatalogue
}

func mustLoad(data []byte) *Catalogue {
	c, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("content: embedded catalogue: %v", err))
	}
	return c
}

// Load parses a YAML content catalogue
func Load(data []byte) (*Catalogue, error) {
	var doc struct {
		Items []Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	seen := make(map[string]bool, len(doc.Items))
	for _, it := range doc.Items {
		if it.ID == "" || it.Category == "" {
			return nil, fmt.Errorf("item %q: id and category are required", it.ID)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("duplicate item %q", it.ID)
		}
		seen[it.ID] = true

		switch it.Rarity {
		case Common, Rare, Legendary:
		default:
			return nil, fmt.Errorf("item %q: unknown rarity %q", it.ID, it.Rarity)
		}
	}

	return &Catalogue{items: doc.Items}, nil
}

// Items returns every item in catalogue order
func (c *Catalogue) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Pool returns the items of one category
func (c *Catalogue) Pool(category string) []Item {
	var pool []Item
	for _, it := range c.items {
		if it.Category == category {
			pool = append(pool, it)
		}
	}
	return pool
}

// DrawRarity picks a rarity with the 70/25/5 weighting
func DrawRarity(rng *rand.Rand) Rarity {
	n := rng.IntN(100)
	for _, rw := range rarityWeights {
		if n < rw.weight {
			return rw.rarity
		}
		n -= rw.weight
	}
	return Common
}

// Select draws the featured item for a flexibility level plus ExtraCount common
// items from other categories. Extras prefer distinct categories.
func (c *Catalogue) Select(level string, rng *rand.Rand) (Selection, error) {
	category, ok := LevelCategory[level]
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	pool := c.Pool(category)
	if len(pool) == 0 {
		return Selection{}, fmt.Errorf("%w: %s", ErrEmptyPool, category)
	}

	featured := pickWithFallback(pool, DrawRarity(rng), rng)

	var candidates []Item
	for _, it := range c.items {
		if it.Category != category && it.Rarity == Common {
			candidates = append(candidates, it)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	return Selection{
		Featured: featured,
		Extras:   pickExtras(candidates, ExtraCount),
	}, nil
}

// pickWithFallback steps toward Common when the pool has nothing of the drawn rarity.
func pickWithFallback(pool []Item, want Rarity, rng *rand.Rand) Item {
	start := 0
	for i, rw := range rarityWeights {
		if rw.rarity == want {
			start = i
		}
	}

	for i := start; i >= 0; i-- {
		var matching []Item
		for _, it := range pool {
			if it.Rarity == rarityWeights[i].rarity {
				matching = append(matching, it)
			}
		}
		if len(matching) > 0 {
			return matching[rng.IntN(len(matching))]
		}
	}

	return pool[rng.IntN(len(pool))]
}

// pickExtras takes up to n items from shuffled candidates, one per category first.
func pickExtras(shuffled []Item, n int) []Item {
	extras := make([]Item, 0, n)
	used := make(map[string]bool)
	taken := make(map[string]bool)

	for _, it := range shuffled {
		if len(extras) == n {
			return extras
		}
		if used[it.Category] {
			continue
		}
		extras = append(extras, it)
		used[it.Category] = true
		taken[it.ID] = true
	}

	for _, it := range shuffled {
		if len(extras) == n {
			break
		}
		if !taken[it.ID] {
			extras = append(extras, it)
			taken[it.ID] = true
		}
	}
	return extras
}
