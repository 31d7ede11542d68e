// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package modules is the catalogue of guided wellness modules.
package modules

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

// Module is one guided experience and the instrument used to track its effect
type Module struct {
	Code        string `yaml:"code" json:"code"`
	Name        string `yaml:"name" json:"name"`
	Kind        string `yaml:"kind" json:"kind"`
	Instrument  string `yaml:"instrument" json:"instrument"`
	Minutes     int    `yaml:"minutes" json:"minutes"`
	Description string `yaml:"description" json:"description"`
}

type Catalogue struct {
	byCode map[string]Module
	order  []string
}

var defaultCatalogue = func() *Catalogue {
	c, err := Load(catalogueYAML)
	if err != nil {
		panic(fmt.Sprintf("modules: embedded catalogue: %v", err))
	}
	return c
}()

func Default() *Catalogue {
	return defaultCatalogue
}

func Load(data []byte) (*Catalogue, error) {
	var doc struct {
		Modules []Module `yaml:"modules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	c := &Catalogue{byCode: make(map[string]Module, len(doc.Modules))}
	for _, m := range doc.Modules {
		if m.Code == "" {
			return nil, fmt.Errorf("module %q: code is required", m.Name)
		}
		if _, dup := c.byCode[m.Code]; dup {
			return nil, fmt.Errorf("duplicate module %q", m.Code)
		}
		c.byCode[m.Code] = m
		c.order = append(c.order, m.Code)
	}
	return c, nil
}

func (c *Catalogue) List() []Module {
	out := make([]Module, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

func (c *Catalogue) Get(code string) (Module, bool) {
	m, ok := c.byCode[code]
	return m, ok
}
