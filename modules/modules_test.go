// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/wellness-api/content"
	"github.com/danielhkuo/wellness-api/instruments"
)

func TestDefaultModulesReferenceKnownInstruments(t *testing.T) {
	reg := instruments.Default()
	for _, m := range Default().List() {
		_, ok := reg.Get(m.Instrument)
		assert.True(t, ok, "module %s references unknown instrument %s", m.Code, m.Instrument)
		assert.Positive(t, m.Minutes, "module %s", m.Code)
	}
}

func TestContentReferencesKnownModules(t *testing.T) {
	cat := Default()
	for _, it := range content.Default().Items() {
		if it.Module == "" {
			continue
		}
		_, ok := cat.Get(it.Module)
		assert.True(t, ok, "content %s references unknown module %s", it.ID, it.Module)
	}
}

func TestGet(t *testing.T) {
	m, ok := Default().Get("breathing-478")
	require.True(t, ok)
	assert.Equal(t, "breathing", m.Kind)

	_, ok = Default().Get("nope")
	assert.False(t, ok)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	_, err := Load([]byte("modules:\n  - {code: a, name: A}\n  - {code: a, name: B}\n"))
	assert.Error(t, err)

	_, err = Load([]byte("modules:\n  - {name: A}\n"))
	assert.Error(t, err)
}
