// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/wellness-api/instruments"
	"github.com/danielhkuo/wellness-api/middleware"
	"github.com/danielhkuo/wellness-api/modules"
)

// CatalogueHandler serves the public module and instrument catalogues
type CatalogueHandler struct {
	instruments *instruments.Registry
	modules     *modules.Catalogue
}

func NewCatalogueHandler(reg *instruments.Registry, mods *modules.Catalogue) *CatalogueHandler {
	return &CatalogueHandler{instruments: reg, modules: mods}
}

// ListModules handles GET /modules
func (h *CatalogueHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string][]modules.Module{
		"modules": h.modules.List(),
	})
}

// GetModule handles GET /modules/{code}
func (h *CatalogueHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	mod, ok := h.modules.Get(chi.URLParam(r, "code"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Module not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, mod)
}

// ListInstruments handles GET /instruments
func (h *CatalogueHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string][]instruments.Instrument{
		"instruments": h.instruments.List(),
	})
}

// GetInstrument handles GET /instruments/{code}
func (h *CatalogueHandler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instruments.Get(chi.URLParam(r, "code"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Instrument not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, inst)
}
