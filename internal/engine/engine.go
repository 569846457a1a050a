// Package engine implements the calculation intelligence core: component
// time lookup, room and project estimation, panel sizing, cable
// aggregation, risk analysis, profit simulation and anomaly detection.
//
// An Engine is built once from catalog data and is safe for concurrent
// use; every public entry point is a pure function of its arguments.
// Construct a fresh Engine when the underlying catalogs change.
package engine

import (
	"fmt"
	"math"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// Engine holds the read-only lookup tables built from catalog data.
type Engine struct {
	exact      map[string]model.ComponentTimeProfile // type:subtype:installID
	bySubtype  map[string]model.ComponentTimeProfile // type:subtype, any installation
	byType     map[string]model.ComponentTimeProfile // type only
	installs   map[string]model.InstallationType
	templates  map[string]model.RoomTemplate
	pricing    Pricing
	rates      Rates
	electrical ElectricalCalculator
}

// New builds an Engine from catalog data. Zero multipliers on installation
// types are normalized to 1 so incomplete catalog rows degrade gracefully
// instead of zeroing estimates.
func New(catalog model.CatalogData, pricing Pricing, rates Rates) *Engine {
	e := &Engine{
		exact:     make(map[string]model.ComponentTimeProfile, len(catalog.ComponentTimes)),
		bySubtype: make(map[string]model.ComponentTimeProfile),
		byType:    make(map[string]model.ComponentTimeProfile),
		installs:  make(map[string]model.InstallationType, len(catalog.InstallationTypes)),
		templates: make(map[string]model.RoomTemplate, len(catalog.RoomTemplates)),
		pricing:   pricing,
		rates:     rates,
	}

	for _, p := range catalog.ComponentTimes {
		e.exact[componentKey(p.ComponentType, p.ComponentSubtype, p.InstallationTypeID)] = p
		subKey := p.ComponentType + ":" + p.ComponentSubtype
		if _, ok := e.bySubtype[subKey]; !ok {
			e.bySubtype[subKey] = p
		}
		if _, ok := e.byType[p.ComponentType]; !ok {
			e.byType[p.ComponentType] = p
		}
	}

	for _, it := range catalog.InstallationTypes {
		if it.TimeMultiplier == 0 {
			it.TimeMultiplier = 1
		}
		if it.DifficultyMultiplier == 0 {
			it.DifficultyMultiplier = 1
		}
		if it.MaterialWasteMultiplier == 0 {
			it.MaterialWasteMultiplier = 1
		}
		e.installs[it.ID] = it
	}

	for _, tpl := range catalog.RoomTemplates {
		e.templates[tpl.ID] = tpl
	}

	return e
}

// WithElectricalCalculator attaches the optional extended electrical
// engineering pass. A failing pass never fails a project calculation.
func (e *Engine) WithElectricalCalculator(fn ElectricalCalculator) *Engine {
	e.electrical = fn
	return e
}

// InstallationType returns the installation type for an ID, if known.
func (e *Engine) InstallationType(id string) (model.InstallationType, bool) {
	it, ok := e.installs[id]
	return it, ok
}

// RoomTemplate returns the room template for an ID, if known.
func (e *Engine) RoomTemplate(id string) (model.RoomTemplate, bool) {
	tpl, ok := e.templates[id]
	return tpl, ok
}

func componentKey(componentType, subtype, installID string) string {
	return componentType + ":" + subtype + ":" + installID
}

// round2 rounds a monetary amount to 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
