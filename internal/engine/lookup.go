package engine

import (
	"github.com/elgrid-dk/calc-cli/internal/model"
)

// Lookup tiers, most to least specific.
const (
	SourceExact   = "exact"
	SourceSubtype = "subtype"
	SourceType    = "type"
	SourceDefault = "default"
)

// ComponentTime is the resolved time/material/cable profile for a quantity
// of one component. Source tags which lookup tier produced it.
type ComponentTime struct {
	TotalTimeSeconds float64              `json:"total_time_seconds"`
	InstallSeconds   float64              `json:"install_time_seconds"`
	WiringSeconds    float64              `json:"wiring_time_seconds"`
	FinishingSeconds float64              `json:"finishing_time_seconds"`
	CableMeters      float64              `json:"cable_meters"`
	CableType        string               `json:"cable_type"`
	MaterialCost     float64              `json:"material_cost"`
	Materials        []model.MaterialLine `json:"materials,omitempty"`
	Source           string               `json:"source"`
}

// ComponentTime resolves a (type, subtype, installation type) triple to a
// time profile for the given quantity. Resolution degrades through three
// tiers — exact triple, type+subtype on any installation, type only — and
// bottoms out at a hardcoded default profile, so an incomplete catalog
// never fails a calculation.
func (e *Engine) ComponentTime(componentType, subtype, installTypeID string, quantity int) ComponentTime {
	if quantity < 0 {
		quantity = 0
	}
	qty := float64(quantity)

	profile, source, ok := e.resolveProfile(componentType, subtype, installTypeID)
	if !ok {
		return ComponentTime{
			TotalTimeSeconds: e.pricing.DefaultComponentSeconds * qty,
			InstallSeconds:   e.pricing.DefaultComponentSeconds * qty,
			CableMeters:      e.pricing.DefaultCableMeters * qty,
			CableType:        e.pricing.DefaultCableType,
			MaterialCost:     e.pricing.DefaultMaterialCost * qty,
			Source:           SourceDefault,
		}
	}

	timeMul, diffMul, wasteMul := 1.0, 1.0, 1.0
	if installTypeID != "" {
		if it, found := e.installs[installTypeID]; found {
			timeMul = it.TimeMultiplier
			diffMul = it.DifficultyMultiplier
			wasteMul = it.MaterialWasteMultiplier
		}
	}

	install := profile.InstallSeconds * timeMul * diffMul * qty
	wiring := profile.WiringSeconds * timeMul * qty
	finishing := profile.FinishingSeconds * timeMul * qty

	var materials []model.MaterialLine
	for _, m := range profile.Materials {
		m.Quantity = m.Quantity * wasteMul * qty
		materials = append(materials, m)
	}

	return ComponentTime{
		TotalTimeSeconds: install + wiring + finishing,
		InstallSeconds:   install,
		WiringSeconds:    wiring,
		FinishingSeconds: finishing,
		CableMeters:      profile.CableMetersPerUnit * qty * e.pricing.CableWasteFactor,
		CableType:        profile.CableType,
		MaterialCost:     profile.MaterialCost * qty,
		Materials:        materials,
		Source:           source,
	}
}

// resolveProfile walks the three lookup tiers.
func (e *Engine) resolveProfile(componentType, subtype, installTypeID string) (model.ComponentTimeProfile, string, bool) {
	if p, ok := e.exact[componentKey(componentType, subtype, installTypeID)]; ok {
		return p, SourceExact, true
	}
	if p, ok := e.bySubtype[componentType+":"+subtype]; ok {
		return p, SourceSubtype, true
	}
	if p, ok := e.byType[componentType]; ok {
		return p, SourceType, true
	}
	return model.ComponentTimeProfile{}, "", false
}

// cableTypeFor resolves the catalog cable type for a component, falling
// back to the default cable type when the catalog has no match.
func (e *Engine) cableTypeFor(componentType, subtype string) string {
	if p, ok := e.bySubtype[componentType+":"+subtype]; ok && p.CableType != "" {
		return p.CableType
	}
	if p, ok := e.byType[componentType]; ok && p.CableType != "" {
		return p.CableType
	}
	return e.pricing.DefaultCableType
}
