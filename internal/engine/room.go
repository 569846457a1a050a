package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// Ceiling height above which installation time scales up; the scale basis
// is the standard 2.5m room height.
const (
	standardCeilingM  = 2.5
	highCeilingM      = 3.0
	outletDensityMin  = 0.3 // recommended outlets per m²
	difficultyWarnMul = 1.5
)

// CalculateRoom estimates a single room at the configured default hourly
// rate. The estimate is rebuilt from scratch on every call; repeated calls
// with identical input return identical output.
func (e *Engine) CalculateRoom(input model.RoomInput) model.RoomEstimate {
	return e.calculateRoom(input, e.rates.HourlyRate)
}

func (e *Engine) calculateRoom(input model.RoomInput, hourlyRate float64) model.RoomEstimate {
	est := model.RoomEstimate{
		RoomName:           input.Name,
		RoomType:           input.RoomType,
		Points:             input.Points,
		InstallationTypeID: input.InstallationTypeID,
	}

	// Deterministic breakdown order.
	kinds := make([]string, 0, len(input.Points))
	for kind, qty := range input.Points {
		if qty > 0 {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)

	var totalTime, totalMaterial, totalCable float64
	for _, kind := range kinds {
		qty := input.Points[kind]
		pc, _ := lookupPoint(kind)
		ct := e.ComponentTime(pc.Type, pc.Subtype, input.InstallationTypeID, qty)

		totalTime += ct.TotalTimeSeconds
		totalMaterial += ct.MaterialCost
		totalCable += ct.CableMeters

		est.Components = append(est.Components, model.ComponentBreakdown{
			PointKind:        kind,
			ComponentType:    pc.Type,
			ComponentSubtype: pc.Subtype,
			Quantity:         qty,
			TimeSeconds:      math.Round(ct.TotalTimeSeconds),
			MaterialCost:     round2(ct.MaterialCost),
			CableMeters:      round2(ct.CableMeters),
			CableType:        ct.CableType,
		})
	}

	e.roomAdvice(&est, input)

	// High ceilings slow everything down. Applied once, after
	// accumulation, so rebuilding the estimate never compounds it.
	if input.CeilingHeightM > highCeilingM {
		factor := input.CeilingHeightM / standardCeilingM
		totalTime *= factor
		est.Warnings = append(est.Warnings, fmt.Sprintf(
			"ceiling height %.1fm exceeds %.1fm; installation time scaled by %.2f",
			input.CeilingHeightM, highCeilingM, factor))
	}

	est.TotalTimeSeconds = math.Round(totalTime)
	est.TotalMaterialCost = round2(totalMaterial)
	est.TotalCableMeters = round2(totalCable)
	est.TotalLaborCost = round2(totalTime / 3600 * hourlyRate)
	est.TotalCost = round2(est.TotalMaterialCost + est.TotalLaborCost)

	return est
}

// roomAdvice emits the qualitative warnings and recommendations for a
// room. Pure string generation, no effect on the numbers.
func (e *Engine) roomAdvice(est *model.RoomEstimate, input model.RoomInput) {
	if tpl, ok := e.templates[input.TemplateID]; ok {
		for _, req := range tpl.SpecialRequirements {
			est.Warnings = append(est.Warnings, fmt.Sprintf("%s: %s", req.Requirement, req.Description))
		}
		if tpl.RecommendedRCD && input.Points["rcd"] == 0 {
			est.Recommendations = append(est.Recommendations,
				"HPFI/RCD protection is recommended for this room type but no RCD point was specified")
		}
	}

	if it, ok := e.installs[input.InstallationTypeID]; ok {
		if it.DifficultyMultiplier > difficultyWarnMul {
			est.Warnings = append(est.Warnings, fmt.Sprintf(
				"installation in %s has difficulty multiplier %.1f; expect slower progress",
				it.Name, it.DifficultyMultiplier))
		}
		if len(it.RequiredTools) > 0 {
			est.Recommendations = append(est.Recommendations, fmt.Sprintf(
				"bring tools for %s: %s", it.Name, toolNames(it.RequiredTools)))
		}
	}

	if input.AreaM2 > 0 {
		outlets := countCategory(input.Points, categoryOutlet)
		if float64(outlets)/input.AreaM2 < outletDensityMin {
			est.Recommendations = append(est.Recommendations, fmt.Sprintf(
				"only %d outlets for %.0f m²; consider more to meet modern usage",
				outlets, input.AreaM2))
		}
	}
}

func toolNames(tools []model.RequiredTool) string {
	names := ""
	for i, tool := range tools {
		if i > 0 {
			names += ", "
		}
		names += tool.Name
		if tool.Special {
			names += " (special)"
		}
	}
	return names
}
