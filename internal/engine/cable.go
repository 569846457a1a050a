package engine

import (
	"sort"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// cableSummary aggregates cable length and cost by cable type across all
// room breakdowns. The true cable type is resolved from the component
// catalog rather than the breakdown line, so a later catalog correction
// reprices existing rooms consistently.
func (e *Engine) cableSummary(rooms []model.RoomEstimate) model.CableSummary {
	meters := make(map[string]float64)
	for _, room := range rooms {
		for _, c := range room.Components {
			if c.CableMeters <= 0 {
				continue
			}
			cableType := e.cableTypeFor(c.ComponentType, c.ComponentSubtype)
			meters[cableType] += c.CableMeters
		}
	}

	types := make([]string, 0, len(meters))
	for t := range meters {
		types = append(types, t)
	}
	sort.Strings(types)

	var summary model.CableSummary
	for _, t := range types {
		price, ok := e.pricing.CablePricePerMeter[t]
		if !ok {
			price = e.pricing.DefaultCablePrice
		}
		line := model.CableLine{
			CableType:    t,
			Meters:       round2(meters[t]),
			CostPerMeter: price,
			TotalCost:    round2(meters[t] * price),
		}
		summary.Lines = append(summary.Lines, line)
		summary.TotalMeters += line.Meters
		summary.TotalCost += line.TotalCost
	}
	summary.TotalMeters = round2(summary.TotalMeters)
	summary.TotalCost = round2(summary.TotalCost)

	return summary
}
