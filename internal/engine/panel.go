package engine

import (
	"fmt"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// Circuit capacity rules: outlets per group, lighting points per group.
const (
	outletsPerGroup = 6
	lightsPerGroup  = 10
)

// panelRequirements derives circuit group counts and panel cost from the
// aggregated room point counts. High-power appliances each consume a
// dedicated circuit; wet rooms accumulate RCD group requirements.
func (e *Engine) panelRequirements(rooms []model.RoomEstimate) model.PanelRequirements {
	req := model.PanelRequirements{SurgeProtectionRecommended: true}

	for _, room := range rooms {
		outlets := countCategory(room.Points, categoryOutlet)
		lights := countCategory(room.Points, categoryLight)
		dedicated := countCategory(room.Points, categoryDedicated)

		outletGroups := ceilDiv(outlets, outletsPerGroup)
		lightGroups := ceilDiv(lights, lightsPerGroup)
		roomGroups := outletGroups + lightGroups + dedicated
		if roomGroups == 0 {
			continue
		}

		req.TotalGroupsNeeded += roomGroups
		if model.RequiresRCDGroups(room.RoomType) {
			req.RCDGroupsNeeded += ceilDiv(roomGroups, 2)
		}

		req.Details = append(req.Details, fmt.Sprintf(
			"%s: %d groups (%d outlet, %d light, %d dedicated)",
			room.RoomName, roomGroups, outletGroups, lightGroups, dedicated))
	}

	// Every installation needs at least one RCD-protected group.
	if req.RCDGroupsNeeded < 1 {
		req.RCDGroupsNeeded = 1
	}
	req.MainBreakerUpgrade = req.TotalGroupsNeeded > e.pricing.MainBreakerThreshold

	cost := float64(req.TotalGroupsNeeded)*e.pricing.PanelGroupCost +
		float64(req.RCDGroupsNeeded)*e.pricing.RCDGroupCost +
		e.pricing.SurgeProtectionCost
	if req.MainBreakerUpgrade {
		cost += e.pricing.MainBreakerUpgradeCost
	}
	if req.TotalGroupsNeeded > e.pricing.EnclosureLargeThreshold {
		cost += e.pricing.EnclosureLargeCost
	} else {
		cost += e.pricing.EnclosureSmallCost
	}
	req.EstimatedPanelCost = round2(cost)

	return req
}
