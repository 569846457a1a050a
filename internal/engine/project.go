package engine

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

const transportDayHours = 8

// ElectricalCalculator is the optional extended electrical engineering
// pass (cable sizing, DS/HD 60364 compliance). It is an external
// collaborator: a returned error is logged and the estimate is produced
// without the detail section.
type ElectricalCalculator func(rooms []model.RoomEstimate, totalGroups int) (*model.ElectricalDetail, error)

// CalculateProject produces the complete priced estimate for a project:
// per-room estimates, panel sizing, cable aggregation, the pricing
// waterfall, risk analysis and compliance notices.
func (e *Engine) CalculateProject(input model.ProjectInput) model.ProjectEstimate {
	rate := e.rates.HourlyRate
	if input.HourlyRate != nil && *input.HourlyRate > 0 {
		rate = *input.HourlyRate
	}
	params := WaterfallParams{
		OverheadPct: override(input.OverheadPct, e.rates.OverheadPct),
		RiskPct:     override(input.RiskPct, e.rates.RiskPct),
		MarginPct:   override(input.MarginPct, e.rates.MarginPct),
		DiscountPct: override(input.DiscountPct, e.rates.DiscountPct),
		VATPct:      override(input.VATPct, e.rates.VATPct),
	}

	est := model.ProjectEstimate{HourlyRate: rate}

	var totalTime, totalMaterial float64
	for _, roomInput := range input.Rooms {
		room := e.calculateRoom(roomInput, rate)
		totalTime += room.TotalTimeSeconds
		totalMaterial += room.TotalMaterialCost
		for _, w := range room.Warnings {
			est.Warnings = append(est.Warnings, fmt.Sprintf("%s: %s", room.RoomName, w))
		}
		est.Rooms = append(est.Rooms, room)
	}

	est.Panel = e.panelRequirements(est.Rooms)
	est.Cables = e.cableSummary(est.Rooms)
	totalMaterial += est.Panel.EstimatedPanelCost + est.Cables.TotalCost

	// Panel work: one hour per circuit group plus a fixed base.
	totalTime += float64(est.Panel.TotalGroupsNeeded)*e.pricing.PanelSecondsPerGroup + e.pricing.PanelBaseSeconds

	laborHours := totalTime / 3600
	laborCost := laborHours * rate
	otherCosts := e.otherCosts(laborHours, input.Rooms)

	est.TotalTimeSeconds = math.Round(totalTime)
	est.TotalLaborHours = round2(laborHours)
	est.TotalMaterialCost = round2(totalMaterial)
	est.TotalLaborCost = round2(laborCost)
	est.OtherCosts = round2(otherCosts)

	costPrice := est.TotalMaterialCost + est.TotalLaborCost + est.OtherCosts
	est.Price = ComputeWaterfall(costPrice, params, laborHours)

	est.Risk = e.analyzeRisks(input, est.Rooms, costPrice)
	est.ObsPoints = e.obsPoints(input, est)

	if e.electrical != nil {
		detail, err := e.electrical(est.Rooms, est.Panel.TotalGroupsNeeded)
		if err != nil {
			zap.L().Warn("engine: electrical detail pass failed, continuing without it",
				zap.Error(err))
		} else {
			est.Electrical = detail
		}
	}

	zap.L().Debug("engine: project calculated",
		zap.Int("rooms", len(est.Rooms)),
		zap.Int("total_groups", est.Panel.TotalGroupsNeeded),
		zap.Float64("cost_price", est.Price.CostPrice),
		zap.Float64("final_amount", est.Price.FinalAmount),
		zap.Int("risk_score", est.Risk.RiskScore),
	)

	return est
}

// otherCosts covers transport (one trip charge per started work day) and
// the surcharge for special tooling demanded by the installation surfaces.
func (e *Engine) otherCosts(laborHours float64, rooms []model.RoomInput) float64 {
	transport := math.Ceil(laborHours/transportDayHours) * e.pricing.TransportCostPerDay

	seen := make(map[string]bool)
	tools := 0.0
	for _, room := range rooms {
		if room.InstallationTypeID == "" || seen[room.InstallationTypeID] {
			continue
		}
		seen[room.InstallationTypeID] = true
		if it, ok := e.installs[room.InstallationTypeID]; ok {
			tools += float64(len(it.SpecialTools())) * e.pricing.SpecialToolCost
		}
	}

	return transport + tools
}

// obsPoints generates the compliance/disclaimer notices surfaced on the
// final offer text.
func (e *Engine) obsPoints(input model.ProjectInput, est model.ProjectEstimate) []string {
	var obs []string

	if input.BuildingAgeYears > 30 {
		obs = append(obs, fmt.Sprintf(
			"OBS: building is %d years old; existing wiring and panel may not meet current regulations and can add unforeseen work",
			input.BuildingAgeYears))
	}

	for _, room := range input.Rooms {
		if it, ok := e.installs[room.InstallationTypeID]; ok && (it.Code == "BETON" || it.Code == "MUR") {
			obs = append(obs,
				"OBS: chasing in concrete or masonry requires surface reinstatement, which is not included unless itemized")
			break
		}
	}

	for _, room := range est.Rooms {
		if model.IsHighRiskRoom(room.RoomType) {
			obs = append(obs,
				"OBS: wet room and outdoor circuits must meet the IP rating requirements of DS/HD 60364-7-701")
			break
		}
	}

	for _, room := range input.Rooms {
		if room.Points["ev_charger"] > 0 {
			obs = append(obs,
				"OBS: EV charger installation may require utility notification and a supply capacity check")
			break
		}
	}

	if est.Risk.RiskLevel == "high" || est.Risk.RiskLevel == "critical" {
		obs = append(obs, fmt.Sprintf(
			"OBS: project risk is %s; a buffer of %s%% on the cost price is recommended",
			est.Risk.RiskLevel, formatPct(est.Risk.RecommendedBufferPct)))
	}

	obs = append(obs,
		"OBS: panel group counts are estimated from point counts; final sizing is confirmed on inspection")

	return obs
}

func override(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}
