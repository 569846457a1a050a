package engine

import (
	"fmt"
	"math"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// Risk scoring thresholds.
const (
	riskAgeYears         = 30
	riskAgeHighYears     = 50
	riskPointsMany       = 100
	riskPointsVeryMany   = 200
	riskValueLarge       = 200_000
	riskValueVeryLarge   = 500_000
	riskBufferMinPct     = 3
	riskBufferMaxPct     = 20
	riskDifficultyFactor = 1.5
	riskDifficultyHigh   = 2.0
)

// analyzeRisks scores project risk from building age, installation
// difficulty, project size, project value and wet-room presence.
func (e *Engine) analyzeRisks(input model.ProjectInput, rooms []model.RoomEstimate, costPrice float64) model.RiskAnalysis {
	var factors []model.RiskFactor

	if input.BuildingAgeYears > riskAgeYears {
		severity, impact := "medium", 8.0
		if input.BuildingAgeYears > riskAgeHighYears {
			severity, impact = "high", 15.0
		}
		factors = append(factors, model.RiskFactor{
			Type:        "building_age",
			Description: fmt.Sprintf("building is %d years old; hidden installation defects are likely", input.BuildingAgeYears),
			Severity:    severity,
			ImpactPct:   impact,
		})
	}

	seen := make(map[string]bool)
	for _, room := range rooms {
		it, ok := e.installs[room.InstallationTypeID]
		if !ok || seen[it.ID] || it.DifficultyMultiplier <= riskDifficultyFactor {
			continue
		}
		seen[it.ID] = true
		severity := "medium"
		if it.DifficultyMultiplier > riskDifficultyHigh {
			severity = "high"
		}
		factors = append(factors, model.RiskFactor{
			Type:        "installation_difficulty",
			Description: fmt.Sprintf("%s has difficulty multiplier %.1f", it.Name, it.DifficultyMultiplier),
			Severity:    severity,
			ImpactPct:   round2((it.DifficultyMultiplier - 1) * 10),
		})
	}

	totalPoints := 0
	for _, room := range rooms {
		totalPoints += room.TotalPoints()
	}
	if totalPoints > riskPointsMany {
		severity := "medium"
		if totalPoints > riskPointsVeryMany {
			severity = "high"
		}
		factors = append(factors, model.RiskFactor{
			Type:        "project_size",
			Description: fmt.Sprintf("%d electrical points; coordination overhead grows with size", totalPoints),
			Severity:    severity,
			ImpactPct:   5,
		})
	}

	if costPrice > riskValueLarge {
		severity := "medium"
		if costPrice > riskValueVeryLarge {
			severity = "high"
		}
		factors = append(factors, model.RiskFactor{
			Type:        "project_value",
			Description: "high project value increases exposure to estimation error",
			Severity:    severity,
			ImpactPct:   3,
		})
	}

	for _, room := range rooms {
		if model.IsHighRiskRoom(room.RoomType) {
			factors = append(factors, model.RiskFactor{
				Type:        "wet_rooms",
				Description: "bathroom or outdoor work carries extra compliance and sealing requirements",
				Severity:    "medium",
				ImpactPct:   5,
			})
			break
		}
	}

	sumImpact := 0.0
	for _, f := range factors {
		sumImpact += f.ImpactPct
	}

	score := int(math.Ceil(sumImpact / 10))
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}

	buffer := math.Round(sumImpact / 3)
	if buffer < riskBufferMinPct {
		buffer = riskBufferMinPct
	}
	if buffer > riskBufferMaxPct {
		buffer = riskBufferMaxPct
	}

	return model.RiskAnalysis{
		RiskScore:            score,
		RiskLevel:            riskLevel(score),
		Factors:              factors,
		RecommendedBufferPct: buffer,
	}
}

func riskLevel(score int) string {
	switch {
	case score <= 1:
		return "low"
	case score == 2:
		return "medium"
	case score <= 4:
		return "high"
	default:
		return "critical"
	}
}
