package engine

import (
	"fmt"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// Anomaly detection bounds.
const (
	hoursPerPointMin  = 0.1
	hoursPerPointMax  = 2.0
	marginWarnPct     = 15.0
	marginCriticalPct = 10.0
	materialRatioMin  = 0.2
	materialRatioMax  = 0.7
)

// DetectAnomalies flags suspicious calculations: extreme hours per point,
// thin margins, missing wet-room RCD protection and abnormal material cost
// ratios. It is a free function over plain data; each check is
// independent. Every anomaly carries both a human-readable message and the
// underlying numbers in Details. The engine never blocks on an anomaly —
// deciding whether a critical one stops an offer is the caller's call.
func DetectAnomalies(input model.AnomalyInput) []model.Anomaly {
	var anomalies []model.Anomaly

	if points := input.TotalPoints(); points > 0 && input.TotalHours > 0 {
		perPoint := input.TotalHours / float64(points)
		if perPoint < hoursPerPointMin || perPoint > hoursPerPointMax {
			direction := "high"
			if perPoint < hoursPerPointMin {
				direction = "low"
			}
			anomalies = append(anomalies, model.Anomaly{
				Type:     "hours_per_point",
				Severity: model.SeverityWarning,
				Message: fmt.Sprintf("%.2f hours per electrical point is unusually %s (expected %.1f-%.1f)",
					perPoint, direction, hoursPerPointMin, hoursPerPointMax),
				Details: map[string]any{
					"hours_per_point": round2(perPoint),
					"total_hours":     input.TotalHours,
					"total_points":    points,
					"min":             hoursPerPointMin,
					"max":             hoursPerPointMax,
				},
			})
		}
	}

	if input.MarginPct < marginCriticalPct {
		anomalies = append(anomalies, model.Anomaly{
			Type:     "low_margin",
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("margin of %.1f%% is below the %.0f%% critical threshold", input.MarginPct, marginCriticalPct),
			Details: map[string]any{
				"margin_percentage":  input.MarginPct,
				"critical_threshold": marginCriticalPct,
				"warning_threshold":  marginWarnPct,
			},
		})
	} else if input.MarginPct < marginWarnPct {
		anomalies = append(anomalies, model.Anomaly{
			Type:     "low_margin",
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("margin of %.1f%% is below the %.0f%% warning threshold", input.MarginPct, marginWarnPct),
			Details: map[string]any{
				"margin_percentage":  input.MarginPct,
				"critical_threshold": marginCriticalPct,
				"warning_threshold":  marginWarnPct,
			},
		})
	}

	for _, room := range input.Rooms {
		if model.IsHighRiskRoom(room.RoomType) && !room.HasRCD() {
			anomalies = append(anomalies, model.Anomaly{
				Type:     "missing_rcd",
				Severity: model.SeverityCritical,
				Message: fmt.Sprintf("%s room %q has no HPFI/RCD protection; this is a compliance requirement",
					room.RoomType, room.RoomName),
				Details: map[string]any{
					"room_name": room.RoomName,
					"room_type": room.RoomType,
				},
			})
		}
	}

	if input.TotalCost > 0 {
		ratio := input.MaterialCost / input.TotalCost
		if ratio < materialRatioMin {
			anomalies = append(anomalies, model.Anomaly{
				Type:     "material_ratio",
				Severity: model.SeverityInfo,
				Message:  fmt.Sprintf("material cost is only %.0f%% of total; check whether materials were forgotten", ratio*100),
				Details: map[string]any{
					"material_cost_ratio": round2(ratio),
					"min":                 materialRatioMin,
					"max":                 materialRatioMax,
				},
			})
		} else if ratio > materialRatioMax {
			anomalies = append(anomalies, model.Anomaly{
				Type:     "material_ratio",
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("material cost is %.0f%% of total; labor may be underestimated", ratio*100),
				Details: map[string]any{
					"material_cost_ratio": round2(ratio),
					"min":                 materialRatioMin,
					"max":                 materialRatioMax,
				},
			})
		}
	}

	return anomalies
}
