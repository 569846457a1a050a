package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

func sampleEstimate() model.ProjectEstimate {
	return model.ProjectEstimate{
		Rooms: []model.RoomEstimate{
			{
				RoomName:          "Kitchen",
				RoomType:          "kitchen",
				Points:            map[string]int{"outlets": 6, "spots": 4},
				TotalTimeSeconds:  9000,
				TotalMaterialCost: 750,
				TotalLaborCost:    1237.50,
				TotalCost:         1987.50,
				Warnings:          []string{"IP44 rating required near sink"},
			},
		},
		Panel: model.PanelRequirements{
			TotalGroupsNeeded:          2,
			RCDGroupsNeeded:            1,
			SurgeProtectionRecommended: true,
			EstimatedPanelCost:         3520,
			Details:                    []string{"Kitchen: 1 outlet group, 1 light group"},
		},
		Cables: model.CableSummary{
			Lines: []model.CableLine{
				{CableType: "3G1.5", Meters: 17.6, CostPerMeter: 6.5, TotalCost: 114.4},
				{CableType: "3G2.5", Meters: 16.5, CostPerMeter: 8.5, TotalCost: 140.25},
			},
			TotalMeters: 34.1,
			TotalCost:   254.65,
		},
		TotalTimeSeconds:  19800,
		TotalLaborHours:   5.5,
		TotalMaterialCost: 4524.65,
		TotalLaborCost:    2722.50,
		OtherCosts:        350,
		HourlyRate:        495,
		Price:             model.PriceBreakdown{CostPrice: 7597.15, FinalAmount: 13651.13},
		ObsPoints:         []string{"OBS: panel group counts are estimated from point counts"},
		Risk: model.RiskAnalysis{
			RiskScore:            1,
			RiskLevel:            "low",
			RecommendedBufferPct: 3,
			Factors: []model.RiskFactor{
				{Type: "wet_rooms", Severity: "medium", ImpactPct: 5, Description: "bathroom or outdoor work"},
			},
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estimate.xlsx")

	require.NoError(t, WriteXLSX("Villa Andersen", sampleEstimate(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(f.Sheets))
	for _, sheet := range f.Sheets {
		names = append(names, sheet.Name)
	}
	assert.Equal(t, []string{"Overview", "Rooms", "Panel", "Cables", "Risk"}, names)

	overview := f.Sheet["Overview"]
	require.NotNil(t, overview)
	assert.Equal(t, "Project", overview.Rows[0].Cells[0].String())
	assert.Equal(t, "Villa Andersen", overview.Rows[0].Cells[1].String())

	rooms := f.Sheet["Rooms"]
	require.NotNil(t, rooms)
	// Header plus one room.
	require.Len(t, rooms.Rows, 2)
	assert.Equal(t, "Kitchen", rooms.Rows[1].Cells[0].String())
	points, err := rooms.Rows[1].Cells[2].Int()
	require.NoError(t, err)
	assert.Equal(t, 10, points)

	cables := f.Sheet["Cables"]
	require.NotNil(t, cables)
	// Header, two lines, total.
	require.Len(t, cables.Rows, 4)
	assert.Equal(t, "3G1.5", cables.Rows[1].Cells[0].String())
	assert.Equal(t, "Total", cables.Rows[3].Cells[0].String())
}

func TestWriteXLSX_BadPath(t *testing.T) {
	err := WriteXLSX("x", sampleEstimate(), filepath.Join(t.TempDir(), "missing", "estimate.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save workbook")
}
