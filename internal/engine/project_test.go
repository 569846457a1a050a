package engine

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

// One kitchen, no catalog data at all: every point prices through the
// default profile and the arithmetic is fully predictable end to end.
func TestCalculateProject_KitchenScenario(t *testing.T) {
	e := New(model.CatalogData{}, DefaultPricing(), DefaultRates())

	est := e.CalculateProject(model.ProjectInput{
		Rooms: []model.RoomInput{
			{
				Name:     "Kitchen",
				RoomType: "kitchen",
				Points:   map[string]int{"outlets": 6, "ceiling_lights": 2},
			},
		},
		HourlyRate: floatPtr(495),
	})

	// Room: 8 points × 900s default = 7200s.
	require.Len(t, est.Rooms, 1)
	assert.Equal(t, 7200.0, est.Rooms[0].TotalTimeSeconds)

	// Panel: 1 outlet group from 6 outlets ("ceiling_lights" is not a
	// mapped point kind, so no light group). Panel work adds
	// 1×3600 + 7200 = 10800s.
	assert.Equal(t, 1, est.Panel.TotalGroupsNeeded)
	assert.Equal(t, 18000.0, est.TotalTimeSeconds)
	assert.Equal(t, 5.0, est.TotalLaborHours)

	// Material: room 800 + panel 3435 + cable 24m × 8.5 = 4439.
	assert.Equal(t, 3435.0, est.Panel.EstimatedPanelCost)
	assert.Equal(t, 204.0, est.Cables.TotalCost)
	assert.Equal(t, 4439.0, est.TotalMaterialCost)

	// Labor 5h × 495 = 2475; other: one transport day = 350.
	assert.Equal(t, 2475.0, est.TotalLaborCost)
	assert.Equal(t, 350.0, est.OtherCosts)

	// Waterfall on cost price 7264 with default percentages.
	assert.Equal(t, 7264.00, est.Price.CostPrice)
	assert.Equal(t, 8353.60, est.Price.SalesBasis)
	assert.Equal(t, 10442.00, est.Price.NetPrice)
	assert.Equal(t, 13052.50, est.Price.FinalAmount)
	assert.Equal(t, 3178.00, est.Price.DBAmount)
	assert.Equal(t, 30.43, est.Price.DBPercentage)
	assert.Equal(t, 635.60, est.Price.DBPerHour)

	// No risk factors apply: score floors at 1.
	assert.Equal(t, 1, est.Risk.RiskScore)
	assert.Equal(t, "low", est.Risk.RiskLevel)

	// Only the always-present panel disclaimer.
	require.Len(t, est.ObsPoints, 1)
	assert.Contains(t, est.ObsPoints[0], "panel group counts")
}

func TestCalculateProject_Deterministic(t *testing.T) {
	e := newTestEngine()

	input := model.ProjectInput{
		Rooms: []model.RoomInput{
			{Name: "Bathroom", RoomType: "bathroom", TemplateID: "bathroom_std",
				Points: map[string]int{"outlets": 2, "spots": 4}, CeilingHeightM: 3.2},
			{Name: "Garage", RoomType: "outdoor", InstallationTypeID: "beton",
				Points: map[string]int{"ev_charger": 1, "outlets": 3}},
		},
		BuildingAgeYears: 45,
	}

	first := e.CalculateProject(input)
	second := e.CalculateProject(input)
	assert.Equal(t, first, second)
}

func TestCalculateProject_OtherCosts(t *testing.T) {
	e := newTestEngine()

	est := e.CalculateProject(model.ProjectInput{
		Rooms: []model.RoomInput{
			// Both rooms on beton: the two special tools are charged once.
			{Name: "Cellar", RoomType: "utility", InstallationTypeID: "beton",
				Points: map[string]int{"outlets": 6}},
			{Name: "Hall", RoomType: "hall", InstallationTypeID: "beton",
				Points: map[string]int{"outlets": 4}},
		},
	})

	// 6+4 beton outlets at 2250s each plus panel work (2 groups) is
	// 36900s = 10.25h: two transport days. Beton brings two special tools.
	assert.Equal(t, 10.25, est.TotalLaborHours)
	assert.Equal(t, 2*350+2*500.0, est.OtherCosts)
}

func TestCalculateProject_ObsNotices(t *testing.T) {
	e := newTestEngine()

	est := e.CalculateProject(model.ProjectInput{
		Rooms: []model.RoomInput{
			{Name: "Bathroom", RoomType: "bathroom", Points: map[string]int{"spots": 4}},
			{Name: "Garage", RoomType: "outdoor", InstallationTypeID: "beton",
				Points: map[string]int{"ev_charger": 1}},
		},
		BuildingAgeYears: 40,
	})

	joined := ""
	for _, obs := range est.ObsPoints {
		joined += obs + "\n"
	}
	assert.Contains(t, joined, "40 years old")
	assert.Contains(t, joined, "concrete or masonry")
	assert.Contains(t, joined, "DS/HD 60364-7-701")
	assert.Contains(t, joined, "EV charger")
	assert.Contains(t, joined, "panel group counts")
}

func TestCalculateProject_PercentageOverrides(t *testing.T) {
	e := newTestEngine()

	est := e.CalculateProject(model.ProjectInput{
		Rooms: []model.RoomInput{
			{Name: "Office", RoomType: "office", Points: map[string]int{"outlets": 2}},
		},
		// An explicit zero margin is an override, not an absent value.
		MarginPct:   floatPtr(0),
		DiscountPct: floatPtr(10),
	})

	assert.Equal(t, est.Price.SalesBasis, est.Price.SalePriceExVAT)
	assert.Greater(t, est.Price.DiscountAmount, 0.0)
}

func TestCalculateProject_ElectricalDetailAttached(t *testing.T) {
	e := newTestEngine().WithElectricalCalculator(
		func(rooms []model.RoomEstimate, totalGroups int) (*model.ElectricalDetail, error) {
			return &model.ElectricalDetail{
				Warnings:      []string{"group 3 near capacity"},
				CircuitSizing: map[string]string{"group_1": "13A / 3G1.5"},
			}, nil
		})

	est := e.CalculateProject(model.ProjectInput{
		Rooms: []model.RoomInput{
			{Name: "Office", RoomType: "office", Points: map[string]int{"outlets": 4}},
		},
	})
	require.NotNil(t, est.Electrical)
	assert.Equal(t, []string{"group 3 near capacity"}, est.Electrical.Warnings)
}

func TestCalculateProject_ElectricalFailureIsSwallowed(t *testing.T) {
	e := newTestEngine().WithElectricalCalculator(
		func(rooms []model.RoomEstimate, totalGroups int) (*model.ElectricalDetail, error) {
			return nil, eris.New("sizing tables unavailable")
		})

	est := e.CalculateProject(model.ProjectInput{
		Rooms: []model.RoomInput{
			{Name: "Office", RoomType: "office", Points: map[string]int{"outlets": 4}},
		},
	})

	// The base estimate is intact; only the detail section is missing.
	assert.Nil(t, est.Electrical)
	assert.Greater(t, est.Price.FinalAmount, 0.0)
}

func TestCalculateProject_RoomWarningsCollected(t *testing.T) {
	e := newTestEngine()

	est := e.CalculateProject(model.ProjectInput{
		Rooms: []model.RoomInput{
			{Name: "Bathroom", RoomType: "bathroom", TemplateID: "bathroom_std",
				Points: map[string]int{"spots": 2}},
		},
	})
	require.NotEmpty(t, est.Warnings)
	assert.Contains(t, est.Warnings[0], "Bathroom: ")
}
