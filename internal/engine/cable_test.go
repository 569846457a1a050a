package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

func TestCableSummary_AggregatesByCatalogType(t *testing.T) {
	e := newTestEngine()

	rooms := []model.RoomEstimate{
		{
			RoomName: "Living room",
			Components: []model.ComponentBreakdown{
				{ComponentType: "outlet", ComponentSubtype: "standard", CableMeters: 11},
				{ComponentType: "light", ComponentSubtype: "spot", CableMeters: 26.4},
			},
		},
		{
			RoomName: "Garage",
			Components: []model.ComponentBreakdown{
				{ComponentType: "outlet", ComponentSubtype: "standard", CableMeters: 5.5},
				{ComponentType: "ev", ComponentSubtype: "charger", CableMeters: 16.5},
			},
		},
	}

	sum := e.cableSummary(rooms)
	require.Len(t, sum.Lines, 3)

	// Lines sorted by cable type.
	assert.Equal(t, "3G1.5", sum.Lines[0].CableType)
	assert.Equal(t, 26.4, sum.Lines[0].Meters)
	assert.Equal(t, 6.5, sum.Lines[0].CostPerMeter)
	assert.Equal(t, 171.6, sum.Lines[0].TotalCost)

	assert.Equal(t, "3G2.5", sum.Lines[1].CableType)
	assert.Equal(t, 16.5, sum.Lines[1].Meters)

	assert.Equal(t, "5G6", sum.Lines[2].CableType)
	assert.Equal(t, 16.5, sum.Lines[2].Meters)
	assert.Equal(t, 32.0, sum.Lines[2].CostPerMeter)

	assert.Equal(t, 59.4, sum.TotalMeters)
	// 171.6 + 140.25 + 528.
	assert.Equal(t, 839.85, sum.TotalCost)
}

func TestCableSummary_UnknownComponentUsesDefaults(t *testing.T) {
	e := newTestEngine()

	rooms := []model.RoomEstimate{
		{
			RoomName: "Odd room",
			Components: []model.ComponentBreakdown{
				{ComponentType: "disco_ball", CableMeters: 6},
			},
		},
	}

	sum := e.cableSummary(rooms)
	require.Len(t, sum.Lines, 1)
	assert.Equal(t, "3G2.5", sum.Lines[0].CableType)
	assert.Equal(t, 8.5, sum.Lines[0].CostPerMeter)
	assert.Equal(t, 51.0, sum.Lines[0].TotalCost)
}

func TestCableSummary_UnpricedCableTypeUsesDefaultPrice(t *testing.T) {
	catalog := testCatalog()
	catalog.ComponentTimes = append(catalog.ComponentTimes, model.ComponentTimeProfile{
		ComponentType:      "intercom",
		ComponentSubtype:   "video",
		CableMetersPerUnit: 10,
		CableType:          "SPECIAL-X",
	})
	e := New(catalog, DefaultPricing(), DefaultRates())

	sum := e.cableSummary([]model.RoomEstimate{
		{Components: []model.ComponentBreakdown{
			{ComponentType: "intercom", ComponentSubtype: "video", CableMeters: 10},
		}},
	})
	require.Len(t, sum.Lines, 1)
	assert.Equal(t, "SPECIAL-X", sum.Lines[0].CableType)
	assert.Equal(t, 8.5, sum.Lines[0].CostPerMeter)
}

func TestCableSummary_IgnoresZeroCable(t *testing.T) {
	e := newTestEngine()

	sum := e.cableSummary([]model.RoomEstimate{
		{Components: []model.ComponentBreakdown{
			{ComponentType: "switch", ComponentSubtype: "single", CableMeters: 0},
		}},
	})
	assert.Empty(t, sum.Lines)
	assert.Equal(t, 0.0, sum.TotalCost)
}
