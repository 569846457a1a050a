package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

func TestSimulateProfit_SevenScenarios(t *testing.T) {
	sim := SimulateProfit(model.ProfitInput{
		MaterialCost: 5000,
		HourlyRate:   495,
		TotalHours:   10,
		MarginPct:    25,
	})

	require.Len(t, sim.Scenarios, 7)
	names := make([]string, 0, 7)
	for _, sc := range sim.Scenarios {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{
		"minimal_margin",
		"low_margin",
		"standard_margin",
		"high_margin",
		"premium_margin",
		"standard_discount_5",
		"standard_discount_10",
	}, names)

	// Cost price 5000 + 495×10 = 9950; basis with 12% + 3% = 11442.50.
	assert.Equal(t, 9950.0, sim.CostPrice)
	assert.Equal(t, 11442.50, sim.SalesBasis)
	for _, sc := range sim.Scenarios {
		assert.Equal(t, 9950.0, sc.Price.CostPrice)
		assert.Equal(t, 11442.50, sc.Price.SalesBasis)
	}
}

func TestSimulateProfit_ScenarioAmounts(t *testing.T) {
	sim := SimulateProfit(model.ProfitInput{
		MaterialCost: 5000,
		HourlyRate:   495,
		TotalHours:   10,
		MarginPct:    25,
	})

	byName := make(map[string]model.ProfitScenario)
	for _, sc := range sim.Scenarios {
		byName[sc.Name] = sc
	}

	assert.Equal(t, 15733.44, byName["minimal_margin"].Price.FinalAmount)
	assert.Equal(t, 17878.91, byName["standard_margin"].Price.FinalAmount)
	assert.Equal(t, 20024.38, byName["premium_margin"].Price.FinalAmount)

	disc := byName["standard_discount_10"]
	assert.Equal(t, 25.0, disc.MarginPct)
	assert.Equal(t, 10.0, disc.DiscountPct)
	assert.Equal(t, 1430.31, disc.Price.DiscountAmount)
	assert.Equal(t, 16091.02, disc.Price.FinalAmount)

	// Margin scenarios are strictly ordered by margin percentage.
	assert.Less(t, byName["minimal_margin"].Price.FinalAmount, byName["low_margin"].Price.FinalAmount)
	assert.Less(t, byName["low_margin"].Price.FinalAmount, byName["standard_margin"].Price.FinalAmount)
	assert.Less(t, byName["standard_margin"].Price.FinalAmount, byName["high_margin"].Price.FinalAmount)
	assert.Less(t, byName["high_margin"].Price.FinalAmount, byName["premium_margin"].Price.FinalAmount)
}

func TestSimulateProfit_DBConsistency(t *testing.T) {
	sim := SimulateProfit(model.ProfitInput{
		MaterialCost: 7321.55,
		HourlyRate:   525,
		TotalHours:   13.5,
		MarginPct:    22,
		DiscountPct:  2,
	})

	for _, sc := range sim.Scenarios {
		p := sc.Price
		require.Positive(t, p.NetPrice, sc.Name)
		assert.InDelta(t, p.DBAmount/p.NetPrice*100, p.DBPercentage, 0.01, sc.Name)
		assert.InDelta(t, p.DBAmount/13.5, p.DBPerHour, 0.01, sc.Name)
	}
}

func TestSimulateProfit_ZeroPercentagesFallBack(t *testing.T) {
	sim := SimulateProfit(model.ProfitInput{
		MaterialCost: 1000,
		HourlyRate:   495,
		TotalHours:   2,
	})

	// Unset margin means the standard scenario runs at the 25% default.
	var standard model.ProfitScenario
	for _, sc := range sim.Scenarios {
		if sc.Name == "standard_margin" {
			standard = sc
		}
	}
	assert.Equal(t, 25.0, standard.MarginPct)
	// Discount has no fallback: zero stays zero on margin scenarios.
	assert.Equal(t, 0.0, standard.DiscountPct)
	assert.Positive(t, standard.Price.VATAmount)
}

func TestSimulateProfit_InputDiscountAppliesToMarginScenarios(t *testing.T) {
	sim := SimulateProfit(model.ProfitInput{
		MaterialCost: 1000,
		HourlyRate:   495,
		TotalHours:   2,
		MarginPct:    25,
		DiscountPct:  3,
	})

	for _, sc := range sim.Scenarios {
		switch sc.Name {
		case "standard_discount_5":
			assert.Equal(t, 5.0, sc.DiscountPct)
		case "standard_discount_10":
			assert.Equal(t, 10.0, sc.DiscountPct)
		default:
			assert.Equal(t, 3.0, sc.DiscountPct, sc.Name)
		}
	}
}

func TestSimulateProfit_Deterministic(t *testing.T) {
	input := model.ProfitInput{
		MaterialCost: 12345.67,
		HourlyRate:   510,
		TotalHours:   41.25,
		MarginPct:    27.5,
		DiscountPct:  1.5,
	}
	assert.Equal(t, SimulateProfit(input), SimulateProfit(input))
}
