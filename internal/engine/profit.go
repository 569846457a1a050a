package engine

import (
	"github.com/elgrid-dk/calc-cli/internal/model"
)

// SimulateProfit prices a cost base through the waterfall under seven
// alternative margin/discount scenarios. It is a free function: it has no
// dependency on catalog state. Zero overhead/risk/margin/VAT percentages
// fall back to the standard defaults; discount does not, since 0 is its
// default.
func SimulateProfit(input model.ProfitInput) model.ProfitSimulation {
	defaults := DefaultRates()
	if input.OverheadPct == 0 {
		input.OverheadPct = defaults.OverheadPct
	}
	if input.RiskPct == 0 {
		input.RiskPct = defaults.RiskPct
	}
	if input.MarginPct == 0 {
		input.MarginPct = defaults.MarginPct
	}
	if input.VATPct == 0 {
		input.VATPct = defaults.VATPct
	}

	costPrice := input.MaterialCost + input.HourlyRate*input.TotalHours

	scenarios := []struct {
		name        string
		marginPct   float64
		discountPct float64
	}{
		{"minimal_margin", 10, input.DiscountPct},
		{"low_margin", 18, input.DiscountPct},
		{"standard_margin", input.MarginPct, input.DiscountPct},
		{"high_margin", 32, input.DiscountPct},
		{"premium_margin", 40, input.DiscountPct},
		{"standard_discount_5", input.MarginPct, 5},
		{"standard_discount_10", input.MarginPct, 10},
	}

	sim := model.ProfitSimulation{
		HourlyRate: input.HourlyRate,
		TotalHours: input.TotalHours,
	}

	for _, sc := range scenarios {
		price := ComputeWaterfall(costPrice, WaterfallParams{
			OverheadPct: input.OverheadPct,
			RiskPct:     input.RiskPct,
			MarginPct:   sc.marginPct,
			DiscountPct: sc.discountPct,
			VATPct:      input.VATPct,
		}, input.TotalHours)

		sim.Scenarios = append(sim.Scenarios, model.ProfitScenario{
			Name:        sc.name,
			MarginPct:   sc.marginPct,
			DiscountPct: sc.discountPct,
			Price:       price,
		})
	}

	// All scenarios share cost price and sales basis; publish them once.
	sim.CostPrice = sim.Scenarios[0].Price.CostPrice
	sim.SalesBasis = sim.Scenarios[0].Price.SalesBasis

	return sim
}
