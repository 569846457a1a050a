package model

// ProfitScenario is one row of a profit simulation: a margin/discount
// combination priced through the same waterfall as a real estimate.
type ProfitScenario struct {
	Name        string         `json:"name"`
	MarginPct   float64        `json:"margin_percentage"`
	DiscountPct float64        `json:"discount_percentage"`
	Price       PriceBreakdown `json:"price"`
}

// ProfitSimulation is the result of a standalone profit simulation.
type ProfitSimulation struct {
	CostPrice  float64          `json:"cost_price"`
	SalesBasis float64          `json:"sales_basis"`
	HourlyRate float64          `json:"hourly_rate"`
	TotalHours float64          `json:"total_hours"`
	Scenarios  []ProfitScenario `json:"scenarios"`
}
