package engine

import (
	"github.com/shopspring/decimal"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// Pricing holds the domain pricing constants used by the panel, cable and
// other-cost calculations. These are defaults a deployment can override
// through configuration, not hardwired law.
type Pricing struct {
	PanelGroupCost          float64            `mapstructure:"panel_group_cost"`
	RCDGroupCost            float64            `mapstructure:"rcd_group_cost"`
	MainBreakerUpgradeCost  float64            `mapstructure:"main_breaker_upgrade_cost"`
	SurgeProtectionCost     float64            `mapstructure:"surge_protection_cost"`
	EnclosureSmallCost      float64            `mapstructure:"enclosure_small_cost"`
	EnclosureLargeCost      float64            `mapstructure:"enclosure_large_cost"`
	EnclosureLargeThreshold int                `mapstructure:"enclosure_large_threshold"`
	MainBreakerThreshold    int                `mapstructure:"main_breaker_threshold"`
	PanelSecondsPerGroup    float64            `mapstructure:"panel_seconds_per_group"`
	PanelBaseSeconds        float64            `mapstructure:"panel_base_seconds"`
	TransportCostPerDay     float64            `mapstructure:"transport_cost_per_day"`
	SpecialToolCost         float64            `mapstructure:"special_tool_cost"`
	CablePricePerMeter      map[string]float64 `mapstructure:"cable_price_per_meter"`
	DefaultCablePrice       float64            `mapstructure:"default_cable_price"`
	DefaultCableType        string             `mapstructure:"default_cable_type"`
	CableWasteFactor        float64            `mapstructure:"cable_waste_factor"`
	DefaultComponentSeconds float64            `mapstructure:"default_component_seconds"`
	DefaultCableMeters      float64            `mapstructure:"default_cable_meters"`
	DefaultMaterialCost     float64            `mapstructure:"default_material_cost"`
}

// DefaultPricing returns the standard DK contractor pricing constants.
func DefaultPricing() Pricing {
	return Pricing{
		PanelGroupCost:          85,
		RCDGroupCost:            650,
		MainBreakerUpgradeCost:  2500,
		SurgeProtectionCost:     1200,
		EnclosureSmallCost:      1500,
		EnclosureLargeCost:      2800,
		EnclosureLargeThreshold: 12,
		MainBreakerThreshold:    20,
		PanelSecondsPerGroup:    3600,
		PanelBaseSeconds:        7200,
		TransportCostPerDay:     350,
		SpecialToolCost:         500,
		CablePricePerMeter: map[string]float64{
			"3G1.5": 6.5,
			"3G2.5": 8.5,
			"3G6":   24,
			"5G2.5": 14,
			"5G4":   22,
			"5G6":   32,
			"5G10":  48,
			"CAT6":  5.5,
		},
		DefaultCablePrice:       8.5,
		DefaultCableType:        "3G2.5",
		CableWasteFactor:        1.10,
		DefaultComponentSeconds: 900,
		DefaultCableMeters:      3,
		DefaultMaterialCost:     100,
	}
}

// Rates holds the hourly rate and waterfall percentage defaults applied
// when a project input does not override them.
type Rates struct {
	HourlyRate  float64 `mapstructure:"hourly_rate"`
	OverheadPct float64 `mapstructure:"overhead_percentage"`
	RiskPct     float64 `mapstructure:"risk_percentage"`
	MarginPct   float64 `mapstructure:"margin_percentage"`
	DiscountPct float64 `mapstructure:"discount_percentage"`
	VATPct      float64 `mapstructure:"vat_percentage"`
}

// DefaultRates returns the standard rate and percentage defaults.
func DefaultRates() Rates {
	return Rates{
		HourlyRate:  495,
		OverheadPct: 12,
		RiskPct:     3,
		MarginPct:   25,
		DiscountPct: 0,
		VATPct:      25,
	}
}

// WaterfallParams are the percentages applied by the pricing waterfall.
type WaterfallParams struct {
	OverheadPct float64
	RiskPct     float64
	MarginPct   float64
	DiscountPct float64
	VATPct      float64
}

var hundred = decimal.NewFromInt(100)

// ComputeWaterfall prices a cost price through the fixed waterfall:
// overhead and risk on cost price, margin on the sales basis, discount on
// the sale price, VAT on the net price. This ordering is a contract;
// reordering the steps changes the final amount. All published figures are
// rounded to 2 decimals, computed in decimal arithmetic so identical
// inputs always produce identical output.
func ComputeWaterfall(costPrice float64, params WaterfallParams, laborHours float64) model.PriceBreakdown {
	cost := decimal.NewFromFloat(costPrice)

	overhead := cost.Mul(decimal.NewFromFloat(params.OverheadPct)).Div(hundred)
	risk := cost.Mul(decimal.NewFromFloat(params.RiskPct)).Div(hundred)
	salesBasis := cost.Add(overhead).Add(risk)
	margin := salesBasis.Mul(decimal.NewFromFloat(params.MarginPct)).Div(hundred)
	saleExVAT := salesBasis.Add(margin)
	discount := saleExVAT.Mul(decimal.NewFromFloat(params.DiscountPct)).Div(hundred)
	net := saleExVAT.Sub(discount)
	vat := net.Mul(decimal.NewFromFloat(params.VATPct)).Div(hundred)
	final := net.Add(vat)

	db := net.Sub(cost)
	dbPct := decimal.Zero
	if !net.IsZero() {
		dbPct = db.Div(net).Mul(hundred)
	}
	dbPerHour := decimal.Zero
	if laborHours > 0 {
		dbPerHour = db.Div(decimal.NewFromFloat(laborHours))
	}

	return model.PriceBreakdown{
		CostPrice:      round2dec(cost),
		OverheadAmount: round2dec(overhead),
		RiskAmount:     round2dec(risk),
		SalesBasis:     round2dec(salesBasis),
		MarginAmount:   round2dec(margin),
		SalePriceExVAT: round2dec(saleExVAT),
		DiscountAmount: round2dec(discount),
		NetPrice:       round2dec(net),
		VATAmount:      round2dec(vat),
		FinalAmount:    round2dec(final),
		DBAmount:       round2dec(db),
		DBPercentage:   round2dec(dbPct),
		DBPerHour:      round2dec(dbPerHour),
	}
}

func round2dec(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
