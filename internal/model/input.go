package model

// RoomInput describes one room to estimate. Points maps point-kind names
// (see engine point table) to quantities; unknown kinds still price via
// the default component profile.
type RoomInput struct {
	Name               string         `json:"name" yaml:"name"`
	RoomType           string         `json:"room_type" yaml:"room_type"`
	Points             map[string]int `json:"points" yaml:"points"`
	TemplateID         string         `json:"template_id,omitempty" yaml:"template_id,omitempty"`
	InstallationTypeID string         `json:"installation_type_id,omitempty" yaml:"installation_type_id,omitempty"`
	AreaM2             float64        `json:"area_m2,omitempty" yaml:"area_m2,omitempty"`
	CeilingHeightM     float64        `json:"ceiling_height_m,omitempty" yaml:"ceiling_height_m,omitempty"`
}

// TotalPoints returns the number of electrical points in the room.
func (r RoomInput) TotalPoints() int {
	total := 0
	for _, qty := range r.Points {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// ProjectInput is the per-call input for a full project calculation.
// Nil percentage overrides fall back to configured defaults.
type ProjectInput struct {
	Rooms            []RoomInput `json:"rooms" yaml:"rooms"`
	HourlyRate       *float64    `json:"hourly_rate,omitempty" yaml:"hourly_rate,omitempty"`
	OverheadPct      *float64    `json:"overhead_percentage,omitempty" yaml:"overhead_percentage,omitempty"`
	RiskPct          *float64    `json:"risk_percentage,omitempty" yaml:"risk_percentage,omitempty"`
	MarginPct        *float64    `json:"margin_percentage,omitempty" yaml:"margin_percentage,omitempty"`
	DiscountPct      *float64    `json:"discount_percentage,omitempty" yaml:"discount_percentage,omitempty"`
	VATPct           *float64    `json:"vat_percentage,omitempty" yaml:"vat_percentage,omitempty"`
	BuildingAgeYears int         `json:"building_age_years,omitempty" yaml:"building_age_years,omitempty"`
}

// ProfitInput holds the parameters for a standalone profit simulation.
type ProfitInput struct {
	HourlyRate   float64 `json:"hourly_rate" yaml:"hourly_rate"`
	TotalHours   float64 `json:"total_hours" yaml:"total_hours"`
	MaterialCost float64 `json:"material_cost" yaml:"material_cost"`
	OverheadPct  float64 `json:"overhead_percentage" yaml:"overhead_percentage"`
	RiskPct      float64 `json:"risk_percentage" yaml:"risk_percentage"`
	MarginPct    float64 `json:"margin_percentage" yaml:"margin_percentage"`
	DiscountPct  float64 `json:"discount_percentage" yaml:"discount_percentage"`
	VATPct       float64 `json:"vat_percentage" yaml:"vat_percentage"`
}
