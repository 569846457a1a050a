package model

// ComponentBreakdown is one line of a room estimate: the time, material
// and cable contribution of a single point kind.
type ComponentBreakdown struct {
	PointKind        string  `json:"point_kind"`
	ComponentType    string  `json:"component_type"`
	ComponentSubtype string  `json:"component_subtype,omitempty"`
	Quantity         int     `json:"quantity"`
	TimeSeconds      float64 `json:"time_seconds"`
	MaterialCost     float64 `json:"material_cost"`
	CableMeters      float64 `json:"cable_meters"`
	CableType        string  `json:"cable_type,omitempty"`
}

// RoomEstimate is the computed estimate for one room. It is rebuilt from
// scratch on every calculation and never mutated afterwards.
type RoomEstimate struct {
	RoomName           string               `json:"room_name"`
	RoomType           string               `json:"room_type"`
	Points             map[string]int       `json:"points"`
	InstallationTypeID string               `json:"installation_type_id,omitempty"`
	TotalTimeSeconds   float64              `json:"total_time_seconds"`
	TotalMaterialCost  float64              `json:"total_material_cost"`
	TotalCableMeters   float64              `json:"total_cable_meters"`
	TotalLaborCost     float64              `json:"total_labor_cost"`
	TotalCost          float64              `json:"total_cost"`
	Components         []ComponentBreakdown `json:"components"`
	Warnings           []string             `json:"warnings,omitempty"`
	Recommendations    []string             `json:"recommendations,omitempty"`
}

// HasRCD reports whether the room carries residual-current protection,
// either as an input point or as a breakdown line.
func (r RoomEstimate) HasRCD() bool {
	if r.Points["rcd"] > 0 {
		return true
	}
	for _, c := range r.Components {
		if c.ComponentType == "panel" && c.ComponentSubtype == "rcd" {
			return true
		}
	}
	return false
}

// TotalPoints returns the number of electrical points in the room.
func (r RoomEstimate) TotalPoints() int {
	total := 0
	for _, qty := range r.Points {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// PanelRequirements describes the derived circuit-breaker panel sizing.
type PanelRequirements struct {
	TotalGroupsNeeded          int      `json:"total_groups_needed"`
	RCDGroupsNeeded            int      `json:"rcd_groups_needed"`
	MainBreakerUpgrade         bool     `json:"main_breaker_upgrade"`
	SurgeProtectionRecommended bool     `json:"surge_protection_recommended"`
	EstimatedPanelCost         float64  `json:"estimated_panel_cost"`
	Details                    []string `json:"details,omitempty"`
}

// CableLine aggregates one cable type across all rooms.
type CableLine struct {
	CableType    string  `json:"cable_type"`
	Meters       float64 `json:"meters"`
	CostPerMeter float64 `json:"cost_per_meter"`
	TotalCost    float64 `json:"total_cost"`
}

// CableSummary aggregates cable requirements by type. Lines are sorted by
// cable type so output is stable across runs.
type CableSummary struct {
	Lines       []CableLine `json:"lines"`
	TotalMeters float64     `json:"total_meters"`
	TotalCost   float64     `json:"total_cost"`
}

// PriceBreakdown is the full pricing waterfall from cost price to final
// amount. Every figure is rounded to 2 decimals.
type PriceBreakdown struct {
	CostPrice      float64 `json:"cost_price"`
	OverheadAmount float64 `json:"overhead_amount"`
	RiskAmount     float64 `json:"risk_amount"`
	SalesBasis     float64 `json:"sales_basis"`
	MarginAmount   float64 `json:"margin_amount"`
	SalePriceExVAT float64 `json:"sale_price_excl_vat"`
	DiscountAmount float64 `json:"discount_amount"`
	NetPrice       float64 `json:"net_price"`
	VATAmount      float64 `json:"vat_amount"`
	FinalAmount    float64 `json:"final_amount"`
	DBAmount       float64 `json:"db_amount"`
	DBPercentage   float64 `json:"db_percentage"`
	DBPerHour      float64 `json:"db_per_hour"`
}

// RiskFactor is one identified project risk.
type RiskFactor struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	ImpactPct   float64 `json:"impact_percentage"`
}

// RiskAnalysis is the scored risk assessment for a project.
type RiskAnalysis struct {
	RiskScore            int          `json:"risk_score"`
	RiskLevel            string       `json:"risk_level"`
	Factors              []RiskFactor `json:"factors"`
	RecommendedBufferPct float64      `json:"recommended_buffer_percentage"`
}

// ElectricalDetail carries the output of the extended electrical
// engineering pass (cable sizing, DS/HD 60364 compliance). It is optional:
// a failed pass simply leaves this nil on the estimate.
type ElectricalDetail struct {
	Warnings         []string          `json:"warnings,omitempty"`
	ComplianceIssues []string          `json:"compliance_issues,omitempty"`
	CircuitSizing    map[string]string `json:"circuit_sizing,omitempty"`
}

// ProjectEstimate is the complete priced estimate for a project.
type ProjectEstimate struct {
	Rooms             []RoomEstimate    `json:"rooms"`
	Panel             PanelRequirements `json:"panel_requirements"`
	Cables            CableSummary      `json:"cable_summary"`
	TotalTimeSeconds  float64           `json:"total_time_seconds"`
	TotalLaborHours   float64           `json:"total_labor_hours"`
	TotalMaterialCost float64           `json:"total_material_cost"`
	TotalLaborCost    float64           `json:"total_labor_cost"`
	OtherCosts        float64           `json:"other_costs"`
	HourlyRate        float64           `json:"hourly_rate"`
	Price             PriceBreakdown    `json:"price"`
	Warnings          []string          `json:"warnings,omitempty"`
	ObsPoints         []string          `json:"obs_points,omitempty"`
	Risk              RiskAnalysis      `json:"risk_analysis"`
	Electrical        *ElectricalDetail `json:"electrical_detail,omitempty"`
}

// TotalPoints returns the number of electrical points across all rooms.
func (p ProjectEstimate) TotalPoints() int {
	total := 0
	for _, room := range p.Rooms {
		total += room.TotalPoints()
	}
	return total
}
