// Package model defines the plain value records exchanged with the
// calculation engine. Everything here is serializable data with no
// behavior beyond small read helpers; the engine never mutates its inputs.
package model

// ComponentTimeProfile holds the time and material profile for installing
// one unit of a component, optionally specific to an installation type.
// An empty InstallationTypeID means the profile applies to any surface.
type ComponentTimeProfile struct {
	ComponentType      string         `json:"component_type" yaml:"component_type"`
	ComponentSubtype   string         `json:"component_subtype,omitempty" yaml:"component_subtype,omitempty"`
	InstallationTypeID string         `json:"installation_type_id,omitempty" yaml:"installation_type_id,omitempty"`
	InstallSeconds     float64        `json:"install_seconds" yaml:"install_seconds"`
	WiringSeconds      float64        `json:"wiring_seconds" yaml:"wiring_seconds"`
	FinishingSeconds   float64        `json:"finishing_seconds" yaml:"finishing_seconds"`
	CableMetersPerUnit float64        `json:"cable_meters_per_unit" yaml:"cable_meters_per_unit"`
	CableType          string         `json:"cable_type,omitempty" yaml:"cable_type,omitempty"`
	MaterialCost       float64        `json:"material_cost" yaml:"material_cost"`
	Materials          []MaterialLine `json:"materials,omitempty" yaml:"materials,omitempty"`
}

// MaterialLine is one per-unit material requirement. Unit costs are priced
// by the downstream supplier-price lookup, not by the engine.
type MaterialLine struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

// InstallationType describes the surface/context work is performed in
// (e.g. concrete wall) and the multipliers it imposes.
type InstallationType struct {
	ID                      string         `json:"id" yaml:"id"`
	Name                    string         `json:"name" yaml:"name"`
	Code                    string         `json:"code,omitempty" yaml:"code,omitempty"`
	TimeMultiplier          float64        `json:"time_multiplier" yaml:"time_multiplier"`
	DifficultyMultiplier    float64        `json:"difficulty_multiplier" yaml:"difficulty_multiplier"`
	MaterialWasteMultiplier float64        `json:"material_waste_multiplier" yaml:"material_waste_multiplier"`
	RequiredTools           []RequiredTool `json:"required_tools,omitempty" yaml:"required_tools,omitempty"`
}

// RequiredTool names a tool an installation type calls for.
type RequiredTool struct {
	Name    string `json:"name" yaml:"name"`
	Special bool   `json:"special" yaml:"special"`
}

// SpecialTools returns the names of tools flagged special.
func (t InstallationType) SpecialTools() []string {
	var names []string
	for _, tool := range t.RequiredTools {
		if tool.Special {
			names = append(names, tool.Name)
		}
	}
	return names
}

// RoomTemplate is a named preset of room characteristics.
type RoomTemplate struct {
	ID                  string               `json:"id" yaml:"id"`
	Name                string               `json:"name" yaml:"name"`
	RoomType            string               `json:"room_type" yaml:"room_type"`
	RecommendedRCD      bool                 `json:"recommended_rcd" yaml:"recommended_rcd"`
	SpecialRequirements []SpecialRequirement `json:"special_requirements,omitempty" yaml:"special_requirements,omitempty"`
}

// SpecialRequirement is a template-level requirement surfaced as a warning.
type SpecialRequirement struct {
	Requirement string `json:"requirement" yaml:"requirement"`
	Description string `json:"description" yaml:"description"`
}

// CatalogData bundles the three catalogs the engine is constructed from.
type CatalogData struct {
	ComponentTimes    []ComponentTimeProfile `json:"component_times" yaml:"component_times"`
	InstallationTypes []InstallationType     `json:"installation_types" yaml:"installation_types"`
	RoomTemplates     []RoomTemplate         `json:"room_templates" yaml:"room_templates"`
}

// RequiresRCDGroups reports whether a room type falls under the wet-room
// safety rule that mandates residual-current protection on its circuits.
func RequiresRCDGroups(roomType string) bool {
	switch roomType {
	case "bathroom", "kitchen", "utility", "outdoor":
		return true
	}
	return false
}

// IsHighRiskRoom reports whether a room type drives risk scoring and the
// missing-RCD anomaly check (bathrooms and outdoor installations).
func IsHighRiskRoom(roomType string) bool {
	return roomType == "bathroom" || roomType == "outdoor"
}
