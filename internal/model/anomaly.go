package model

// Severity grades an anomaly.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Anomaly flags a suspicious calculation. Message is for humans; Details
// carries the underlying numbers for machine consumption.
type Anomaly struct {
	Type     string         `json:"type"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details"`
}

// AnomalyInput is what the anomaly detector inspects. Callers typically
// fill it from a ProjectEstimate before saving or sending an offer.
type AnomalyInput struct {
	Rooms        []RoomEstimate `json:"rooms"`
	TotalHours   float64        `json:"total_hours"`
	MarginPct    float64        `json:"margin_percentage"`
	MaterialCost float64        `json:"material_cost"`
	TotalCost    float64        `json:"total_cost"`
}

// TotalPoints returns the number of electrical points across all rooms.
func (a AnomalyInput) TotalPoints() int {
	total := 0
	for _, room := range a.Rooms {
		total += room.TotalPoints()
	}
	return total
}
