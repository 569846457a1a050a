package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresRCDGroups(t *testing.T) {
	tests := []struct {
		roomType string
		want     bool
	}{
		{"bathroom", true},
		{"kitchen", true},
		{"utility", true},
		{"outdoor", true},
		{"living_room", false},
		{"bedroom", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.roomType, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresRCDGroups(tt.roomType))
		})
	}
}

func TestIsHighRiskRoom(t *testing.T) {
	assert.True(t, IsHighRiskRoom("bathroom"))
	assert.True(t, IsHighRiskRoom("outdoor"))
	assert.False(t, IsHighRiskRoom("kitchen"))
	assert.False(t, IsHighRiskRoom("utility"))
}

func TestRoomInputTotalPoints(t *testing.T) {
	r := RoomInput{Points: map[string]int{"outlets": 6, "switches": 3, "spots": 0, "dimmers": -1}}
	assert.Equal(t, 9, r.TotalPoints())

	assert.Equal(t, 0, RoomInput{}.TotalPoints())
}

func TestRoomEstimateHasRCD(t *testing.T) {
	// Via input point.
	r := RoomEstimate{Points: map[string]int{"rcd": 1}}
	assert.True(t, r.HasRCD())

	// Via breakdown line.
	r = RoomEstimate{
		Points: map[string]int{"outlets": 2},
		Components: []ComponentBreakdown{
			{ComponentType: "panel", ComponentSubtype: "rcd", Quantity: 1},
		},
	}
	assert.True(t, r.HasRCD())

	// Neither.
	r = RoomEstimate{
		Points: map[string]int{"outlets": 2},
		Components: []ComponentBreakdown{
			{ComponentType: "outlet", ComponentSubtype: "standard", Quantity: 2},
		},
	}
	assert.False(t, r.HasRCD())
}

func TestInstallationTypeSpecialTools(t *testing.T) {
	it := InstallationType{
		RequiredTools: []RequiredTool{
			{Name: "hammer drill", Special: true},
			{Name: "screwdriver", Special: false},
			{Name: "diamond core bit", Special: true},
		},
	}
	assert.Equal(t, []string{"hammer drill", "diamond core bit"}, it.SpecialTools())

	assert.Nil(t, InstallationType{}.SpecialTools())
}

func TestProjectEstimateTotalPoints(t *testing.T) {
	p := ProjectEstimate{
		Rooms: []RoomEstimate{
			{Points: map[string]int{"outlets": 4, "spots": 6}},
			{Points: map[string]int{"outlets": 2}},
		},
	}
	assert.Equal(t, 12, p.TotalPoints())
}
