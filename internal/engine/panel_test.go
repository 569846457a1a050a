package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

func room(name, roomType string, points map[string]int) model.RoomEstimate {
	return model.RoomEstimate{RoomName: name, RoomType: roomType, Points: points}
}

func TestPanelRequirements_GroupMath(t *testing.T) {
	e := newTestEngine()

	req := e.panelRequirements([]model.RoomEstimate{
		room("Living room", "living_room", map[string]int{
			"outlets": 7,  // ceil(7/6) = 2 outlet groups
			"spots":   11, // ceil(11/10) = 2 light groups
		}),
		room("Kitchen", "kitchen", map[string]int{
			"outlets":           6, // 1 outlet group
			"oven":              1, // dedicated
			"induction_cooktop": 1, // dedicated
		}),
	})

	// Living room 4 + kitchen 3.
	assert.Equal(t, 7, req.TotalGroupsNeeded)
	// Only the kitchen is a wet room: ceil(3/2) = 2.
	assert.Equal(t, 2, req.RCDGroupsNeeded)
	assert.False(t, req.MainBreakerUpgrade)
	assert.True(t, req.SurgeProtectionRecommended)
	assert.Len(t, req.Details, 2)

	// 7×85 + 2×650 + 1200 surge + 1500 small enclosure.
	assert.Equal(t, 4595.0, req.EstimatedPanelCost)
}

func TestPanelRequirements_RCDFloor(t *testing.T) {
	e := newTestEngine()

	// A dry room only still yields the minimum of one RCD group.
	req := e.panelRequirements([]model.RoomEstimate{
		room("Office", "office", map[string]int{"outlets": 3}),
	})
	assert.Equal(t, 1, req.RCDGroupsNeeded)
}

func TestPanelRequirements_LargeEnclosureAndMainBreaker(t *testing.T) {
	e := newTestEngine()

	// 22 dedicated circuits: above both the 12-group enclosure tier and
	// the 20-group main breaker threshold.
	req := e.panelRequirements([]model.RoomEstimate{
		room("Plant room", "utility", map[string]int{"floor_heating": 22}),
	})

	assert.Equal(t, 22, req.TotalGroupsNeeded)
	assert.True(t, req.MainBreakerUpgrade)
	// ceil(22/2) = 11 RCD groups from the utility room.
	assert.Equal(t, 11, req.RCDGroupsNeeded)
	// 22×85 + 11×650 + 2500 upgrade + 1200 surge + 2800 large enclosure.
	assert.Equal(t, 15520.0, req.EstimatedPanelCost)
}

func TestPanelRequirements_UnmappedKindsAddNoGroups(t *testing.T) {
	e := newTestEngine()

	req := e.panelRequirements([]model.RoomEstimate{
		room("Kitchen", "kitchen", map[string]int{"outlets": 6, "ceiling_lights": 2}),
	})

	// "ceiling_lights" is not in the point table: it prices via the
	// default profile but contributes no circuit groups.
	assert.Equal(t, 1, req.TotalGroupsNeeded)
	assert.Equal(t, 1, req.RCDGroupsNeeded)
	// 1×85 + 1×650 + 1200 + 1500.
	assert.Equal(t, 3435.0, req.EstimatedPanelCost)
}

func TestPanelRequirements_EmptyRooms(t *testing.T) {
	e := newTestEngine()

	req := e.panelRequirements(nil)
	assert.Equal(t, 0, req.TotalGroupsNeeded)
	assert.Equal(t, 1, req.RCDGroupsNeeded)
	assert.True(t, req.SurgeProtectionRecommended)
}
