package engine

// pointCategory classifies a point kind for panel group sizing.
type pointCategory int

const (
	categoryOutlet pointCategory = iota
	categorySwitch
	categoryLight
	categoryAppliance
	categoryDedicated // high-power appliance on its own circuit
	categoryPanel
	categoryData
)

// pointComponent maps a point kind to its catalog component identity and
// panel classification.
type pointComponent struct {
	Type     string
	Subtype  string
	Category pointCategory
}

// pointTable is the fixed vocabulary of electrical point kinds. The Danish
// trade terms are noted where the key is a translation. Point kinds absent
// from this table still price through the default component profile but
// contribute nothing to panel group counts.
var pointTable = map[string]pointComponent{
	// Outlets (stikkontakter).
	"outlets":        {Type: "outlet", Subtype: "standard", Category: categoryOutlet},
	"double_outlets": {Type: "outlet", Subtype: "double", Category: categoryOutlet},
	"floor_outlets":  {Type: "outlet", Subtype: "floor", Category: categoryOutlet},
	"ip44_outlets":   {Type: "outlet", Subtype: "ip44", Category: categoryOutlet},

	// Switches (afbrydere).
	"switches":         {Type: "switch", Subtype: "single", Category: categorySwitch},
	"two_way_switches": {Type: "switch", Subtype: "two_way", Category: categorySwitch},
	"dimmers":          {Type: "switch", Subtype: "dimmer", Category: categorySwitch},

	// Lighting points (lampesteder, spots).
	"lamp_outlets":      {Type: "light", Subtype: "ceiling", Category: categoryLight},
	"wall_lamp_outlets": {Type: "light", Subtype: "wall", Category: categoryLight},
	"spots":             {Type: "light", Subtype: "spot", Category: categoryLight},
	"led_strips":        {Type: "light", Subtype: "led_strip", Category: categoryLight},
	"outdoor_lights":    {Type: "light", Subtype: "outdoor", Category: categoryLight},

	// Appliance connections.
	"extractor_hood":  {Type: "appliance", Subtype: "hood", Category: categoryAppliance},
	"dishwasher":      {Type: "appliance", Subtype: "dishwasher", Category: categoryAppliance},
	"washing_machine": {Type: "appliance", Subtype: "washer", Category: categoryAppliance},
	"dryer":           {Type: "appliance", Subtype: "dryer", Category: categoryAppliance},
	"doorbell":        {Type: "appliance", Subtype: "doorbell", Category: categoryAppliance},

	// High-power appliances, one dedicated circuit each.
	"oven":              {Type: "appliance", Subtype: "oven", Category: categoryDedicated},
	"induction_cooktop": {Type: "appliance", Subtype: "induction", Category: categoryDedicated},
	"ev_charger":        {Type: "ev", Subtype: "charger", Category: categoryDedicated},
	"floor_heating":     {Type: "heating", Subtype: "floor", Category: categoryDedicated},

	// Panel and safety (HPFI).
	"rcd": {Type: "panel", Subtype: "rcd", Category: categoryPanel},

	// Data points.
	"data_outlets": {Type: "data", Subtype: "cat6", Category: categoryData},
	"tv_outlets":   {Type: "data", Subtype: "coax", Category: categoryData},
}

// lookupPoint resolves a point kind to its component identity. Unknown
// kinds map to a bare component type equal to the kind itself, which the
// component lookup then resolves through its fallback tiers.
func lookupPoint(kind string) (pointComponent, bool) {
	pc, ok := pointTable[kind]
	if !ok {
		return pointComponent{Type: kind}, false
	}
	return pc, true
}

// countCategory sums point quantities for kinds in the given category.
func countCategory(points map[string]int, cat pointCategory) int {
	total := 0
	for kind, qty := range points {
		if qty <= 0 {
			continue
		}
		if pc, ok := pointTable[kind]; ok && pc.Category == cat {
			total += qty
		}
	}
	return total
}
