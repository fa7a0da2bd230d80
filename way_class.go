package tripgraph

// WayClass is routable road class taken from OSM 'highway' tag
type WayClass uint16

const (
	WAY_CLASS_MOTORWAY = WayClass(iota + 1)
	WAY_CLASS_MOTORWAY_LINK
	WAY_CLASS_TRUNK
	WAY_CLASS_TRUNK_LINK
	WAY_CLASS_PRIMARY
	WAY_CLASS_PRIMARY_LINK
	WAY_CLASS_SECONDARY
	WAY_CLASS_SECONDARY_LINK
	WAY_CLASS_TERTIARY
	WAY_CLASS_TERTIARY_LINK
	WAY_CLASS_UNCLASSIFIED
	WAY_CLASS_RESIDENTIAL
	WAY_CLASS_LIVING_STREET
	WAY_CLASS_SERVICE
)

// DefaultWayMultiplier is used for routable classes which are not in the multiplier table
const DefaultWayMultiplier = 1.5

func (iotaIdx WayClass) String() string {
	if iotaIdx == 0 || int(iotaIdx) > len(wayClassNames) {
		return "undefined"
	}
	return wayClassNames[iotaIdx-1]
}

// Multiplier returns weight multiplier for the class using default table
func (iotaIdx WayClass) Multiplier() float64 {
	return multiplierFrom(defaultMultipliers, iotaIdx)
}

// ParseWayClass returns class for given 'highway' tag value. Second value is false for non-routable ways
func ParseWayClass(str string) (WayClass, bool) {
	found, ok := wayClasses[str]
	return found, ok
}

func multiplierFrom(table map[WayClass]float64, class WayClass) float64 {
	if m, ok := table[class]; ok {
		return m
	}
	return DefaultWayMultiplier
}

var (
	wayClassNames = [...]string{"motorway", "motorway_link", "trunk", "trunk_link", "primary", "primary_link", "secondary", "secondary_link", "tertiary", "tertiary_link", "unclassified", "residential", "living_street", "service"}

	wayClasses = map[string]WayClass{
		"motorway":       WAY_CLASS_MOTORWAY,
		"motorway_link":  WAY_CLASS_MOTORWAY_LINK,
		"trunk":          WAY_CLASS_TRUNK,
		"trunk_link":     WAY_CLASS_TRUNK_LINK,
		"primary":        WAY_CLASS_PRIMARY,
		"primary_link":   WAY_CLASS_PRIMARY_LINK,
		"secondary":      WAY_CLASS_SECONDARY,
		"secondary_link": WAY_CLASS_SECONDARY_LINK,
		"tertiary":       WAY_CLASS_TERTIARY,
		"tertiary_link":  WAY_CLASS_TERTIARY_LINK,
		"unclassified":   WAY_CLASS_UNCLASSIFIED,
		"residential":    WAY_CLASS_RESIDENTIAL,
		"living_street":  WAY_CLASS_LIVING_STREET,
		"service":        WAY_CLASS_SERVICE,
	}

	// Faster roads get smaller multipliers so routes prefer them
	defaultMultipliers = map[WayClass]float64{
		WAY_CLASS_MOTORWAY:     1.0,
		WAY_CLASS_TRUNK:        1.0,
		WAY_CLASS_PRIMARY:      1.1,
		WAY_CLASS_SECONDARY:    1.15,
		WAY_CLASS_TERTIARY:     1.2,
		WAY_CLASS_UNCLASSIFIED: 1.3,
		WAY_CLASS_RESIDENTIAL:  1.4,
	}
)
