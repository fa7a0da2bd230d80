package tripgraph

import (
	"strings"

	"github.com/paulmach/osm"
)

var (
	junctionTypes = map[string]struct{}{
		"circular":   {},
		"roundabout": {},
	}

	onewayReversible = map[string]struct{}{
		"reversible":  {},
		"alternating": {},
	}

	restrictionTags = []string{"restriction", "restriction:motorcar", "restriction:motor_vehicle"}
)

// onewayKind describes how 'oneway' (and 'junction') tags should be treated
type onewayKind uint16

const (
	ONEWAY_NO = onewayKind(iota + 1)
	ONEWAY_FORWARD
	ONEWAY_REVERSED
)

// parseOneway returns direction of way based on its tags. Second value is false for unhandled tag values
func parseOneway(tags osm.Tags) (onewayKind, bool) {
	onewayText := strings.ToLower(tags.Find("oneway"))
	switch onewayText {
	case "yes", "1", "true":
		return ONEWAY_FORWARD, true
	case "no", "0", "false":
		return ONEWAY_NO, true
	case "-1", "reverse":
		return ONEWAY_REVERSED, true
	case "":
		if _, ok := junctionTypes[tags.Find("junction")]; ok {
			return ONEWAY_FORWARD, true
		}
		return ONEWAY_NO, true
	}
	// Reversible or alternating ways depend on time conditions: allow both directions
	if _, ok := onewayReversible[onewayText]; ok {
		return ONEWAY_NO, true
	}
	return ONEWAY_NO, false
}

// restrictionValue returns restriction kind ('no_left_turn', 'only_straight_on' and etc.) for relation tags
func restrictionValue(tags osm.Tags) string {
	for _, key := range restrictionTags {
		if value := tags.Find(key); value != "" {
			return value
		}
	}
	return ""
}
