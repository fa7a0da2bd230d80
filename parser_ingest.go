package tripgraph

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/osm"
)

// ingestStats counts soft-skipped elements
type ingestStats struct {
	skippedNodes        int
	skippedWays         int
	unhandledOneway     int
	gaps                int
	skippedRestrictions int
}

// ParseOSM builds Area from OSM nodes, ways and restriction relations.
//
// Malformed elements are skipped: way of unknown class, node without coordinates, restriction without
// from/via/to members or with via node out of the area
func (parser *Parser) ParseOSM(areaID int64, data *osm.OSM) *Area {
	st := time.Now()
	stats := ingestStats{}
	area := &Area{ID: areaID}
	if data == nil {
		return area
	}

	points := make(map[int64]GeoPoint, len(data.Nodes))
	for _, node := range data.Nodes {
		if node == nil || !validCoordinate(node.Lat, node.Lon) {
			stats.skippedNodes++
			continue
		}
		points[int64(node.ID)] = GeoPoint{Lat: node.Lat, Lon: node.Lon}
	}

	// Ids of ways passing through each node: needed to expand 'only_*' restrictions
	nodeWays := make(map[int64][]int64)
	nodesOrder := []int64{}
	for _, way := range data.Ways {
		if way == nil {
			continue
		}
		class, ok := ParseWayClass(way.Tags.Find("highway"))
		if !ok {
			stats.skippedWays++
			continue
		}
		direction, ok := parseOneway(way.Tags)
		if !ok {
			stats.unhandledOneway++
			parser.logger.Debug("unhandled 'oneway' tag value", "way_id", int64(way.ID), "oneway", way.Tags.Find("oneway"))
		}
		refs := make([]int64, len(way.Nodes))
		for i, wayNode := range way.Nodes {
			refs[i] = int64(wayNode.ID)
		}
		if direction == ONEWAY_REVERSED {
			for i, j := 0, len(refs)-1; i < j; i, j = i+1, j-1 {
				refs[i], refs[j] = refs[j], refs[i]
			}
		}
		runs, gaps := buildSegments(refs, points, multiplierFrom(parser.multipliers, class))
		stats.gaps += gaps
		for _, segments := range runs {
			area.Ways = append(area.Ways, Way{
				ID:       int64(way.ID),
				Class:    class,
				Oneway:   direction != ONEWAY_NO,
				Segments: segments,
			})
			for _, segment := range segments {
				seen, ok := nodeWays[segment.NodeID]
				if !ok {
					nodesOrder = append(nodesOrder, segment.NodeID)
				}
				if !containsID(seen, int64(way.ID)) {
					nodeWays[segment.NodeID] = append(seen, int64(way.ID))
				}
			}
		}
	}

	restrictions := make(map[int64]map[TurnRestriction]struct{})
	for _, relation := range data.Relations {
		if relation == nil || relation.Tags.Find("type") != "restriction" {
			continue
		}
		pairs, viaID, ok := restrictionPairs(relation, nodeWays)
		if !ok {
			stats.skippedRestrictions++
			continue
		}
		if _, ok := restrictions[viaID]; !ok {
			restrictions[viaID] = make(map[TurnRestriction]struct{})
		}
		for _, pair := range pairs {
			restrictions[viaID][pair] = struct{}{}
		}
	}

	area.Nodes = make([]RoadNode, 0, len(nodesOrder))
	for _, nodeID := range nodesOrder {
		roadNode := RoadNode{
			ID:    nodeID,
			Point: points[nodeID],
		}
		for restriction := range restrictions[nodeID] {
			roadNode.Restrictions = append(roadNode.Restrictions, restriction)
		}
		sort.Slice(roadNode.Restrictions, func(i, j int) bool {
			if roadNode.Restrictions[i].FromWayID != roadNode.Restrictions[j].FromWayID {
				return roadNode.Restrictions[i].FromWayID < roadNode.Restrictions[j].FromWayID
			}
			return roadNode.Restrictions[i].ToWayID < roadNode.Restrictions[j].ToWayID
		})
		area.Nodes = append(area.Nodes, roadNode)
	}

	parser.logger.Info("area parsed",
		"area_id", areaID,
		"nodes", len(area.Nodes),
		"ways", len(area.Ways),
		"restricted_nodes", len(restrictions),
		"skipped_nodes", stats.skippedNodes,
		"skipped_ways", stats.skippedWays,
		"unhandled_oneway", stats.unhandledOneway,
		"gaps", stats.gaps,
		"skipped_restrictions", stats.skippedRestrictions,
		"elapsed", time.Since(st),
	)
	return area
}

// buildSegments walks node references of a way and prepares segments.
//
// Weight of each segment is distance from previous node times multiplier, first segment has zero weight.
// Missing node splits the way: every run of present nodes becomes separate segments list.
// Runs with less than two nodes are dropped. Second returned value is number of gaps
func buildSegments(refs []int64, points map[int64]GeoPoint, multiplier float64) ([][]RoadSegment, int) {
	runs := [][]RoadSegment{}
	gaps := 0
	current := []RoadSegment{}
	var prev GeoPoint
	flush := func() {
		if len(current) >= 2 {
			runs = append(runs, current)
		}
		current = []RoadSegment{}
	}
	for _, ref := range refs {
		pt, ok := points[ref]
		if !ok {
			if len(current) > 0 {
				gaps++
			}
			flush()
			continue
		}
		weight := 0.0
		if len(current) > 0 {
			weight = Distance(prev, pt) * multiplier
		}
		current = append(current, RoadSegment{NodeID: ref, Weight: weight})
		prev = pt
	}
	flush()
	return runs, gaps
}

// restrictionPairs extracts forbidden (from way, to way) pairs for via node of restriction relation.
//
// 'only_*' restrictions are expanded: every other way through via node becomes forbidden
func restrictionPairs(relation *osm.Relation, nodeWays map[int64][]int64) ([]TurnRestriction, int64, bool) {
	var fromWays, toWays []int64
	viaID := int64(-1)
	for _, member := range relation.Members {
		switch member.Role {
		case "from":
			if member.Type != osm.TypeWay {
				return nil, 0, false
			}
			fromWays = append(fromWays, member.Ref)
		case "to":
			if member.Type != osm.TypeWay {
				return nil, 0, false
			}
			toWays = append(toWays, member.Ref)
		case "via":
			// Via-way restrictions are not supported
			if member.Type != osm.TypeNode || viaID != -1 {
				return nil, 0, false
			}
			viaID = member.Ref
		}
	}
	if len(fromWays) == 0 || len(toWays) == 0 || viaID == -1 {
		return nil, 0, false
	}
	throughVia, ok := nodeWays[viaID]
	if !ok {
		return nil, 0, false
	}
	pairs := []TurnRestriction{}
	if strings.HasPrefix(restrictionValue(relation.Tags), "only_") {
		for _, from := range fromWays {
			for _, wayID := range throughVia {
				if containsID(toWays, wayID) {
					continue
				}
				pairs = append(pairs, TurnRestriction{FromWayID: from, ToWayID: wayID})
			}
		}
		return pairs, viaID, true
	}
	for _, from := range fromWays {
		for _, to := range toWays {
			pairs = append(pairs, TurnRestriction{FromWayID: from, ToWayID: to})
		}
	}
	return pairs, viaID, true
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
