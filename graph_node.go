package tripgraph

// GraphEdge is directed traversal option from a GraphNode
type GraphEdge struct {
	Target *GraphNode
	Weight float64
	WayID  int64
}

// GraphNode is routing graph representation of RoadNode. Owned by RoutingGraph
type GraphNode struct {
	ID    int64
	Point GeoPoint
	Edges []GraphEdge

	// map[arrivalWayID]forbiddenDepartureWayIDs
	restrictions map[int64]map[int64]struct{}
}

// Forbids returns true when leaving the node by way toWay after arriving by way fromWay is restricted
func (node *GraphNode) Forbids(fromWay, toWay int64) bool {
	forbidden, ok := node.restrictions[fromWay]
	if !ok {
		return false
	}
	_, ok = forbidden[toWay]
	return ok
}

// Restrictions returns turn restrictions recorded at the node
func (node *GraphNode) Restrictions() []TurnRestriction {
	ans := []TurnRestriction{}
	for from, forbidden := range node.restrictions {
		for to := range forbidden {
			ans = append(ans, TurnRestriction{FromWayID: from, ToWayID: to})
		}
	}
	return ans
}

func (node *GraphNode) addRestrictions(restrictions []TurnRestriction) {
	if len(restrictions) == 0 {
		return
	}
	if node.restrictions == nil {
		node.restrictions = make(map[int64]map[int64]struct{})
	}
	for _, restriction := range restrictions {
		if _, ok := node.restrictions[restriction.FromWayID]; !ok {
			node.restrictions[restriction.FromWayID] = make(map[int64]struct{})
		}
		node.restrictions[restriction.FromWayID][restriction.ToWayID] = struct{}{}
	}
}
