package tripgraph

import (
	"math"
	"sort"
	"time"

	"golang.org/x/exp/slog"
)

// DefaultSearchRadius is radius (meters) for FindClosestNode
const DefaultSearchRadius = 1000.0

// bboxEpsilon widens spatial index queries to absorb rounding at the radius border (degrees)
const bboxEpsilon = 1e-9

// RoutingGraph is append-only directed graph assembled from one or more Areas.
//
// Single writer: calls to Extend must be serialized by caller. Reads are safe to run concurrently
// once no Extend is in flight
type RoutingGraph struct {
	nodes   map[int64]*GraphNode
	index   *spatialIndex
	areas   map[int64]struct{}
	version uint64
	edges   int
	logger  *slog.Logger
}

// NewRoutingGraph returns empty graph
func NewRoutingGraph(options ...func(*RoutingGraph)) *RoutingGraph {
	g := &RoutingGraph{
		nodes:  make(map[int64]*GraphNode),
		index:  newSpatialIndex(),
		areas:  make(map[int64]struct{}),
		logger: discardLogger(),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// WithGraphLogger sets logger for graph reports
func WithGraphLogger(logger *slog.Logger) func(*RoutingGraph) {
	return func(g *RoutingGraph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Extend merges area into the graph.
//
// Every node of area creates or updates GraphNode: coordinate is overwritten, turn restrictions are merged.
// For every pair of consecutive way segments edge node1->node2 is added (and node2->node1 for two-way roads).
// Area which has been merged already is ignored: false is returned and version stays the same
func (g *RoutingGraph) Extend(area *Area) bool {
	if area == nil {
		return false
	}
	if _, ok := g.areas[area.ID]; ok {
		g.logger.Warn("area has been merged already, skip it", "area_id", area.ID)
		return false
	}
	st := time.Now()
	newNodes := 0
	for _, roadNode := range area.Nodes {
		node, ok := g.nodes[roadNode.ID]
		if !ok {
			node = &GraphNode{
				ID:    roadNode.ID,
				Point: roadNode.Point,
			}
			g.nodes[roadNode.ID] = node
			g.index.insert(node.ID, node.Point)
			newNodes++
		} else if node.Point != roadNode.Point {
			node.Point = roadNode.Point
			g.index.insert(node.ID, node.Point)
		}
		node.addRestrictions(roadNode.Restrictions)
	}
	newEdges := 0
	for _, way := range area.Ways {
		for i := 1; i < len(way.Segments); i++ {
			source, ok := g.nodes[way.Segments[i-1].NodeID]
			if !ok {
				continue
			}
			target, ok := g.nodes[way.Segments[i].NodeID]
			if !ok {
				continue
			}
			weight := way.Segments[i].Weight
			source.Edges = append(source.Edges, GraphEdge{Target: target, Weight: weight, WayID: way.ID})
			newEdges++
			if !way.Oneway {
				target.Edges = append(target.Edges, GraphEdge{Target: source, Weight: weight, WayID: way.ID})
				newEdges++
			}
		}
	}
	g.edges += newEdges
	g.areas[area.ID] = struct{}{}
	g.version++
	g.logger.Info("graph extended",
		"area_id", area.ID,
		"new_nodes", newNodes,
		"new_edges", newEdges,
		"nodes", len(g.nodes),
		"edges", g.edges,
		"version", g.version,
		"elapsed", time.Since(st),
	)
	return true
}

// Version is incremented on every successful Extend. Use it to invalidate derived data
func (g *RoutingGraph) Version() uint64 {
	return g.version
}

// HasArea returns true when area with given id has been merged
func (g *RoutingGraph) HasArea(id int64) bool {
	_, ok := g.areas[id]
	return ok
}

// Node returns node by its id
func (g *RoutingGraph) Node(id int64) (*GraphNode, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// Len returns number of nodes
func (g *RoutingGraph) Len() int {
	return len(g.nodes)
}

// EdgesNum returns number of directed edges
func (g *RoutingGraph) EdgesNum() int {
	return g.edges
}

// Range calls fn for every node in unspecified order until fn returns false
func (g *RoutingGraph) Range(fn func(node *GraphNode) bool) {
	for _, node := range g.nodes {
		if !fn(node) {
			return
		}
	}
}

// Nodes returns all nodes sorted by id
func (g *RoutingGraph) Nodes() []*GraphNode {
	ans := make([]*GraphNode, 0, len(g.nodes))
	for _, node := range g.nodes {
		ans = append(ans, node)
	}
	sort.Slice(ans, func(i, j int) bool {
		return ans[i].ID < ans[j].ID
	})
	return ans
}

// FindClosestNode returns node closest to given point within DefaultSearchRadius
func (g *RoutingGraph) FindClosestNode(lat, lon float64) (*GraphNode, float64) {
	return g.FindClosestNodeWithin(lat, lon, DefaultSearchRadius)
}

// FindClosestNodeWithin returns node closest to given point and distance to it (meters).
//
// When there are no nodes within radius nil and +Inf are returned. Ties are resolved in favor of lower node id
func (g *RoutingGraph) FindClosestNodeWithin(lat, lon, radius float64) (*GraphNode, float64) {
	center := GeoPoint{Lat: lat, Lon: lon}
	var closest *GraphNode
	minDistance := math.Inf(1)
	consider := func(node *GraphNode) {
		dist := Distance(center, node.Point)
		if !(dist <= radius) {
			return
		}
		if dist < minDistance || (dist == minDistance && node.ID < closest.ID) {
			closest = node
			minDistance = dist
		}
	}
	if min, max, ok := boundAround(center, radius); ok {
		min[0], min[1] = min[0]-bboxEpsilon, min[1]-bboxEpsilon
		max[0], max[1] = max[0]+bboxEpsilon, max[1]+bboxEpsilon
		for _, id := range g.index.search(min, max) {
			if node, ok := g.nodes[id]; ok {
				consider(node)
			}
		}
	} else {
		for _, node := range g.nodes {
			consider(node)
		}
	}
	if closest == nil {
		return nil, math.Inf(1)
	}
	return closest, minDistance
}
