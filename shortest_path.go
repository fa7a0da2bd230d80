package tripgraph

import (
	"container/heap"
	"math"
)

// Path is result of shortest path search.
//
// Ways[i] is id of the way used to reach Nodes[i+1]. Unreachable goal gives empty Nodes and +Inf Distance
type Path struct {
	Nodes    []int64
	Ways     []int64
	Distance float64
}

// Found returns true when path has been found
func (path Path) Found() bool {
	return len(path.Nodes) > 0 && !math.IsInf(path.Distance, 1)
}

// Geometry returns coordinates of path nodes. Nodes unknown to the graph are skipped
func (path Path) Geometry(g *RoutingGraph) []GeoPoint {
	pts := make([]GeoPoint, 0, len(path.Nodes))
	for _, id := range path.Nodes {
		if node, ok := g.Node(id); ok {
			pts = append(pts, node.Point)
		}
	}
	return pts
}

func notFoundPath() Path {
	return Path{Distance: math.Inf(1)}
}

// searchState is (node, arrival way) pair: turn legality depends on the way used to arrive at the node
type searchState struct {
	nodeID  int64
	wayID   int64
	arrived bool
}

// pathItem is partial path stored in queue. Parent chain is used for path reconstruction
type pathItem struct {
	node     *GraphNode
	state    searchState
	distance float64
	parent   *pathItem
}

type pathQueue []*pathItem

func (pq pathQueue) Len() int           { return len(pq) }
func (pq pathQueue) Less(i, j int) bool { return pq[i].distance < pq[j].distance }
func (pq pathQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *pathQueue) Push(x interface{}) {
	item := x.(*pathItem)
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return item
}

// FindShortestPath returns minimum distance path between two nodes respecting one-way roads and turn restrictions.
//
// Ties between paths of equal distance are resolved in unspecified order
func (g *RoutingGraph) FindShortestPath(startID, endID int64) Path {
	start, ok := g.nodes[startID]
	if !ok {
		return notFoundPath()
	}
	if _, ok := g.nodes[endID]; !ok {
		return notFoundPath()
	}

	startState := searchState{nodeID: startID}
	best := map[searchState]float64{startState: 0}
	visited := make(map[searchState]struct{})

	pq := &pathQueue{}
	heap.Init(pq)
	heap.Push(pq, &pathItem{node: start, state: startState})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*pathItem)
		if current.node.ID == endID {
			return reconstructPath(current)
		}
		if _, ok := visited[current.state]; ok {
			continue
		}
		visited[current.state] = struct{}{}

		for _, edge := range current.node.Edges {
			if current.state.arrived && current.node.Forbids(current.state.wayID, edge.WayID) {
				continue
			}
			next := searchState{nodeID: edge.Target.ID, wayID: edge.WayID, arrived: true}
			if _, ok := visited[next]; ok {
				continue
			}
			candidate := current.distance + edge.Weight
			if known, ok := best[next]; ok && candidate >= known {
				continue
			}
			best[next] = candidate
			heap.Push(pq, &pathItem{
				node:     edge.Target,
				state:    next,
				distance: candidate,
				parent:   current,
			})
		}
	}
	return notFoundPath()
}

func reconstructPath(goal *pathItem) Path {
	depth := 0
	for item := goal; item != nil; item = item.parent {
		depth++
	}
	path := Path{
		Nodes:    make([]int64, depth),
		Ways:     make([]int64, depth-1),
		Distance: goal.distance,
	}
	i := depth - 1
	for item := goal; item != nil; item = item.parent {
		path.Nodes[i] = item.node.ID
		if item.parent != nil {
			path.Ways[i-1] = item.state.wayID
		}
		i--
	}
	return path
}
