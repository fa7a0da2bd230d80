package tripgraph

import (
	"math"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// ContractedGraph is contraction hierarchies representation of RoutingGraph.
//
// Turn restrictions are not taken into account, so it is suitable for bulk restriction-free estimations only
type ContractedGraph struct {
	graph    *ch.Graph
	vertices map[int64]struct{}
	version  uint64
}

// Contract prepares contraction hierarchies for current state of the graph.
// Parallel edges between the same pair of nodes are collapsed into the cheapest one
func (g *RoutingGraph) Contract() (*ContractedGraph, error) {
	st := time.Now()
	graph := ch.Graph{}
	nodes := g.Nodes()
	vertices := make(map[int64]struct{}, len(nodes))
	for _, node := range nodes {
		vertices[node.ID] = struct{}{}
		err := graph.CreateVertex(node.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "Can not create vertex %d", node.ID)
		}
	}
	edgesNum := 0
	for _, node := range nodes {
		cheapest := make(map[int64]float64, len(node.Edges))
		targets := make([]int64, 0, len(node.Edges))
		for _, edge := range node.Edges {
			if edge.Target.ID == node.ID {
				continue
			}
			weight, ok := cheapest[edge.Target.ID]
			if !ok {
				targets = append(targets, edge.Target.ID)
				cheapest[edge.Target.ID] = edge.Weight
				continue
			}
			if edge.Weight < weight {
				cheapest[edge.Target.ID] = edge.Weight
			}
		}
		for _, target := range targets {
			err := graph.AddEdge(node.ID, target, cheapest[target])
			if err != nil {
				return nil, errors.Wrapf(err, "Can not wrap vertices %d and %d as edge", node.ID, target)
			}
			edgesNum++
		}
	}
	graph.PrepareContractionHierarchies()
	g.logger.Info("contraction hierarchies prepared",
		"vertices", len(nodes),
		"edges", edgesNum,
		"version", g.version,
		"elapsed", time.Since(st),
	)
	return &ContractedGraph{graph: &graph, vertices: vertices, version: g.version}, nil
}

// Version returns version of RoutingGraph the hierarchies were prepared for
func (cg *ContractedGraph) Version() uint64 {
	return cg.version
}

// ShortestPath returns shortest path between two nodes ignoring turn restrictions
func (cg *ContractedGraph) ShortestPath(startID, endID int64) Path {
	if _, ok := cg.vertices[startID]; !ok {
		return notFoundPath()
	}
	if _, ok := cg.vertices[endID]; !ok {
		return notFoundPath()
	}
	if startID == endID {
		return Path{Nodes: []int64{startID}, Ways: []int64{}, Distance: 0}
	}
	cost, vertices := cg.graph.ShortestPath(startID, endID)
	if cost < 0 || math.IsInf(cost, 1) || len(vertices) == 0 {
		return notFoundPath()
	}
	return Path{Nodes: vertices, Distance: cost}
}

// ExportShortcutsToFile writes shortcuts prepared by contraction into CSV file
// (from_vertex_id;to_vertex_id;weight;via_vertex_id)
func (cg *ContractedGraph) ExportShortcutsToFile(fname string) error {
	err := cg.graph.ExportShortcutsToFile(fname)
	if err != nil {
		return errors.Wrap(err, "Can't export shortcuts")
	}
	return nil
}
