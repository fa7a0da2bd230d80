package tripgraph

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ExportToCSV writes graph nodes and edges into two ';'-separated files.
// E.g.: if file name is 'graph.csv' then 'graph_nodes.csv' and 'graph_edges.csv' will be produced
func (g *RoutingGraph) ExportToCSV(fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fnameParts[0] + "_nodes.csv"
	fnameEdges := fnameParts[0] + "_edges.csv"

	err := g.exportNodesToCSV(fnameNodes)
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}

	err = g.exportEdgesToCSV(fnameEdges)
	if err != nil {
		return errors.Wrap(err, "Can't export edges")
	}
	return nil
}

func (g *RoutingGraph) exportNodesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "out_degree", "restrictions", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, node := range g.Nodes() {
		restrictions := node.Restrictions()
		restrictionsStr := make([]string, len(restrictions))
		for i, restriction := range restrictions {
			restrictionsStr[i] = fmt.Sprintf("%d->%d", restriction.FromWayID, restriction.ToWayID)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			fmt.Sprintf("%d", len(node.Edges)),
			strings.Join(restrictionsStr, ","),
			PrepareWKTPoint(node.Point),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	writer.Flush()
	return writer.Error()
}

func (g *RoutingGraph) exportEdgesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"source_node", "target_node", "way_id", "weight", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, node := range g.Nodes() {
		for _, edge := range node.Edges {
			err = writer.Write([]string{
				fmt.Sprintf("%d", node.ID),
				fmt.Sprintf("%d", edge.Target.ID),
				fmt.Sprintf("%d", edge.WayID),
				fmt.Sprintf("%f", edge.Weight),
				PrepareWKTLinestring([]GeoPoint{node.Point, edge.Target.Point}),
			})
			if err != nil {
				return errors.Wrap(err, "Can't write edge")
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
