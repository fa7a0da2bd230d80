package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/tripgraph"
	"github.com/LdDl/tripgraph/profit"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

var (
	osmFileNames  = flag.String("file", "", "Filenames of *.osm or *.osm.pbf files (separated by commas). Each file is merged as separate area")
	tilesDir      = flag.String("tiles", "", "Directory with tiles '<id>.osm.pbf' or '<id>.osm'. Tiles around given points are loaded on demand")
	tileSize      = flag.Float64("tile-size", tripgraph.DefaultTileSize, "Tile side in degrees")
	fromStr       = flag.String("from", "", "Source point 'lat,lon' (order pickup)")
	toStr         = flag.String("to", "", "Target point 'lat,lon' (order drop-off)")
	driverStr     = flag.String("driver", "", "Driver position 'lat,lon'. When set together with -fares then profit of the order is estimated")
	faresFileName = flag.String("fares", "", "Filename of fare configuration (YAML/JSON/TOML)")
	city          = flag.String("city", "", "City of the order (key of fare table)")
	vehicleClass  = flag.String("class", "", "Vehicle class (key of fare table)")
	radius        = flag.Float64("radius", tripgraph.DefaultSearchRadius, "Radius (meters) for snapping points to road nodes")
	geomFormat    = flag.String("geomf", "wkt", "Format of output geometry. Expected values: wkt / geojson")
	out           = flag.String("out", "", "Filename of 'Comma-Separated Values' (CSV) formatted file. E.g.: if file name is 'map.csv' then 'map_nodes.csv' and 'map_edges.csv' will be produced")
	doContraction = flag.Bool("contract", false, "Prepare contraction hierarchies? Path is evaluated on hierarchies too and shortcuts are exported along with CSV")
	verbose       = flag.Bool("verbose", false, "Print debug logs")
)

func main() {

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := run(context.Background(), logger)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	parser := tripgraph.NewParser(tripgraph.WithLogger(logger))
	g := tripgraph.NewRoutingGraph(tripgraph.WithGraphLogger(logger))
	logger.Debug("parser is ready", "parameters", parser.String())

	points := []tripgraph.GeoPoint{}
	for _, str := range []string{*fromStr, *toStr, *driverStr} {
		if str == "" {
			continue
		}
		pt, err := parsePoint(str)
		if err != nil {
			return err
		}
		points = append(points, pt)
	}

	if *osmFileNames != "" {
		for i, fname := range strings.Split(*osmFileNames, ",") {
			area, err := parser.ReadFile(ctx, int64(i+1), strings.TrimSpace(fname))
			if err != nil {
				return err
			}
			g.Extend(area)
		}
	}
	if *tilesDir != "" {
		provider := tripgraph.NewTileProvider(*tilesDir, *tileSize, parser)
		_, err := tripgraph.LoadAreas(ctx, g, provider, points...)
		if err != nil {
			return err
		}
	}
	if g.Len() == 0 {
		return errors.New("Graph is empty: provide -file or -tiles with data around given points")
	}

	if *out != "" {
		err := g.ExportToCSV(*out)
		if err != nil {
			return err
		}
	}

	var contracted *tripgraph.ContractedGraph
	if *doContraction {
		fmt.Println("Starting contraction process....")
		st := time.Now()
		var err error
		contracted, err = g.Contract()
		if err != nil {
			return err
		}
		fmt.Printf("Done contraction process in %v\n", time.Since(st))
		if *out != "" {
			fnamePart := strings.Split(*out, ".csv")
			err = contracted.ExportShortcutsToFile(fnamePart[0] + "_shortcuts.csv")
			if err != nil {
				return err
			}
		}
	}

	if *fromStr == "" || *toStr == "" {
		return nil
	}
	source, target := points[0], points[1]
	sourceNode, sourceDist := g.FindClosestNodeWithin(source.Lat, source.Lon, *radius)
	if sourceNode == nil {
		return fmt.Errorf("No road node within %.0f meters of %s", *radius, source)
	}
	targetNode, targetDist := g.FindClosestNodeWithin(target.Lat, target.Lon, *radius)
	if targetNode == nil {
		return fmt.Errorf("No road node within %.0f meters of %s", *radius, target)
	}
	fmt.Printf("Source node: %d (%.1f m away)\nTarget node: %d (%.1f m away)\n", sourceNode.ID, sourceDist, targetNode.ID, targetDist)

	path := g.FindShortestPath(sourceNode.ID, targetNode.ID)
	if !path.Found() {
		fmt.Println("Path not found")
	} else {
		fmt.Printf("Distance: %f\nNodes: %v\n", path.Distance, path.Nodes)
		if strings.ToLower(*geomFormat) == "geojson" {
			b, err := json.Marshal(tripgraph.PathFeatureCollection(g, path))
			if err != nil {
				return errors.Wrap(err, "Can't marshal path")
			}
			fmt.Println(string(b))
		} else {
			fmt.Println(tripgraph.PrepareWKTLinestring(path.Geometry(g)))
		}
	}
	if contracted != nil {
		chPath := contracted.ShortestPath(sourceNode.ID, targetNode.ID)
		fmt.Printf("Distance without turn restrictions (contraction hierarchies): %f\n", chPath.Distance)
	}

	if *driverStr == "" || *faresFileName == "" {
		return nil
	}
	cfg, err := profit.LoadConfig(*faresFileName)
	if err != nil {
		return err
	}
	estimator, err := cfg.Estimator(profit.WithLogger(logger))
	if err != nil {
		return err
	}
	order := profit.Order{
		ID:          "cli",
		City:        *city,
		Pickup:      &source,
		Dropoff:     &target,
		ScheduledAt: time.Now(),
	}
	estimate := estimator.Estimate(g, order, profit.Vehicle{Class: *vehicleClass}, points[2])
	if !estimate.Defined {
		fmt.Printf("Profit is undefined: %s\n", estimate.Reason)
		return nil
	}
	fmt.Printf("Income: %.2f\nCost: %.2f\nProfit: %.2f (%s)\n", estimate.Income, estimate.Cost, estimate.Profit, estimate.Rank)
	return nil
}

// parsePoint parses 'lat,lon' string
func parsePoint(str string) (tripgraph.GeoPoint, error) {
	parts := strings.Split(str, ",")
	if len(parts) != 2 {
		return tripgraph.GeoPoint{}, fmt.Errorf("Point must be in 'lat,lon' format, but got '%s'", str)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return tripgraph.GeoPoint{}, errors.Wrapf(err, "Can't parse latitude of '%s'", str)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return tripgraph.GeoPoint{}, errors.Wrapf(err, "Can't parse longitude of '%s'", str)
	}
	return tripgraph.GeoPoint{Lat: lat, Lon: lon}, nil
}
