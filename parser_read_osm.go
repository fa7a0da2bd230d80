package tripgraph

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// Format is serialization of raw OSM data
type Format uint16

const (
	FORMAT_XML = Format(iota + 1)
	FORMAT_PBF
)

func (iotaIdx Format) String() string {
	return [...]string{"xml", "pbf"}[iotaIdx-1]
}

// OSMScanner is common interface for osmxml and osmpbf scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// FormatFromFilename guesses OSM data format by file extension
func FormatFromFilename(filename string) (Format, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".osm.pbf"), strings.HasSuffix(lower, ".pbf"):
		return FORMAT_PBF, nil
	case strings.HasSuffix(lower, ".osm"), strings.HasSuffix(lower, ".xml"):
		return FORMAT_XML, nil
	}
	return 0, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", filepath.Ext(filename), filename)
}

// ReadFile reads OSM file (XML or PBF) and parses it into Area
func (parser *Parser) ReadFile(ctx context.Context, areaID int64, filename string) (*Area, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer file.Close()
	area, err := parser.Read(ctx, areaID, file, format)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read area from '%s'", filename)
	}
	return area, nil
}

// Read scans raw OSM data of given format and parses it into Area
func (parser *Parser) Read(ctx context.Context, areaID int64, r io.Reader, format Format) (*Area, error) {
	var scanner OSMScanner
	switch format {
	case FORMAT_XML:
		scanner = osmxml.New(ctx, r)
	case FORMAT_PBF:
		scanner = osmpbf.New(ctx, r, 4)
	default:
		return nil, fmt.Errorf("Format '%d' is not handled", format)
	}
	defer scanner.Close()

	st := time.Now()
	data := &osm.OSM{}
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			data.Nodes = append(data.Nodes, obj)
		case *osm.Way:
			data.Ways = append(data.Ways, obj)
		case *osm.Relation:
			data.Relations = append(data.Relations, obj)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Scanner error")
	}
	parser.logger.Debug("osm data scanned",
		"area_id", areaID,
		"format", format.String(),
		"nodes", len(data.Nodes),
		"ways", len(data.Ways),
		"relations", len(data.Relations),
		"elapsed", time.Since(st),
	)
	return parser.ParseOSM(areaID, data), nil
}
