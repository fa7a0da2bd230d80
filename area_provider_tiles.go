package tripgraph

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DefaultTileSize is tile side in degrees
const DefaultTileSize = 0.1

// TileProvider is AreaProvider backed by directory of OSM extracts cut on regular lat/lon grid.
//
// Area with id N is stored either in '<dir>/N.osm.pbf' or in '<dir>/N.osm'
type TileProvider struct {
	dir      string
	tileSize float64
	margin   float64
	parser   *Parser
}

// NewTileProvider returns provider for given directory. Non-positive tileSize falls back to DefaultTileSize
func NewTileProvider(dir string, tileSize float64, parser *Parser) *TileProvider {
	if tileSize <= 0 || tileSize > 180 {
		tileSize = DefaultTileSize
	}
	if parser == nil {
		parser = NewParser()
	}
	return &TileProvider{
		dir:      dir,
		tileSize: tileSize,
		margin:   DefaultSearchRadius,
		parser:   parser,
	}
}

func (tp *TileProvider) columns() int64 {
	return int64(math.Ceil(360.0 / tp.tileSize))
}

func (tp *TileProvider) rows() int64 {
	return int64(math.Ceil(180.0 / tp.tileSize))
}

func (tp *TileProvider) cell(pt GeoPoint) (int64, int64) {
	row := int64(math.Floor((pt.Lat + 90) / tp.tileSize))
	col := int64(math.Floor((pt.Lon + 180) / tp.tileSize))
	return clampInt64(row, 0, tp.rows()-1), clampInt64(col, 0, tp.columns()-1)
}

// TileID returns id of the tile containing given point
func (tp *TileProvider) TileID(pt GeoPoint) int64 {
	row, col := tp.cell(pt)
	return row*tp.columns() + col
}

// IDsBetween returns ids of tiles covering bounding box of given points widened by DefaultSearchRadius,
// so nearest node lookups near tile borders see adjacent tiles too
func (tp *TileProvider) IDsBetween(ctx context.Context, points ...GeoPoint) ([]int64, error) {
	if len(points) == 0 {
		return []int64{}, nil
	}
	minPt, maxPt := points[0], points[0]
	for _, pt := range points[1:] {
		minPt.Lat, minPt.Lon = math.Min(minPt.Lat, pt.Lat), math.Min(minPt.Lon, pt.Lon)
		maxPt.Lat, maxPt.Lon = math.Max(maxPt.Lat, pt.Lat), math.Max(maxPt.Lon, pt.Lon)
	}
	if min, _, ok := boundAround(minPt, tp.margin); ok {
		minPt = GeoPoint{Lon: min[0], Lat: min[1]}
	}
	if _, max, ok := boundAround(maxPt, tp.margin); ok {
		maxPt = GeoPoint{Lon: max[0], Lat: max[1]}
	}
	minRow, minCol := tp.cell(minPt)
	maxRow, maxCol := tp.cell(maxPt)
	ids := make([]int64, 0, (maxRow-minRow+1)*(maxCol-minCol+1))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ids = append(ids, row*tp.columns()+col)
		}
	}
	return ids, nil
}

// FetchArea reads and parses tile file
func (tp *TileProvider) FetchArea(ctx context.Context, id int64) (*Area, error) {
	for _, ext := range []string{".osm.pbf", ".osm"} {
		fname := filepath.Join(tp.dir, fmt.Sprintf("%d%s", id, ext))
		if _, err := os.Stat(fname); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "Can't stat '%s'", fname)
		}
		return tp.parser.ReadFile(ctx, id, fname)
	}
	return nil, errors.Wrapf(ErrAreaNotFound, "tile %d", id)
}

func clampInt64(v, min, max int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
