package tripgraph

import (
	"encoding/json"
	"testing"

	geojson "github.com/paulmach/go.geojson"
)

func TestPrepareWKT(t *testing.T) {
	point := PrepareWKTPoint(GeoPoint{Lat: 2, Lon: 1})
	if point != "POINT(1 2)" {
		t.Errorf("WKT must be 'POINT(1 2)', but got '%s'", point)
	}
	line := PrepareWKTLinestring([]GeoPoint{{Lat: 2, Lon: 1}, {Lat: 4, Lon: 3}})
	if line != "LINESTRING(1 2,3 4)" {
		t.Errorf("WKT must be 'LINESTRING(1 2,3 4)', but got '%s'", line)
	}
}

func TestPrepareGeoJSON(t *testing.T) {
	point, err := geojson.UnmarshalGeometry([]byte(PrepareGeoJSONPoint(GeoPoint{Lat: 2, Lon: 1})))
	if err != nil {
		t.Fatal(err)
	}
	if !point.IsPoint() || point.Point[0] != 1 || point.Point[1] != 2 {
		t.Errorf("GeoJSON must be point [1 2], but got %v", point.Point)
	}
	line, err := geojson.UnmarshalGeometry([]byte(PrepareGeoJSONLinestring([]GeoPoint{{Lat: 2, Lon: 1}, {Lat: 4, Lon: 3}})))
	if err != nil {
		t.Fatal(err)
	}
	if !line.IsLineString() || len(line.LineString) != 2 {
		t.Errorf("GeoJSON must be linestring of 2 points, but got %v", line.LineString)
	}
}

func TestPathFeatureCollection(t *testing.T) {
	g := NewRoutingGraph()
	g.Extend(testArea(1, testWay(10, false, 1, 2, 3)))

	fc := PathFeatureCollection(g, g.FindShortestPath(1, 3))
	if len(fc.Features) != 3 {
		t.Fatalf("Number of features must be %d, but got %d", 3, len(fc.Features))
	}
	if n := len(fc.Features[0].Geometry.LineString); n != 3 {
		t.Errorf("Line must have %d points, but got %d", 3, n)
	}
	if _, err := json.Marshal(fc); err != nil {
		t.Errorf("Can't marshal feature collection: %s", err)
	}

	empty := PathFeatureCollection(g, g.FindShortestPath(1, 999))
	if len(empty.Features) != 0 {
		t.Errorf("Feature collection of not found path must be empty, but got %d features", len(empty.Features))
	}
}
