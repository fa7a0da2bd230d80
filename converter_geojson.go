package tripgraph

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []GeoPoint) string {
	b, err := geojson.NewLineStringGeometry(coordinates(pts)).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt GeoPoint) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PathFeatureCollection returns GeoJSON FeatureCollection with path line and its end points
func PathFeatureCollection(g *RoutingGraph, path Path) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if !path.Found() {
		return fc
	}
	pts := path.Geometry(g)
	if len(pts) >= 2 {
		line := geojson.NewLineStringFeature(coordinates(pts))
		line.SetProperty("distance", path.Distance)
		line.SetProperty("length_meters", pathLength(pts))
		line.SetProperty("ways", path.Ways)
		fc.AddFeature(line)
	}
	if len(pts) > 0 {
		source := geojson.NewPointFeature([]float64{pts[0].Lon, pts[0].Lat})
		source.SetProperty("node_id", path.Nodes[0])
		source.SetProperty("role", "source")
		fc.AddFeature(source)
		target := geojson.NewPointFeature([]float64{pts[len(pts)-1].Lon, pts[len(pts)-1].Lat})
		target.SetProperty("node_id", path.Nodes[len(path.Nodes)-1])
		target.SetProperty("role", "target")
		fc.AddFeature(target)
	}
	return fc
}

func coordinates(pts []GeoPoint) [][]float64 {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	return pts2d
}
