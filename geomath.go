package tripgraph

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by Distance
	EarthRadiusMeters = 6371000.0
	pi180             = math.Pi / 180.0
	pi180Rev          = 180.0 / math.Pi
)

// GeoPoint representation of point on Earth
type GeoPoint struct {
	Lat float64
	Lon float64
}

// String returns pretty printed value for for GeoPoint
func (gp GeoPoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", gp.Lon, gp.Lat)
}

// Point returns orb representation of GeoPoint (X = longitude, Y = latitude)
func (gp GeoPoint) Point() orb.Point {
	return orb.Point{gp.Lon, gp.Lat}
}

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// radiansTodegrees r = deg  * 180 / pi
func radiansTodegrees(d float64) float64 {
	return d * pi180Rev
}

// Distance returns great circle distance between two geo-points (meters)
//
// Haversine formula. Symmetric, zero for identical points
func Distance(p, q GeoPoint) float64 {
	lat1 := degreesToRadians(p.Lat)
	lon1 := degreesToRadians(p.Lon)
	lat2 := degreesToRadians(q.Lat)
	lon2 := degreesToRadians(q.Lon)
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * EarthRadiusMeters
}

// pathLength returns length for given line (meters)
func pathLength(line []GeoPoint) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += Distance(line[i-1], line[i])
	}
	return totalLength
}

// lineString converts points to orb.LineString
func lineString(pts []GeoPoint) orb.LineString {
	line := make(orb.LineString, len(pts))
	for i := range pts {
		line[i] = pts[i].Point()
	}
	return line
}

// boundAround returns lon/lat bounding box which contains every point within given radius (meters).
//
// Returns false when box can't be expressed without wrapping: infinite radius, box touching poles
// or crossing antimeridian
func boundAround(center GeoPoint, radius float64) (min [2]float64, max [2]float64, ok bool) {
	if math.IsInf(radius, 0) || math.IsNaN(radius) || radius < 0 {
		return min, max, false
	}
	// Bounding coordinates on a sphere: http://janmatuschek.de/LatitudeLongitudeBoundingCoordinates
	angular := radius / EarthRadiusMeters
	lat := degreesToRadians(center.Lat)
	minLatRad, maxLatRad := lat-angular, lat+angular
	if minLatRad <= -math.Pi/2 || maxLatRad >= math.Pi/2 {
		return min, max, false
	}
	deltaLonRad := math.Asin(math.Sin(angular) / math.Cos(lat))
	if math.IsNaN(deltaLonRad) {
		return min, max, false
	}
	minLat, maxLat := radiansTodegrees(minLatRad), radiansTodegrees(maxLatRad)
	deltaLon := radiansTodegrees(deltaLonRad)
	minLon, maxLon := center.Lon-deltaLon, center.Lon+deltaLon
	if minLon < -180 || maxLon > 180 {
		return min, max, false
	}
	return [2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, true
}
