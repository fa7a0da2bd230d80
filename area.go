package tripgraph

// TurnRestriction forbids leaving a node by way ToWayID after arriving by way FromWayID
type TurnRestriction struct {
	FromWayID int64
	ToWayID   int64
}

// RoadNode is routable point of an Area
type RoadNode struct {
	ID           int64
	Point        GeoPoint
	Restrictions []TurnRestriction
}

// RoadSegment is one step of a Way. Weight is distance (meters) from previous node of the way
// multiplied by road class factor. First segment of every way has zero weight
type RoadSegment struct {
	NodeID int64
	Weight float64
}

// Way is ordered path of segments.
//
// A single OSM way could be represented by several Way values (sharing ID) when some of its nodes are missing
type Way struct {
	ID       int64
	Class    WayClass
	Oneway   bool
	Segments []RoadSegment
}

// Area is an ingested map region. Immutable after ingestion
type Area struct {
	ID    int64
	Nodes []RoadNode
	Ways  []Way
}
