package tripgraph

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/paulmach/osm"
)

// Nodes on equator: 1 - 2 - 3 with step 0.001 degree, node 4 is north of node 2
func testOSMNodes() osm.Nodes {
	return osm.Nodes{
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0, Lon: 0.001},
		{ID: 3, Lat: 0, Lon: 0.002},
		{ID: 4, Lat: 0.001, Lon: 0.001},
	}
}

func testOSMWay(id osm.WayID, refs []osm.NodeID, tags ...osm.Tag) *osm.Way {
	way := &osm.Way{ID: id, Tags: osm.Tags(tags)}
	for _, ref := range refs {
		way.Nodes = append(way.Nodes, osm.WayNode{ID: ref})
	}
	return way
}

func testRestriction(id osm.RelationID, restriction string, from, via, to int64) *osm.Relation {
	return &osm.Relation{
		ID: id,
		Members: osm.Members{
			{Type: osm.TypeWay, Ref: from, Role: "from"},
			{Type: osm.TypeNode, Ref: via, Role: "via"},
			{Type: osm.TypeWay, Ref: to, Role: "to"},
		},
		Tags: osm.Tags{
			{Key: "type", Value: "restriction"},
			{Key: "restriction", Value: restriction},
		},
	}
}

func highway(class string) osm.Tag {
	return osm.Tag{Key: "highway", Value: class}
}

func findWay(area *Area, id int64) (Way, bool) {
	for _, way := range area.Ways {
		if way.ID == id {
			return way, true
		}
	}
	return Way{}, false
}

func findNode(area *Area, id int64) (RoadNode, bool) {
	for _, node := range area.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return RoadNode{}, false
}

func segmentIDs(way Way) []int64 {
	ids := make([]int64, len(way.Segments))
	for i, segment := range way.Segments {
		ids[i] = segment.NodeID
	}
	return ids
}

func TestParseOSMClasses(t *testing.T) {
	parser := NewParser()
	area := parser.ParseOSM(7, &osm.OSM{
		Nodes: testOSMNodes(),
		Ways: osm.Ways{
			testOSMWay(10, []osm.NodeID{1, 2}, highway("residential")),
			testOSMWay(11, []osm.NodeID{2, 4}, highway("footway")),
			testOSMWay(12, []osm.NodeID{2, 3}, highway("service")),
		},
	})
	if area.ID != 7 {
		t.Errorf("Area ID must be %d, but got %d", 7, area.ID)
	}
	if len(area.Ways) != 2 {
		t.Fatalf("Number of ways must be %d, but got %d", 2, len(area.Ways))
	}
	if _, ok := findWay(area, 11); ok {
		t.Errorf("Footway must be skipped")
	}
	if _, ok := findNode(area, 4); ok {
		t.Errorf("Node used by skipped way only must not be in area")
	}
	if len(area.Nodes) != 3 {
		t.Errorf("Number of nodes must be %d, but got %d", 3, len(area.Nodes))
	}

	step := Distance(GeoPoint{Lat: 0, Lon: 0}, GeoPoint{Lat: 0, Lon: 0.001})
	residential, _ := findWay(area, 10)
	if residential.Class != WAY_CLASS_RESIDENTIAL {
		t.Errorf("Class must be %s, but got %s", WAY_CLASS_RESIDENTIAL, residential.Class)
	}
	if residential.Segments[0].Weight != 0 {
		t.Errorf("Entry segment weight must be 0, but got %f", residential.Segments[0].Weight)
	}
	if w := residential.Segments[1].Weight; math.Abs(w-step*1.4) > 1e-9 {
		t.Errorf("Segment weight must be %f, but got %f", step*1.4, w)
	}
	service, _ := findWay(area, 12)
	if w := service.Segments[1].Weight; math.Abs(w-step*DefaultWayMultiplier) > 1e-9 {
		t.Errorf("Segment weight must be %f, but got %f", step*DefaultWayMultiplier, w)
	}
}

func TestParseOSMMultipliers(t *testing.T) {
	parser := NewParser(WithMultipliers(map[WayClass]float64{
		WAY_CLASS_RESIDENTIAL: 2.0,
		WAY_CLASS_SERVICE:     -1,
	}))
	area := parser.ParseOSM(1, &osm.OSM{
		Nodes: testOSMNodes(),
		Ways: osm.Ways{
			testOSMWay(10, []osm.NodeID{1, 2}, highway("residential")),
			testOSMWay(12, []osm.NodeID{2, 3}, highway("service")),
		},
	})
	step := Distance(GeoPoint{Lat: 0, Lon: 0}, GeoPoint{Lat: 0, Lon: 0.001})
	residential, _ := findWay(area, 10)
	if w := residential.Segments[1].Weight; math.Abs(w-step*2) > 1e-9 {
		t.Errorf("Segment weight must be %f, but got %f", step*2, w)
	}
	service, _ := findWay(area, 12)
	if w := service.Segments[1].Weight; math.Abs(w-step*DefaultWayMultiplier) > 1e-9 {
		t.Errorf("Negative multiplier must be ignored: weight must be %f, but got %f", step*DefaultWayMultiplier, w)
	}
}

func TestParseOSMOneway(t *testing.T) {
	cases := []struct {
		name     string
		tags     []osm.Tag
		oneway   bool
		segments []int64
	}{
		{"no tag", nil, false, []int64{1, 2, 3}},
		{"yes", []osm.Tag{{Key: "oneway", Value: "yes"}}, true, []int64{1, 2, 3}},
		{"true", []osm.Tag{{Key: "oneway", Value: "true"}}, true, []int64{1, 2, 3}},
		{"reversed", []osm.Tag{{Key: "oneway", Value: "-1"}}, true, []int64{3, 2, 1}},
		{"roundabout", []osm.Tag{{Key: "junction", Value: "roundabout"}}, true, []int64{1, 2, 3}},
		{"explicit no", []osm.Tag{{Key: "oneway", Value: "no"}}, false, []int64{1, 2, 3}},
		{"reversible", []osm.Tag{{Key: "oneway", Value: "reversible"}}, false, []int64{1, 2, 3}},
		{"unknown", []osm.Tag{{Key: "oneway", Value: "sometimes"}}, false, []int64{1, 2, 3}},
	}
	parser := NewParser()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tags := append([]osm.Tag{highway("primary")}, tc.tags...)
			area := parser.ParseOSM(1, &osm.OSM{
				Nodes: testOSMNodes(),
				Ways:  osm.Ways{testOSMWay(10, []osm.NodeID{1, 2, 3}, tags...)},
			})
			if len(area.Ways) != 1 {
				t.Fatalf("Number of ways must be %d, but got %d", 1, len(area.Ways))
			}
			way := area.Ways[0]
			if way.Oneway != tc.oneway {
				t.Errorf("Oneway must be %t, but got %t", tc.oneway, way.Oneway)
			}
			if ids := segmentIDs(way); !reflect.DeepEqual(ids, tc.segments) {
				t.Errorf("Segments must be %v, but got %v", tc.segments, ids)
			}
		})
	}
}

func TestParseOSMGap(t *testing.T) {
	parser := NewParser()
	area := parser.ParseOSM(1, &osm.OSM{
		Nodes: testOSMNodes(),
		Ways: osm.Ways{
			testOSMWay(10, []osm.NodeID{1, 99, 2, 3}, highway("primary")),
		},
	})
	if len(area.Ways) != 1 {
		t.Fatalf("Number of ways must be %d, but got %d", 1, len(area.Ways))
	}
	way := area.Ways[0]
	if ids := segmentIDs(way); !reflect.DeepEqual(ids, []int64{2, 3}) {
		t.Errorf("Segments must be %v, but got %v", []int64{2, 3}, ids)
	}
	if way.Segments[0].Weight != 0 {
		t.Errorf("Entry segment weight must be 0, but got %f", way.Segments[0].Weight)
	}
	if _, ok := findNode(area, 1); ok {
		t.Errorf("Node 1 has no neighbours in the way and must be dropped")
	}
}

func TestParseOSMRestrictions(t *testing.T) {
	ways := osm.Ways{
		testOSMWay(10, []osm.NodeID{1, 2}, highway("primary")),
		testOSMWay(12, []osm.NodeID{2, 3}, highway("primary")),
		testOSMWay(13, []osm.NodeID{2, 4}, highway("primary")),
	}
	cases := []struct {
		name         string
		relations    osm.Relations
		restrictions []TurnRestriction
	}{
		{
			name:         "no_left_turn",
			relations:    osm.Relations{testRestriction(100, "no_left_turn", 10, 2, 13)},
			restrictions: []TurnRestriction{{FromWayID: 10, ToWayID: 13}},
		},
		{
			name:         "only_straight_on",
			relations:    osm.Relations{testRestriction(100, "only_straight_on", 10, 2, 12)},
			restrictions: []TurnRestriction{{FromWayID: 10, ToWayID: 10}, {FromWayID: 10, ToWayID: 13}},
		},
		{
			name: "several relations",
			relations: osm.Relations{
				testRestriction(100, "no_left_turn", 10, 2, 13),
				testRestriction(101, "no_u_turn", 12, 2, 12),
				testRestriction(102, "no_left_turn", 10, 2, 13),
			},
			restrictions: []TurnRestriction{{FromWayID: 10, ToWayID: 13}, {FromWayID: 12, ToWayID: 12}},
		},
		{
			name: "via way",
			relations: osm.Relations{{
				ID: 100,
				Members: osm.Members{
					{Type: osm.TypeWay, Ref: 10, Role: "from"},
					{Type: osm.TypeWay, Ref: 12, Role: "via"},
					{Type: osm.TypeWay, Ref: 13, Role: "to"},
				},
				Tags: osm.Tags{{Key: "type", Value: "restriction"}, {Key: "restriction", Value: "no_left_turn"}},
			}},
			restrictions: nil,
		},
		{
			name:         "via node out of area",
			relations:    osm.Relations{testRestriction(100, "no_left_turn", 10, 99, 13)},
			restrictions: nil,
		},
		{
			name: "not a restriction",
			relations: osm.Relations{{
				ID:      100,
				Members: osm.Members{{Type: osm.TypeWay, Ref: 10, Role: "from"}, {Type: osm.TypeNode, Ref: 2, Role: "via"}, {Type: osm.TypeWay, Ref: 13, Role: "to"}},
				Tags:    osm.Tags{{Key: "type", Value: "route"}},
			}},
			restrictions: nil,
		},
	}
	parser := NewParser()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			area := parser.ParseOSM(1, &osm.OSM{
				Nodes:     testOSMNodes(),
				Ways:      ways,
				Relations: tc.relations,
			})
			via, ok := findNode(area, 2)
			if !ok {
				t.Fatalf("Node 2 must be in area")
			}
			if !reflect.DeepEqual(via.Restrictions, tc.restrictions) {
				t.Errorf("Restrictions must be %v, but got %v", tc.restrictions, via.Restrictions)
			}
		})
	}
}

const testOSMXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
 <node id="1" lat="0" lon="0"/>
 <node id="2" lat="0" lon="0.001"/>
 <node id="3" lat="0" lon="0.002"/>
 <node id="4" lat="0.001" lon="0.001"/>
 <way id="10">
  <nd ref="1"/>
  <nd ref="2"/>
  <tag k="highway" v="primary"/>
 </way>
 <way id="12">
  <nd ref="2"/>
  <nd ref="3"/>
  <tag k="highway" v="primary"/>
  <tag k="oneway" v="yes"/>
 </way>
 <way id="13">
  <nd ref="2"/>
  <nd ref="4"/>
  <tag k="highway" v="footway"/>
 </way>
 <relation id="100">
  <member type="way" ref="10" role="from"/>
  <member type="node" ref="2" role="via"/>
  <member type="way" ref="12" role="to"/>
  <tag k="type" v="restriction"/>
  <tag k="restriction" v="no_straight_on"/>
 </relation>
</osm>`

func TestReadXML(t *testing.T) {
	parser := NewParser()
	area, err := parser.Read(context.Background(), 42, strings.NewReader(testOSMXML), FORMAT_XML)
	if err != nil {
		t.Fatal(err)
	}
	if area.ID != 42 {
		t.Errorf("Area ID must be %d, but got %d", 42, area.ID)
	}
	if len(area.Ways) != 2 {
		t.Errorf("Number of ways must be %d, but got %d", 2, len(area.Ways))
	}
	if len(area.Nodes) != 3 {
		t.Errorf("Number of nodes must be %d, but got %d", 3, len(area.Nodes))
	}
	way, ok := findWay(area, 12)
	if !ok || !way.Oneway {
		t.Errorf("Way 12 must be one-way")
	}
	via, _ := findNode(area, 2)
	correct := []TurnRestriction{{FromWayID: 10, ToWayID: 12}}
	if !reflect.DeepEqual(via.Restrictions, correct) {
		t.Errorf("Restrictions must be %v, but got %v", correct, via.Restrictions)
	}
}

func TestFormatFromFilename(t *testing.T) {
	cases := []struct {
		fname  string
		format Format
		err    bool
	}{
		{"moscow.osm.pbf", FORMAT_PBF, false},
		{"tiles/12.PBF", FORMAT_PBF, false},
		{"sample.osm", FORMAT_XML, false},
		{"sample.xml", FORMAT_XML, false},
		{"sample.csv", 0, true},
	}
	for _, tc := range cases {
		format, err := FormatFromFilename(tc.fname)
		if tc.err {
			if err == nil {
				t.Errorf("Error must be returned for '%s'", tc.fname)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for '%s': %s", tc.fname, err)
			continue
		}
		if format != tc.format {
			t.Errorf("Format for '%s' must be %s, but got %s", tc.fname, tc.format, format)
		}
	}
}
