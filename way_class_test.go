package tripgraph

import (
	"testing"
)

func TestParseWayClass(t *testing.T) {
	for _, name := range wayClassNames {
		class, ok := ParseWayClass(name)
		if !ok {
			t.Errorf("Class '%s' must be routable", name)
			continue
		}
		if class.String() != name {
			t.Errorf("Class name must be '%s', but got '%s'", name, class.String())
		}
	}
	for _, name := range []string{"footway", "cycleway", "path", "steps", "track", ""} {
		if _, ok := ParseWayClass(name); ok {
			t.Errorf("Class '%s' must not be routable", name)
		}
	}
}

func TestWayClassMultiplier(t *testing.T) {
	if m := WAY_CLASS_MOTORWAY.Multiplier(); m != 1.0 {
		t.Errorf("Multiplier for %s must be %f, but got %f", WAY_CLASS_MOTORWAY, 1.0, m)
	}
	if m := WAY_CLASS_RESIDENTIAL.Multiplier(); m != 1.4 {
		t.Errorf("Multiplier for %s must be %f, but got %f", WAY_CLASS_RESIDENTIAL, 1.4, m)
	}
	for _, class := range []WayClass{WAY_CLASS_SERVICE, WAY_CLASS_LIVING_STREET, WAY_CLASS_MOTORWAY_LINK} {
		if m := class.Multiplier(); m != DefaultWayMultiplier {
			t.Errorf("Multiplier for %s must be default %f, but got %f", class, DefaultWayMultiplier, m)
		}
	}
	if s := WayClass(0).String(); s != "undefined" {
		t.Errorf("Zero class must be 'undefined', but got '%s'", s)
	}
}
