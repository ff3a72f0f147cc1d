package sweep

import (
	"reflect"
	"testing"
)

func TestEnumeratePointsOrder(t *testing.T) {
	// Sorted names: a before b; a is the outer dimension.
	d := Dimensions{
		"b": {1, 2, 3},
		"a": {1, 2},
	}
	points := EnumeratePoints(d)
	want := []Point{
		{"a": 1, "b": 1},
		{"a": 1, "b": 2},
		{"a": 1, "b": 3},
		{"a": 2, "b": 1},
		{"a": 2, "b": 2},
		{"a": 2, "b": 3},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(points[i], want[i]) {
			t.Fatalf("points[%d] = %v, want %v", i, points[i], want[i])
		}
	}
}

func TestEnumeratePointsIgnoresInputKeyOrder(t *testing.T) {
	a := EnumeratePoints(Dimensions{"x": {1, 2}, "y": {"p", "q"}})
	b := EnumeratePoints(Dimensions{"y": {"p", "q"}, "x": {1, 2}})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("enumeration depends on map construction order")
	}
}

func TestPointAtAgreesWithEnumeration(t *testing.T) {
	d := Dimensions{
		"alpha": {0.5, 1.5},
		"beta":  {"low", "mid", "high"},
		"gamma": {1, 2, 3, 4},
	}
	points := EnumeratePoints(d)
	if len(points) != 24 {
		t.Fatalf("got %d points, want 24", len(points))
	}
	for i := range points {
		if got := PointAt(d, i); !reflect.DeepEqual(got, points[i]) {
			t.Fatalf("PointAt(%d) = %v, want %v", i, got, points[i])
		}
	}
}

func TestPointAtOutOfRange(t *testing.T) {
	d := Dimensions{"a": {1, 2}}
	if got := PointAt(d, 2); got != nil {
		t.Fatalf("PointAt(2) = %v, want nil", got)
	}
	if got := PointAt(d, -1); got != nil {
		t.Fatalf("PointAt(-1) = %v, want nil", got)
	}
}
