package daptest

import (
	"reflect"
	"testing"

	"github.com/marram/godap/model"
)

func TestEvaluateMeanAxis0(t *testing.T) {
	out, err := Evaluate(SimpleGrid(), "mean(SimpleGrid,0)")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	n, err := out.Get("SimpleGrid.SimpleGrid")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(n.Data(), []float64{1.5, 2.5, 3.5}) {
		t.Fatalf("mean axis 0 = %v", n.Data())
	}
	// The collapsed axis map is dropped, the other kept.
	grid, _ := out.Get("SimpleGrid")
	if got := grid.Keys(); !reflect.DeepEqual(got, []string{"SimpleGrid", "x"}) {
		t.Fatalf("grid children = %v", got)
	}
}

func TestEvaluateMeanAxis1(t *testing.T) {
	out, err := Evaluate(SimpleGrid(), "mean(SimpleGrid,1)")
	if err != nil {
		t.Fatal(err)
	}
	n, _ := out.Get("SimpleGrid.SimpleGrid")
	if !reflect.DeepEqual(n.Data(), []float64{1, 4}) {
		t.Fatalf("mean axis 1 = %v", n.Data())
	}
}

func TestEvaluateNestedMean(t *testing.T) {
	out, err := Evaluate(SimpleGrid(), "mean(mean(SimpleGrid,0),0)")
	if err != nil {
		t.Fatal(err)
	}
	n, err := out.Get("SimpleGrid.SimpleGrid")
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Shape) != 0 || n.Data() != float64(2.5) {
		t.Fatalf("nested mean = %v (shape %v)", n.Data(), n.Shape)
	}
}

func TestEvaluateMeanOfMap(t *testing.T) {
	out, err := Evaluate(SimpleGrid(), "mean(SimpleGrid.x)")
	if err != nil {
		t.Fatal(err)
	}
	n, err := out.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	if n.Data() != float64(1) {
		t.Fatalf("mean(x) = %v", n.Data())
	}
}

func TestEvaluateDoesNotMutateServed(t *testing.T) {
	ds := SimpleGrid()
	if _, err := Evaluate(ds, "mean(SimpleGrid,0)"); err != nil {
		t.Fatal(err)
	}
	// The served tree keeps its parentage and full shape.
	n, err := ds.Get("SimpleGrid.SimpleGrid")
	if err != nil {
		t.Fatal(err)
	}
	if n.Path() != "SimpleGrid.SimpleGrid" {
		t.Fatalf("path = %q", n.Path())
	}
	if !reflect.DeepEqual(n.Shape, []int{2, 3}) {
		t.Fatalf("shape = %v", n.Shape)
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"unknown function", "variance(SimpleGrid)"},
		{"missing variable", "mean(NoSuchGrid)"},
		{"bad axis", "mean(SimpleGrid,7)"},
		{"number target", "mean(3)"},
		{"trailing input", "mean(SimpleGrid,0) extra"},
		{"bare number", "42"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Evaluate(SimpleGrid(), tc.expr); err == nil {
				t.Fatalf("Evaluate(%q) succeeded", tc.expr)
			}
		})
	}
}

func TestFixtureShapes(t *testing.T) {
	seq := SimpleSequence()
	cast, err := seq.Get("cast")
	if err != nil {
		t.Fatal(err)
	}
	if cast.Kind != model.KindSequence || len(cast.Rows()) != 2 {
		t.Fatalf("cast = kind %v, %d rows", cast.Kind, len(cast.Rows()))
	}
	if got := cast.Keys(); !reflect.DeepEqual(got, []string{
		"id", "lon", "lat", "depth", "time", "temperature", "salinity", "pressure",
	}) {
		t.Fatalf("fields = %v", got)
	}

	types := SimpleTypes()
	if got := len(types.Keys()); got != 9 {
		t.Fatalf("SimpleTypes has %d variables", got)
	}
	fac, ok := types.Attributes()["Facility"].(model.Attributes)
	if !ok || fac["DrifterType"] != "MetOcean WOCE/OCM" {
		t.Fatalf("Facility = %#v", types.Attributes()["Facility"])
	}
}
